package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/pipeline"
)

// RunRecord is one persisted generation run
type RunRecord struct {
	ID          uuid.UUID
	Request     string
	Model       string
	Result      *pipeline.Result
	CreditsUsed int
	CreatedAt   time.Time
}

// RunStore persists completed generation runs. The pipeline itself never
// touches storage; callers hand a finished result to a store.
type RunStore interface {
	EnsureSchema(ctx context.Context, dbName string) error
	SaveRun(ctx context.Context, dbName string, rec RunRecord) error
	Close() error
}

var _ RunStore = (*Handler)(nil)

// Handler manages database connections and run persistence
type Handler struct {
	envConfig *config.EnvConfig
	dbs       map[string]*sql.DB
}

// NewHandler creates a new database handler
func NewHandler(envConfig *config.EnvConfig) *Handler {
	return &Handler{
		envConfig: envConfig,
		dbs:       make(map[string]*sql.DB),
	}
}

// TestConnection attempts to establish a connection to the database and verify it works
func (h *Handler) TestConnection(dbName string) error {
	db, err := h.getConnection(dbName)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping test failed: %w", err)
	}

	return nil
}

// getConnection gets or creates a database connection
func (h *Handler) getConnection(dbName string) (*sql.DB, error) {
	if db, exists := h.dbs[dbName]; exists {
		if err := db.Ping(); err == nil {
			return db, nil
		}
		// Connection is stale, remove it
		delete(h.dbs, dbName)
	}

	dbConfig, err := h.envConfig.GetDatabaseConfig(dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to get database config: %w", err)
	}

	db, err := sql.Open("postgres", dbConfig.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	h.dbs[dbName] = db
	return db, nil
}

// EnsureSchema creates the workflow_runs table if it does not exist
func (h *Handler) EnsureSchema(ctx context.Context, dbName string) error {
	db, err := h.getConnection(dbName)
	if err != nil {
		return err
	}

	const ddl = `CREATE TABLE IF NOT EXISTS workflow_runs (
		id UUID PRIMARY KEY,
		request TEXT NOT NULL,
		model TEXT NOT NULL,
		blueprint JSONB NOT NULL,
		final_workflow JSONB NOT NULL,
		setup_instructions TEXT NOT NULL,
		credits_used INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create workflow_runs table: %w", err)
	}
	return nil
}

// SaveRun persists one completed generation run
func (h *Handler) SaveRun(ctx context.Context, dbName string, rec RunRecord) error {
	if rec.Result == nil || rec.Result.FinalWorkflow == nil {
		return fmt.Errorf("cannot persist an incomplete run")
	}

	db, err := h.getConnection(dbName)
	if err != nil {
		return err
	}

	blueprintJSON, err := json.Marshal(rec.Result.Blueprint)
	if err != nil {
		return fmt.Errorf("failed to encode blueprint: %w", err)
	}
	workflowJSON, err := json.Marshal(rec.Result.FinalWorkflow)
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	const insert = `INSERT INTO workflow_runs
		(id, request, model, blueprint, final_workflow, setup_instructions, credits_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = db.ExecContext(ctx, insert,
		rec.ID, rec.Request, rec.Model, blueprintJSON, workflowJSON,
		rec.Result.SetupInstructions, rec.CreditsUsed, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workflow run: %w", err)
	}

	config.DebugLog("[Database] Saved run %s to %s", rec.ID, dbName)
	return nil
}

// Close closes all open database connections
func (h *Handler) Close() error {
	var firstErr error
	for name, db := range h.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close connection %s: %w", name, err)
		}
		delete(h.dbs, name)
	}
	return firstErr
}
