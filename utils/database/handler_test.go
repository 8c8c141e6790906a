package database

import (
	"context"
	"testing"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/pipeline"
)

func TestHandlerImplementsRunStore(t *testing.T) {
	var store RunStore = NewHandler(&config.EnvConfig{})
	if store == nil {
		t.Fatal("NewHandler returned nil")
	}
}

func TestSaveRunRejectsIncompleteResult(t *testing.T) {
	h := NewHandler(&config.EnvConfig{})

	if err := h.SaveRun(context.Background(), "runs", RunRecord{Request: "x"}); err == nil {
		t.Error("expected an error for a nil result")
	}
	rec := RunRecord{Request: "x", Result: &pipeline.Result{}}
	if err := h.SaveRun(context.Background(), "runs", rec); err == nil {
		t.Error("expected an error for a result without a final workflow")
	}
}

func TestGetConnectionStringDefaults(t *testing.T) {
	db := config.Database{Type: "postgres", Host: "localhost", Port: 5432, User: "app", Password: "pw", Database: "flowsmith"}
	got := db.GetConnectionString()
	want := "host=localhost port=5432 user=app password=pw dbname=flowsmith sslmode=disable"
	if got != want {
		t.Errorf("GetConnectionString() = %q, want %q", got, want)
	}
}
