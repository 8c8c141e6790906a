package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/pipeline"
	"github.com/flowsmith/flowsmith/utils/workflow"
)

// GenerateRequest is the POST /generate body
type GenerateRequest struct {
	Description  string   `json:"description"`
	Type         string   `json:"type,omitempty"`
	Integrations []string `json:"integrations,omitempty"`
	Model        string   `json:"model,omitempty"`
	MaxModules   int      `json:"maxModules,omitempty"`
}

// GenerateResponse is the non-streaming POST /generate response
type GenerateResponse struct {
	Success           bool                       `json:"success"`
	Error             string                     `json:"error,omitempty"`
	Blueprint         *pipeline.Blueprint        `json:"blueprint,omitempty"`
	Modules           []pipeline.GeneratedModule `json:"modules,omitempty"`
	Workflow          *workflow.Graph            `json:"workflow,omitempty"`
	SetupInstructions string                     `json:"setupInstructions,omitempty"`
	CreditsUsed       int                        `json:"creditsUsed,omitempty"`
}

// HealthResponse is the GET /health response
type HealthResponse struct {
	Status    string `json:"status"`
	Providers int    `json:"providers"`
}

// progressEvent is the SSE payload for one progress update
type progressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// sseWriter formats output as Server-Sent Events
type sseWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (sw *sseWriter) SendProgress(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		config.DebugLog("[SSE] Error marshaling progress data: %v", err)
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "event: progress\ndata: %s\n\n", jsonData); err != nil {
		return err
	}
	sw.f.Flush()
	return nil
}

func (sw *sseWriter) SendResult(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "event: result\ndata: %s\n\n", jsonData); err != nil {
		return err
	}
	sw.f.Flush()
	return nil
}

func (sw *sseWriter) SendError(err error) {
	config.DebugLog("[SSE] Sending error event: %v", err)
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintf(sw.w, "event: error\ndata: %s\n\n", payload)
	sw.f.Flush()
}
