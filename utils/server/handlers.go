package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/models"
	"github.com/flowsmith/flowsmith/utils/pipeline"
)

const defaultModel = "gpt-4o"

func handleHealth(w http.ResponseWriter, r *http.Request, envConfig *config.EnvConfig) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "ok",
		Providers: len(envConfig.Providers),
	})
}

func handleGenerate(w http.ResponseWriter, r *http.Request, envConfig *config.EnvConfig) {
	streaming := r.URL.Query().Get("streaming") == "true" || r.Header.Get("Accept") == "text/event-stream"

	if r.Method != http.MethodPost {
		config.VerboseLog("Method not allowed: requires POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "workflow generation is only available via POST requests")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.DebugLog("Generate request failed: invalid body: %v", err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}
	if req.Description == "" {
		writeJSONError(w, http.StatusBadRequest, "description is required")
		return
	}

	modelName := req.Model
	if modelName == "" {
		modelName = defaultModel
	}

	provider, err := models.ResolveForModel(envConfig, modelName)
	if err != nil {
		config.VerboseLog("Provider resolution failed: %v", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := pipeline.New(provider, pipeline.Options{
		Model:      modelName,
		MaxModules: req.MaxModules,
	})
	pipelineReq := pipeline.Request{
		Description:  req.Description,
		Type:         req.Type,
		Integrations: req.Integrations,
	}

	if streaming {
		handleGenerateStreaming(w, r, p, pipelineReq)
		return
	}

	result, err := p.Run(r.Context(), pipelineReq, nil)
	if err != nil {
		config.VerboseLog("Generation failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(GenerateResponse{Success: false, Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateResponse{
		Success:           true,
		Blueprint:         result.Blueprint,
		Modules:           result.Modules,
		Workflow:          result.FinalWorkflow,
		SetupInstructions: result.SetupInstructions,
		CreditsUsed:       result.CreditsUsed,
	})
}

func handleGenerateStreaming(w http.ResponseWriter, r *http.Request, p *pipeline.Pipeline, req pipeline.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sw := &sseWriter{w: w, f: flusher}

	progressChan := make(chan pipeline.ProgressUpdate)
	progressWriter := pipeline.NewChannelProgressWriter(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressChan {
			if update.Type == pipeline.ProgressError {
				continue // the terminal error event is sent after Run returns
			}
			sw.SendProgress(progressEvent{
				Stage:   update.Stage,
				Message: update.Message,
				Percent: update.Percent,
			})
		}
	}()

	result, err := p.Run(r.Context(), req, progressWriter)
	close(progressChan)
	wg.Wait()

	if err != nil {
		config.VerboseLog("Generation failed: %v", err)
		sw.SendError(err)
		return
	}

	sw.SendResult(GenerateResponse{
		Success:           true,
		Blueprint:         result.Blueprint,
		Modules:           result.Modules,
		Workflow:          result.FinalWorkflow,
		SetupInstructions: result.SetupInstructions,
		CreditsUsed:       result.CreditsUsed,
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(GenerateResponse{Success: false, Error: message})
}
