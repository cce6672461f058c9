package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tcgen/core"
	"tcgen/service"

	"github.com/go-playground/validator/v10"
)

// maxRequestBody bounds accepted request size (1MB), matching the
// ingestion limit.
const maxRequestBody = 1 << 20

var validate = validator.New()

// PipelineRunner is the pipeline surface the API needs.
type PipelineRunner interface {
	Process(text string) (*core.BatchOutput, error)
	ProcessBatch(texts []string) (*core.BatchOutput, error)
}

// GenerateRequest is the body of POST /api/generate. Either Text or
// Texts must be provided.
type GenerateRequest struct {
	Text  string   `json:"text" validate:"required_without=Texts"`
	Texts []string `json:"texts" validate:"required_without=Text,omitempty,min=1,dive,required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate runs the pipeline over the submitted requirement text
// and returns the full batch output.
func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "text or texts is required")
		return
	}

	var output *core.BatchOutput
	var err error
	if len(req.Texts) > 0 {
		output, err = a.pipeline.ProcessBatch(req.Texts)
	} else {
		output, err = a.pipeline.Process(req.Text)
	}
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Errorw("pipeline failed", "error", err)
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// handleHealth reports liveness.
func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
