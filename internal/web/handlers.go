package web

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/validator"
)

// maxDocumentBytes caps the request body size
const maxDocumentBytes = 4 << 20

type modelResponse struct {
	Model  *document.Document `json:"model"`
	Report diag.Report        `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate validates the YAML document in the request body and
// returns the diagnostic report. The HTTP status reflects transport
// problems only; validation outcome lives in the report status.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	_, diags := validator.ValidateSource(data)
	s.writeJSON(w, http.StatusOK, diag.NewReport(diags))
}

// handleModel validates and returns the resolved model together with
// the report. A document with errors yields 422 and no model.
func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	doc, diags := validator.ValidateSource(data)
	report := diag.NewReport(diags)
	if diags.HasErrors() {
		s.writeJSON(w, http.StatusUnprocessableEntity, modelResponse{Report: report})
		return
	}
	s.writeJSON(w, http.StatusOK, modelResponse{Model: doc, Report: report})
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge,
			map[string]string{"error": "document too large"})
		return nil, false
	}
	if len(data) == 0 {
		s.writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "empty request body"})
		return nil, false
	}
	return data, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("write response", zap.Error(err))
	}
}
