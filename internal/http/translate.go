package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"semaphore/booking/internal/metrics"
)

const (
	translateMissingParams = "Missing required parameters: text or targetLanguage."
	translateFailed        = "Translation failed."
)

type translateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage" validate:"required"`
}

type translateResponse struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translatedText,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.TranslateRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, translateResponse{Error: translateMissingParams})
		return
	}
	req.TargetLanguage = strings.TrimSpace(req.TargetLanguage)
	if err := s.validate.Struct(req); err != nil {
		metrics.TranslateRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, translateResponse{Error: translateMissingParams})
		return
	}

	translated, err := s.translator.Translate(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		log.Printf("translate to %s error: %v", req.TargetLanguage, err)
		metrics.TranslateRequests.WithLabelValues("failed").Inc()
		writeJSON(w, http.StatusInternalServerError, translateResponse{Error: translateFailed})
		return
	}

	metrics.TranslateRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, translateResponse{Success: true, TranslatedText: translated})
}
