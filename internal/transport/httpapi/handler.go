package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/models"
)

type processQueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId"`
}

// processQueryResponse is the wire contract of /process_query.
type processQueryResponse struct {
	OriginalQuery          string   `json:"originalQuery"`
	SessionID              string   `json:"sessionId"`
	NLUMethod              string   `json:"nluMethod"`
	DetectedIntent         string   `json:"detectedIntent"`
	ResolvedProduct        string   `json:"resolvedProduct,omitempty"`
	ResolvedSize           string   `json:"resolvedSize,omitempty"`
	AskForClarification    bool     `json:"askForClarification"`
	ClarificationOptions   []string `json:"clarificationOptions,omitempty"`
	PreviousQueryInSession string   `json:"previousQueryInSession,omitempty"`
	ActionableMessage      string   `json:"actionableMessage,omitempty"`
	BotResponse            string   `json:"botResponse"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleProcessQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is supported")
		return
	}

	var req processQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}

	turn, err := s.resolver.ResolveTurn(r.Context(), req.SessionID, req.Query)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}

	bot, actionable := s.responder.Build(turn)
	writeJSON(w, http.StatusOK, buildResponse(turn, bot, actionable))
}

func buildResponse(turn *models.ResolvedTurn, bot, actionable string) processQueryResponse {
	return processQueryResponse{
		OriginalQuery:          turn.Utterance,
		SessionID:              turn.SessionID,
		NLUMethod:              string(turn.Provenance),
		DetectedIntent:         string(turn.Intent),
		ResolvedProduct:        turn.Product,
		ResolvedSize:           turn.Size,
		AskForClarification:    turn.NeedsClarification,
		ClarificationOptions:   turn.ClarificationOptions,
		PreviousQueryInSession: turn.PreviousUtterance,
		ActionableMessage:      actionable,
		BotResponse:            bot,
	}
}

func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	var se *apperrors.StandardError
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		if se.Code == apperrors.ErrCodeEmptyUtterance {
			status = http.StatusBadRequest
		} else if se.Retryable {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, string(se.Code), se.Details)
		return
	}
	s.log.Error("turn resolution failed", map[string]interface{}{"error": err.Error()})
	writeError(w, http.StatusInternalServerError, "INTERNAL", "")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is supported")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"resources": s.health,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
