package models

import "time"

// HistoryCap bounds how many utterances a session retains.
const HistoryCap = 5

// HistoryEntry is one raw utterance with its receive time.
type HistoryEntry struct {
	Utterance string    `json:"utterance"`
	At        time.Time `json:"at"`
}

// Session is the per-conversation record. It is exclusively owned by the
// turn orchestrator; pipeline stages only read it.
type Session struct {
	ID      string         `json:"id"`
	History []HistoryEntry `json:"history"`
	// LastMentionedProduct is the display name of the most recent specific
	// product resolved in this session; empty until one is resolved.
	LastMentionedProduct   string    `json:"lastMentionedProduct,omitempty"`
	LastMentionedProductID string    `json:"lastMentionedProductId,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// AppendHistory records an utterance, evicting the oldest past HistoryCap.
func (s *Session) AppendHistory(utterance string, at time.Time) {
	s.History = append(s.History, HistoryEntry{Utterance: utterance, At: at})
	if len(s.History) > HistoryCap {
		s.History = s.History[len(s.History)-HistoryCap:]
	}
}

// PreviousUtterance returns the utterance before the most recent one, or ""
// when the session has fewer than two turns.
func (s *Session) PreviousUtterance() string {
	if len(s.History) < 2 {
		return ""
	}
	return s.History[len(s.History)-2].Utterance
}

// LastUtterance returns the most recent recorded utterance, or "".
func (s *Session) LastUtterance() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Utterance
}
