// Package nlu orchestrates the turn resolution pipeline: normalization,
// lemmatization, intent detection, entity extraction, and context fusion,
// with the session store serializing per-conversation state. Every stage
// degrades independently; a turn only fails on empty input or a broken
// session store.
package nlu

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/common/metrics"
	"butik-nlu/internal/common/observability"
	"butik-nlu/internal/models"
	"butik-nlu/internal/nlu/entity"
	"butik-nlu/internal/nlu/fuse"
	"butik-nlu/internal/nlu/intent"
	"butik-nlu/internal/nlu/morphology"
	"butik-nlu/internal/nlu/normalize"
	"butik-nlu/internal/session"
)

// Pipeline resolves one turn at a time. Construction wires the stages;
// all of them are safe for concurrent use.
type Pipeline struct {
	normalizer *normalize.Normalizer
	reducer    *morphology.Reducer
	detector   *intent.Detector
	resolver   *entity.Resolver
	sessions   session.Store
	obs        *observability.Observability
	log        logger.Logger
	newID      func() string
	now        func() time.Time
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithObservability wires the OpenTelemetry recorder in.
func WithObservability(obs *observability.Observability) PipelineOption {
	return func(p *Pipeline) { p.obs = obs }
}

// WithLogger attaches a logger.
func WithLogger(log logger.Logger) PipelineOption {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline assembles the orchestrator from its stages.
func NewPipeline(
	normalizer *normalize.Normalizer,
	reducer *morphology.Reducer,
	detector *intent.Detector,
	resolver *entity.Resolver,
	sessions session.Store,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		normalizer: normalizer,
		reducer:    reducer,
		detector:   detector,
		resolver:   resolver,
		sessions:   sessions,
		log:        logger.NewNoOpLogger(),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveTurn runs the full pipeline for one utterance. An empty
// sessionID starts a new conversation; an unknown one is adopted as a
// fresh session under the caller's id.
func (p *Pipeline) ResolveTurn(ctx context.Context, sessionID, utterance string) (*models.ResolvedTurn, error) {
	started := p.now()
	raw := strings.TrimSpace(utterance)
	if raw == "" {
		metrics.TurnsRejected.WithLabelValues(string(apperrors.ErrCodeEmptyUtterance)).Inc()
		return nil, apperrors.NewEmptyUtteranceError()
	}

	sess, err := p.ensureSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	normalized := p.timed("normalize", func() string {
		return p.normalizer.Normalize(raw)
	})
	lemmatized := p.timed("lemmatize", func() string {
		return p.reducer.ReducePhrase(normalized)
	})

	var detected intent.Result
	p.timedVoid("intent", func() {
		detected = p.detector.Detect(normalized, lemmatized)
	})

	var entities models.ExtractedEntities
	p.timedVoid("entity", func() {
		entities = p.resolver.Extract(normalized, lemmatized, detected.Intent)
	})

	// Fusion and the history append run inside the store's per-session
	// critical section so concurrent turns cannot interleave.
	var decision fuse.Decision
	var previous string
	_, err = p.sessions.Update(ctx, sess.ID, func(s *models.Session) {
		previous = s.LastUtterance()
		decision = fuse.Resolve(entities, detected.Intent, s)
		s.AppendHistory(raw, p.now())
		if decision.UpdateContext {
			s.LastMentionedProduct = decision.Product
			s.LastMentionedProductID = decision.ProductID
		}
	})
	if err != nil {
		return nil, apperrors.NewSessionStoreError(sess.ID + ": " + err.Error())
	}

	if decision.NeedsClarification {
		metrics.ClarificationsRequested.Inc()
	}
	if decision.CarriedOver {
		metrics.ContextCarryovers.Inc()
	}
	metrics.TurnsResolved.WithLabelValues(string(detected.Intent), string(detected.Provenance)).Inc()
	elapsed := p.now().Sub(started)
	metrics.TurnDuration.Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordTurnResolved(ctx, string(detected.Intent), string(detected.Provenance))
		p.obs.RecordTurnDuration(ctx, elapsed, string(detected.Intent))
	}

	turn := &models.ResolvedTurn{
		SessionID:            sess.ID,
		Utterance:            raw,
		Intent:               detected.Intent,
		Provenance:           detected.Provenance,
		Confidence:           detected.Confidence,
		Product:              decision.Product,
		ProductID:            decision.ProductID,
		Size:                 decision.Size,
		NeedsClarification:   decision.NeedsClarification,
		GenericTerm:          decision.GenericTerm,
		ClarificationOptions: decision.Options,
		PreviousUtterance:    previous,
	}
	p.log.Info("turn resolved", map[string]interface{}{
		"sessionId": turn.SessionID,
		"intent":    string(turn.Intent),
		"nluMethod": string(turn.Provenance),
		"product":   turn.Product,
		"size":      turn.Size,
		"carried":   decision.CarriedOver,
		"ms":        elapsed.Milliseconds(),
	})
	return turn, nil
}

func (p *Pipeline) ensureSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		sessionID = p.newID()
	} else if sess, err := p.sessions.Get(ctx, sessionID); err == nil {
		return sess, nil
	} else if !errors.Is(err, session.ErrNotFound) {
		return nil, apperrors.NewSessionStoreError(sessionID + ": " + err.Error())
	}
	// Unknown ids are adopted rather than replaced so clients can mint
	// their own conversation identifiers.
	sess, err := p.sessions.Create(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewSessionStoreError(sessionID + ": " + err.Error())
	}
	return sess, nil
}

func (p *Pipeline) timed(stage string, fn func() string) string {
	start := p.now()
	out := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(p.now().Sub(start).Seconds())
	return out
}

func (p *Pipeline) timedVoid(stage string, fn func()) {
	start := p.now()
	fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(p.now().Sub(start).Seconds())
}
