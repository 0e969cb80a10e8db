package intent

import (
	"strings"

	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/models"
)

// Model is the statistical classifier the detector falls back to. Predict
// takes lemmatized text and returns a label with a confidence in [0,1].
type Model interface {
	Predict(text string) (label string, confidence float64, err error)
}

// Result is the detector's decision for one turn.
type Result struct {
	Intent     models.IntentLabel
	Provenance models.Provenance
	Confidence float64
}

// Detector runs the prioritized rule table first and arbitrates with the
// statistical model. A nil model degrades it to rule-only operation.
type Detector struct {
	rules        []Rule
	exclusions   []Exclusion
	model        Model
	overrideConf float64
	oosFloor     float64
	minWords     int
	log          logger.Logger
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithModel wires in the statistical classifier.
func WithModel(m Model) DetectorOption {
	return func(d *Detector) { d.model = m }
}

// WithOverrideConfidence sets the confidence the model needs to override
// a general rule hit.
func WithOverrideConfidence(c float64) DetectorOption {
	return func(d *Detector) { d.overrideConf = c }
}

// WithOutOfScopeFloor sets the confidence under which an out-of-scope
// prediction is kept as out-of-scope rather than trusted further.
func WithOutOfScopeFloor(c float64) DetectorOption {
	return func(d *Detector) { d.oosFloor = c }
}

// WithMinOverrideWords sets the minimum utterance word count before a
// general rule hit is re-checked against the model.
func WithMinOverrideWords(n int) DetectorOption {
	return func(d *Detector) { d.minWords = n }
}

// WithDetectorLogger attaches a logger.
func WithDetectorLogger(log logger.Logger) DetectorOption {
	return func(d *Detector) { d.log = log }
}

// NewDetector builds a Detector with the default rule table.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		rules:        DefaultRules(),
		exclusions:   DefaultExclusions(),
		overrideConf: 0.60,
		oosFloor:     0.5,
		minWords:     2,
		log:          logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether the statistical fallback is wired in.
func (d *Detector) Available() bool {
	return d.model != nil
}

// Detect decides the intent for one turn. It receives both text forms:
// rules match the normalized utterance, the model sees the lemmatized one.
func (d *Detector) Detect(normalized, lemmatized string) Result {
	ruleIntent, ruleHit := d.matchRules(normalized)

	if ruleHit && ruleIntent.IsGeneral() && wordCount(normalized) >= d.minWords {
		// A greeting rule firing on a longer utterance is suspicious;
		// the real question may follow the nicety. Ask the model.
		if override, ok := d.tryOverride(lemmatized); ok {
			return override
		}
	}
	if ruleHit {
		return Result{Intent: ruleIntent, Provenance: models.ProvenanceRule, Confidence: 1.0}
	}
	return d.predict(lemmatized)
}

func (d *Detector) matchRules(normalized string) (models.IntentLabel, bool) {
	for _, r := range d.rules {
		loc := r.Pattern.FindStringIndex(normalized)
		if loc == nil {
			continue
		}
		// General rules only count when the match opens the utterance;
		// "merhaba" buried mid-sentence is not a greeting turn.
		if r.General && loc[0] != 0 {
			continue
		}
		if d.voided(r.Intent, normalized) {
			continue
		}
		return r.Intent, true
	}
	return "", false
}

func (d *Detector) voided(intent models.IntentLabel, normalized string) bool {
	for _, ex := range d.exclusions {
		if ex.Voided == intent && ex.By.MatchString(normalized) {
			return true
		}
	}
	return false
}

func (d *Detector) tryOverride(lemmatized string) (Result, bool) {
	if d.model == nil {
		return Result{}, false
	}
	label, conf, err := d.model.Predict(lemmatized)
	if err != nil {
		d.log.Warn("intent model prediction failed", map[string]interface{}{"error": err.Error()})
		return Result{}, false
	}
	candidate := models.IntentLabel(label)
	if isNoConfidenceLabel(label) || !candidate.Valid() || candidate.IsGeneral() {
		return Result{}, false
	}
	if conf < d.overrideConf {
		return Result{}, false
	}
	return Result{Intent: candidate, Provenance: models.ProvenanceModelOverride, Confidence: conf}, true
}

func (d *Detector) predict(lemmatized string) Result {
	if d.model == nil {
		return Result{Intent: models.IntentOutOfScope, Provenance: models.ProvenanceFallback, Confidence: 0}
	}
	label, conf, err := d.model.Predict(lemmatized)
	if err != nil {
		d.log.Warn("intent model prediction failed", map[string]interface{}{"error": err.Error()})
		return Result{Intent: models.IntentOutOfScope, Provenance: models.ProvenanceFallback, Confidence: 0}
	}
	candidate := models.IntentLabel(label)
	switch {
	case isNoConfidenceLabel(label), !candidate.Valid():
		return Result{Intent: models.IntentOutOfScope, Provenance: models.ProvenanceFallback, Confidence: conf}
	case candidate == models.IntentOutOfScope && conf < d.oosFloor:
		return Result{Intent: models.IntentOutOfScope, Provenance: models.ProvenanceFallback, Confidence: conf}
	}
	return Result{Intent: candidate, Provenance: models.ProvenanceModel, Confidence: conf}
}

func isNoConfidenceLabel(label string) bool {
	return label == LabelModelUnavailable || label == LabelNoPrediction
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
