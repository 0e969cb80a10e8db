package intent

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	apperrors "butik-nlu/internal/common/errors"
)

// Labels the classifier emits when it cannot commit to a prediction.
// They are part of the model contract and are mapped to out-of-scope by
// the detector.
const (
	LabelModelUnavailable = "slm_modeli_yuklenemedi"
	LabelNoPrediction     = "tahmin_yok_slm_ile"
)

//go:embed training.txt
var embeddedTrainingData string

// Sample is one labeled training utterance in lemma form.
type Sample struct {
	Label string
	Text  string
}

// NaiveBayes is a multinomial naive-Bayes text classifier over
// whitespace tokens with Laplace smoothing. It is immutable after
// training and safe for concurrent Predict calls.
type NaiveBayes struct {
	Version   int                           `json:"version"`
	Labels    []string                      `json:"labels"`
	Priors    map[string]float64            `json:"priors"`    // log P(label)
	TokenLogP map[string]map[string]float64 `json:"tokenLogP"` // label -> token -> log P(token|label)
	UnseenLog map[string]float64            `json:"unseenLog"` // label -> log prob of an unseen token
}

// Train fits a model on the samples. At least two distinct labels are
// required.
func Train(samples []Sample) (*NaiveBayes, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}

	labelDocs := make(map[string]int)
	labelTokens := make(map[string]map[string]int)
	vocab := make(map[string]bool)
	for _, s := range samples {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			continue
		}
		labelDocs[label]++
		if labelTokens[label] == nil {
			labelTokens[label] = make(map[string]int)
		}
		for _, tok := range strings.Fields(s.Text) {
			labelTokens[label][tok]++
			vocab[tok] = true
		}
	}
	if len(labelDocs) < 2 {
		return nil, fmt.Errorf("need at least 2 labels, got %d", len(labelDocs))
	}

	m := &NaiveBayes{
		Version:   1,
		Priors:    make(map[string]float64, len(labelDocs)),
		TokenLogP: make(map[string]map[string]float64, len(labelDocs)),
		UnseenLog: make(map[string]float64, len(labelDocs)),
	}
	totalDocs := 0
	for _, n := range labelDocs {
		totalDocs += n
	}
	vocabSize := float64(len(vocab))

	for label, docs := range labelDocs {
		m.Labels = append(m.Labels, label)
		m.Priors[label] = math.Log(float64(docs) / float64(totalDocs))

		total := 0
		for _, c := range labelTokens[label] {
			total += c
		}
		denom := float64(total) + vocabSize
		probs := make(map[string]float64, len(labelTokens[label]))
		for tok, c := range labelTokens[label] {
			probs[tok] = math.Log((float64(c) + 1) / denom)
		}
		m.TokenLogP[label] = probs
		m.UnseenLog[label] = math.Log(1 / denom)
	}
	sort.Strings(m.Labels)
	return m, nil
}

// Predict classifies the lemmatized text and returns the best label with
// a softmax-normalized confidence in [0,1].
func (m *NaiveBayes) Predict(text string) (string, float64, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return LabelNoPrediction, 0, nil
	}

	scores := make(map[string]float64, len(m.Labels))
	for _, label := range m.Labels {
		score := m.Priors[label]
		probs := m.TokenLogP[label]
		for _, tok := range tokens {
			if lp, ok := probs[tok]; ok {
				score += lp
			} else {
				score += m.UnseenLog[label]
			}
		}
		scores[label] = score
	}

	best, confidence := softmaxBest(m.Labels, scores)
	return best, confidence, nil
}

// softmaxBest returns the argmax label and its softmax probability,
// iterating labels in their sorted order so ties break deterministically.
func softmaxBest(labels []string, scores map[string]float64) (string, float64) {
	maxScore := math.Inf(-1)
	best := LabelNoPrediction
	for _, l := range labels {
		if scores[l] > maxScore {
			maxScore = scores[l]
			best = l
		}
	}
	var denom float64
	for _, l := range labels {
		denom += math.Exp(scores[l] - maxScore)
	}
	return best, 1 / denom
}

// Save writes the model artifact as JSON.
func (m *NaiveBayes) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadModel reads a model artifact written by Save.
func LoadModel(path string) (*NaiveBayes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewModelLoadError(fmt.Sprintf("%s: %v", path, err))
	}
	var m NaiveBayes
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewModelLoadError(fmt.Sprintf("%s: %v", path, err))
	}
	if len(m.Labels) == 0 || m.Priors == nil || m.TokenLogP == nil {
		return nil, apperrors.NewModelLoadError(path + ": artifact has no labels")
	}
	return &m, nil
}

// ParseSamples reads "__label__<intent> <text>" lines, the labeled
// training data format.
func ParseSamples(r interface{ Read([]byte) (int, error) }) ([]Sample, error) {
	const prefix = "__label__"
	var samples []Sample
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			return nil, fmt.Errorf("malformed training line: %q", line)
		}
		rest := strings.TrimPrefix(line, prefix)
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("training line has no text: %q", line)
		}
		samples = append(samples, Sample{Label: parts[0], Text: strings.TrimSpace(parts[1])})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// LoadSamples reads a labeled training data file from disk.
func LoadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSamples(f)
}

// DefaultModel trains on the seed data compiled into the binary.
func DefaultModel() (*NaiveBayes, error) {
	samples, err := ParseSamples(strings.NewReader(embeddedTrainingData))
	if err != nil {
		return nil, err
	}
	return Train(samples)
}
