package ml

import (
	"context"
	"strings"
	"sync"
	"unicode"

	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/sprintforge/backend/pkg/logger"
	"go.uber.org/zap"
)

// Features holds the raw prioritization inputs for one story.
type Features struct {
	StoryPoints          int    `json:"story_points"`
	BusinessValue        int    `json:"business_value"`
	Criticity            int    `json:"criticity"`
	InternalDependencies int    `json:"internal_dependencies"`
	Continuation         int    `json:"continuation"`
	StoryType            string `json:"story_type"`
}

// Validate rejects negative numeric features.
func (f Features) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"story_points", f.StoryPoints},
		{"business_value", f.BusinessValue},
		{"criticity", f.Criticity},
		{"internal_dependencies", f.InternalDependencies},
		{"continuation", f.Continuation},
	}
	for _, c := range checks {
		if c.value < 0 {
			return apperrors.New(apperrors.CodeInvalid, c.name+" must not be negative")
		}
	}
	return nil
}

// NormalizeStoryType trims whitespace and capitalizes the first letter,
// lowercasing the rest, so "technical", "TECHNICAL" and " Technical "
// all encode identically. It is idempotent.
func NormalizeStoryType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// PriorityLabel maps a predicted class to its Spanish label. Classes
// outside the known range map to "desconocida" rather than failing.
func PriorityLabel(class int) string {
	switch class {
	case 0:
		return "baja"
	case 1:
		return "media"
	case 2:
		return "alta"
	default:
		return "desconocida"
	}
}

// Prediction is the outcome of a single inference.
type Prediction struct {
	Class int
	Label string
}

// Engine performs priority inference against a lazily loaded model.
// The artifact may appear on disk after process start; load failures are
// not cached, so every call retries until the model is readable.
type Engine struct {
	path string

	mu    sync.Mutex
	model *Model
}

// NewEngine creates an engine reading its model from path. The model is
// not loaded until the first prediction.
func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

func (e *Engine) load() (*Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model, nil
	}
	m, err := LoadModel(e.path)
	if err != nil {
		logger.L().Warn("priority model unavailable", zap.String("path", e.path), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "priority model unavailable")
	}
	logger.L().Info("priority model loaded",
		zap.String("path", e.path),
		zap.Int("trees", len(m.Trees)),
		zap.Strings("features", m.Features),
	)
	e.model = m
	return m, nil
}

// Predict validates and normalizes the features, encodes them in the
// model's training order, and returns the inferred priority.
func (e *Engine) Predict(ctx context.Context, f Features) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, apperrors.Wrap(err, apperrors.CodeInternal, "prediction canceled")
	}
	if err := f.Validate(); err != nil {
		return Prediction{}, err
	}

	m, err := e.load()
	if err != nil {
		return Prediction{}, err
	}

	storyType := NormalizeStoryType(f.StoryType)
	vector := []float64{
		float64(f.StoryPoints),
		float64(f.BusinessValue),
		float64(f.Criticity),
		float64(f.InternalDependencies),
		float64(f.Continuation),
		m.EncodeStoryType(storyType),
	}

	class, err := m.Predict(vector)
	if err != nil {
		return Prediction{}, apperrors.Wrap(err, apperrors.CodeInternal, "prediction failed")
	}
	return Prediction{Class: class, Label: PriorityLabel(class)}, nil
}
