// Package annotate runs named-entity recognition over extracted page text.
// The primary path is the prose NLP pipeline; when its model cannot be
// built, or when it recognizes nothing, a capitalized-phrase heuristic
// stands in so the pipeline never fails outright on the NLP stage.
package annotate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// pipelineState is the annotator's recognition capability, selected once
// and cached for the process lifetime.
type pipelineState int

const (
	// stateReady means the prose model built successfully.
	stateReady pipelineState = iota
	// stateDegraded means model construction failed; only the heuristic
	// can produce entities.
	stateDegraded
)

// Config controls annotator behavior.
type Config struct {
	// MaxTextRunes caps the text fed to the NLP pipeline to bound CPU and
	// memory on pathological pages. Zero means no cap.
	MaxTextRunes int
}

// Annotator recognizes named entities in text. Construct it once at process
// start and share it; the underlying model is expensive to initialize and
// read-only after warm-up.
type Annotator struct {
	cfg    Config
	logger *zap.Logger

	warmup sync.Once
	state  pipelineState
}

// New builds an Annotator. The NLP model itself is loaded lazily on the
// first Annotate call.
func New(cfg Config, logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{cfg: cfg, logger: logger}
}

// Annotate returns the entities recognized in text, in document order, each
// trimmed and labeled. The bool reports whether the heuristic fallback
// produced the result. Empty input is not an error: it logs and returns an
// empty list. Model failures degrade to the heuristic rather than
// propagating.
func (a *Annotator) Annotate(ctx context.Context, text string) ([]mesh.Entity, bool, error) {
	if strings.TrimSpace(text) == "" {
		a.logger.Warn("empty text provided for entity extraction")
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("annotate canceled: %w", err)
	}
	text = a.capText(text)
	a.ensurePipeline()

	var entities []mesh.Entity
	if a.state == stateReady {
		doc, err := prose.NewDocument(text)
		if err != nil {
			// Recognition failure on this document is not fatal; the
			// heuristic below still runs.
			a.logger.Warn("NER pipeline failed on document", zap.Error(err))
		} else {
			for _, ent := range doc.Entities() {
				trimmed := strings.TrimSpace(ent.Text)
				if trimmed == "" {
					continue
				}
				label := ent.Label
				if label == "" {
					label = mesh.LabelMisc
				}
				entities = append(entities, mesh.Entity{Text: trimmed, Label: label})
			}
		}
	}

	if len(entities) == 0 {
		if fallback := heuristicEntities(text); len(fallback) > 0 {
			a.logger.Info("using heuristic entity fallback", zap.Int("entities", len(fallback)))
			return fallback, true, nil
		}
	}

	a.logger.Info("extracted entities", zap.Int("entities", len(entities)))
	return entities, false, nil
}

// ensurePipeline performs the expensive model warm-up exactly once per
// process and records whether recognition is available.
func (a *Annotator) ensurePipeline() {
	a.warmup.Do(func() {
		if _, err := prose.NewDocument("Knowledge mesh warm-up."); err != nil {
			a.logger.Warn("NER model unavailable; recognition disabled", zap.Error(err))
			a.state = stateDegraded
			return
		}
		a.state = stateReady
	})
}

func (a *Annotator) capText(text string) string {
	if a.cfg.MaxTextRunes <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= a.cfg.MaxTextRunes {
		return text
	}
	a.logger.Warn("text truncated before NER",
		zap.Int("runes", len(runes)),
		zap.Int("cap", a.cfg.MaxTextRunes))
	return string(runes[:a.cfg.MaxTextRunes])
}
