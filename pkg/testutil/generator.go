package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/openstream-dk/openstream/pkg/model"
)

// GeneratorConfig controls element generation.
type GeneratorConfig struct {
	Seed        int64   // Random seed for determinism (0 = use current time)
	OnTopChance float64 // Probability an element is always-on-top
	PinChance   float64 // Probability an element is persistent
	LockChance  float64 // Probability an always-on-top element is template-locked
	MaxZ        int     // Upper bound for raw zIndex values
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		OnTopChance: 0.3,
		PinChance:   0.2,
		LockChance:  0.5,
		MaxZ:        120,
	}
}

// Generator creates deterministic element fixtures for stacking tests.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	nextID int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.MaxZ <= 0 {
		cfg.MaxZ = 120
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed)), nextID: 1}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Elements generates n elements with fresh ids and mixed stacking flags.
// Raw zIndex values may collide and may be negative; the flags follow the
// configured probabilities.
func (g *Generator) Elements(n int) []*model.Element {
	out := make([]*model.Element, n)
	for i := range out {
		el := &model.Element{
			ID:     g.nextID,
			Type:   g.pickType(),
			Name:   fmt.Sprintf("el-%d", g.nextID),
			ZIndex: g.rng.Intn(g.cfg.MaxZ+10) - 10,
		}
		g.nextID++
		if g.rng.Float64() < g.cfg.OnTopChance {
			el.IsAlwaysOnTop = true
			if g.rng.Float64() < g.cfg.LockChance {
				el.PreventSettingsChanges = true
			}
		}
		if g.rng.Float64() < g.cfg.PinChance {
			el.IsPersistent = true
		}
		out[i] = el
	}
	return out
}

// Slide wraps generated elements in a slide.
func (g *Generator) Slide(n int) *model.Slide {
	return &model.Slide{ID: g.nextID, Elements: g.Elements(n)}
}

// Slideshow generates a slideshow with the given slides sizes.
func (g *Generator) Slideshow(name string, slideSizes ...int) *model.Slideshow {
	show := model.NewSlideshow(name)
	for i, n := range slideSizes {
		slide := g.Slide(n)
		slide.ID = i + 1
		show.Slides = append(show.Slides, slide)
	}
	return show
}

var elementTypes = []model.ElementType{
	model.ElementText, model.ElementImage, model.ElementVideo,
	model.ElementShape, model.ElementWidget,
}

func (g *Generator) pickType() model.ElementType {
	return elementTypes[g.rng.Intn(len(elementTypes))]
}
