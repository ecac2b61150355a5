package effectchain

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-fx/dsp/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPreset is returned for presets that cannot describe a chain.
var ErrInvalidPreset = errors.New("invalid preset")

// Preset is the YAML description of a chain.
//
//	name: vocal
//	sample_rate: 48000
//	stages:
//	  - id: comp
//	    type: fet
//	    params:
//	      thresholdDB: -18
//	      ratioMode: clean-4
type Preset struct {
	Name       string      `yaml:"name,omitempty"`
	SampleRate float64     `yaml:"sample_rate,omitempty"`
	BlockSize  int         `yaml:"block_size,omitempty"`
	Stages     []StageSpec `yaml:"stages"`
}

// LoadPreset decodes and validates a preset. Unknown keys are errors.
func LoadPreset(r io.Reader) (*Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("effectchain: %w: empty document", ErrInvalidPreset)
		}

		return nil, fmt.Errorf("effectchain: decode preset: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadPresetFile reads a preset from path.
func LoadPresetFile(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("effectchain: open preset: %w", err)
	}
	defer f.Close()

	p, err := LoadPreset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Validate checks the preset's settings and stage list. It does not check
// effect types or parameter names; Build does.
func (p *Preset) Validate() error {
	if p.SampleRate < 0 || math.IsNaN(p.SampleRate) || math.IsInf(p.SampleRate, 0) {
		return fmt.Errorf("effectchain: %w: sample_rate %v", ErrInvalidPreset, p.SampleRate)
	}

	if p.BlockSize < 0 {
		return fmt.Errorf("effectchain: %w: block_size %d", ErrInvalidPreset, p.BlockSize)
	}

	seen := make(map[string]bool, len(p.Stages))
	for i, s := range p.Stages {
		if s.ID == "" {
			return fmt.Errorf("effectchain: %w: stage %d has no id", ErrInvalidPreset, i)
		}

		if s.Type == "" {
			return fmt.Errorf("effectchain: %w: stage %q has no type", ErrInvalidPreset, s.ID)
		}

		if seen[s.ID] {
			return fmt.Errorf("effectchain: %w: duplicate stage id %q", ErrInvalidPreset, s.ID)
		}

		seen[s.ID] = true
	}

	return nil
}

// Build creates a chain from the preset. The preset's sample rate and block
// size apply unless opts override them; zero values fall back to the
// processor defaults.
func (p *Preset) Build(reg *Registry, opts ...Option) (*Chain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	base := []core.ProcessorOption{
		core.WithSampleRate(p.SampleRate),
		core.WithBlockSize(p.BlockSize),
	}

	return newChain(reg, p.Stages, applyOptions(base, opts))
}

// Marshal encodes the preset as YAML.
func (p *Preset) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("effectchain: encode preset: %w", err)
	}

	return out, nil
}

// Preset captures the chain's current stages and parameters.
func (c *Chain) Preset(name string) *Preset {
	p := &Preset{
		Name:       name,
		SampleRate: c.ctx.SampleRate,
		BlockSize:  c.ctx.BlockSize,
		Stages:     make([]StageSpec, len(c.stages)),
	}

	for i, s := range c.stages {
		p.Stages[i] = StageSpec{
			ID:     s.id,
			Type:   s.typ,
			Bypass: s.Bypassed(),
			Params: snapshot(s.effect),
		}
	}

	return p
}

// DefaultPreset returns a mastering-style chain using every built-in effect.
// The denoiser and optical compressor start bypassed.
func DefaultPreset() *Preset {
	return &Preset{
		Name:       "default",
		SampleRate: 44100,
		Stages: []StageSpec{
			{ID: "denoise", Type: TypeDenoiser, Bypass: true},
			{ID: "eq", Type: TypeEQ, Params: map[string]any{
				"hpfHz":      30.0,
				"lowHz":      100.0,
				"lowGainDB":  1.5,
				"highMidHz":  3000.0,
				"highMidQ":   1.0,
				"highGainDB": 1.0,
			}},
			{ID: "comp", Type: TypeFET, Params: map[string]any{
				"thresholdDB": -18.0,
				"ratioMode":   "clean-4",
				"attackUs":    200.0,
				"releaseMs":   300.0,
				"makeupDB":    3.0,
			}},
			{ID: "leveler", Type: TypeOptical, Bypass: true, Params: map[string]any{
				"thresholdDB":  -12.0,
				"timeConstant": 2,
			}},
			{ID: "exciter", Type: TypeExciter, Params: map[string]any{
				"freqHz":       5000.0,
				"harmonicsPct": 15.0,
			}},
			{ID: "tube", Type: TypeTube, Params: map[string]any{
				"drive":        0.3,
				"oversampling": 4,
				"polynomial":   "chebyshev",
			}},
			{ID: "xfmr", Type: TypeTransformer, Params: map[string]any{
				"drive": 1.0,
			}},
		},
	}
}
