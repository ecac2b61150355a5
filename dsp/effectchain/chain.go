package effectchain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/block"
	"github.com/cwbudde/algo-fx/dsp/core"
)

// meterFloorDB is the level reported for silence.
const meterFloorDB = -120.0

// StageSpec describes one stage to build.
type StageSpec struct {
	ID     string         `yaml:"id"`
	Type   string         `yaml:"type"`
	Bypass bool           `yaml:"bypass,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Stage is one effect instance in a chain.
type Stage struct {
	id     string
	typ    string
	effect Effect
	bypass atomic.Bool
}

// ID returns the stage's unique ID.
func (s *Stage) ID() string { return s.id }

// Type returns the stage's registered effect type.
func (s *Stage) Type() string { return s.typ }

// Effect returns the stage's effect.
func (s *Stage) Effect() Effect { return s.effect }

// Bypassed reports whether the stage is skipped.
func (s *Stage) Bypassed() bool { return s.bypass.Load() }

// StageInfo is a point-in-time view of a stage for control surfaces.
type StageInfo struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Bypass bool           `json:"bypass"`
	Params map[string]any `json:"params"`
}

// Meters are the chain's most recent block levels in dBFS plus per-stage
// gain reduction in dB.
type Meters struct {
	InputPeakDB   float64            `json:"inputPeakDB"`
	InputRMSDB    float64            `json:"inputRMSDB"`
	OutputPeakDB  float64            `json:"outputPeakDB"`
	OutputRMSDB   float64            `json:"outputRMSDB"`
	GainReduction map[string]float64 `json:"gainReduction"`
}

// Chain runs its stages in order on each block.
//
// ProcessBlock and Reset must be called from a single audio goroutine.
// SetParam, SetStageBypass, SetBypass, Stages and Meters are safe from any
// goroutine.
type Chain struct {
	ctx    Context
	logger *slog.Logger

	stages []*Stage
	index  map[string]*Stage
	bypass atomic.Bool

	scratch [2][]float32
	in      *block.Meter
	out     *block.Meter
}

// NewChain builds the stages described by specs with effects from reg.
func NewChain(reg *Registry, specs []StageSpec, opts ...Option) (*Chain, error) {
	cfg := applyOptions(nil, opts)

	return newChain(reg, specs, cfg)
}

func newChain(reg *Registry, specs []StageSpec, cfg chainConfig) (*Chain, error) {
	if reg == nil {
		return nil, errors.New("effectchain: nil registry")
	}

	ctx := contextFrom(core.ApplyProcessorOptions(cfg.processor...))
	if err := core.ValidateSampleRate("effectchain", ctx.SampleRate); err != nil {
		return nil, err
	}

	c := &Chain{
		ctx:    ctx,
		logger: cfg.logger,
		index:  make(map[string]*Stage, len(specs)),
		in:     block.NewMeter(),
		out:    block.NewMeter(),
	}

	c.scratch[0] = make([]float32, ctx.BlockSize)
	c.scratch[1] = make([]float32, ctx.BlockSize)

	for _, spec := range specs {
		s, err := c.buildStage(reg, spec)
		if err != nil {
			return nil, err
		}

		c.stages = append(c.stages, s)
		c.index[s.id] = s
	}

	c.logger.Info("effect chain built",
		slog.Int("stages", len(c.stages)),
		slog.Float64("sampleRate", ctx.SampleRate),
		slog.Int("blockSize", ctx.BlockSize))

	return c, nil
}

func (c *Chain) buildStage(reg *Registry, spec StageSpec) (*Stage, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("effectchain: stage of type %q has no id", spec.Type)
	}

	if _, dup := c.index[spec.ID]; dup {
		return nil, fmt.Errorf("effectchain: duplicate stage id %q", spec.ID)
	}

	fx, err := reg.New(spec.Type, c.ctx)
	if err != nil {
		return nil, fmt.Errorf("effectchain: stage %q: %w", spec.ID, err)
	}

	params, err := parseParams(spec)
	if err != nil {
		return nil, err
	}

	if err := configure(fx, params); err != nil {
		return nil, fmt.Errorf("effectchain: configure stage %q (%s): %w", spec.ID, spec.Type, err)
	}

	s := &Stage{id: spec.ID, typ: spec.Type, effect: fx}
	s.bypass.Store(spec.Bypass)

	c.logger.Debug("stage built",
		slog.String("id", spec.ID),
		slog.String("type", spec.Type),
		slog.Bool("bypass", spec.Bypass))

	return s, nil
}

// parseParams splits YAML-decoded values into numeric and named parameters.
func parseParams(spec StageSpec) (Params, error) {
	p := Params{ID: spec.ID, Type: spec.Type, Bypassed: spec.Bypass}

	for name, raw := range spec.Params {
		var v float64

		switch x := raw.(type) {
		case string:
			if p.Str == nil {
				p.Str = make(map[string]string)
			}

			p.Str[name] = x

			continue
		case bool:
			if x {
				v = 1
			}
		case int:
			v = float64(x)
		case int64:
			v = float64(x)
		case float64:
			v = x
		default:
			return p, fmt.Errorf("effectchain: stage %q: parameter %q has unsupported value %v", spec.ID, name, raw)
		}

		if p.Num == nil {
			p.Num = make(map[string]float64)
		}

		p.Num[name] = v
	}

	return p, nil
}

// Context returns the settings the effects were built for.
func (c *Chain) Context() Context { return c.ctx }

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Stage returns the stage with the given ID.
func (c *Chain) Stage(id string) (*Stage, bool) {
	s, ok := c.index[id]
	return s, ok
}

// Stages returns a snapshot of every stage in processing order.
func (c *Chain) Stages() []StageInfo {
	out := make([]StageInfo, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.info()
	}

	return out
}

func (s *Stage) info() StageInfo {
	return StageInfo{ID: s.id, Type: s.typ, Bypass: s.Bypassed(), Params: snapshot(s.effect)}
}

// StageInfo returns a snapshot of one stage.
func (c *Chain) StageInfo(id string) (StageInfo, error) {
	s, ok := c.index[id]
	if !ok {
		return StageInfo{}, fmt.Errorf("effectchain: %w: %s", ErrUnknownStage, id)
	}

	return s.info(), nil
}

// SetParam sets a numeric parameter on a stage.
func (c *Chain) SetParam(id, name string, v float64) error {
	s, ok := c.index[id]
	if !ok {
		return fmt.Errorf("effectchain: %w: %s", ErrUnknownStage, id)
	}

	if err := s.effect.Set(name, v); err != nil {
		return fmt.Errorf("effectchain: stage %q: %w", id, err)
	}

	c.logger.Info("parameter changed",
		slog.String("stage", id),
		slog.String("param", name),
		slog.Float64("value", v))

	return nil
}

// SetText sets a named parameter, such as a ratio mode, on a stage.
func (c *Chain) SetText(id, name, value string) error {
	s, ok := c.index[id]
	if !ok {
		return fmt.Errorf("effectchain: %w: %s", ErrUnknownStage, id)
	}

	tp, ok := s.effect.(TextParams)
	if !ok {
		return fmt.Errorf("effectchain: stage %q: %w: %s", id, ErrUnknownParam, name)
	}

	if err := tp.SetText(name, value); err != nil {
		return fmt.Errorf("effectchain: stage %q: %w", id, err)
	}

	c.logger.Info("parameter changed",
		slog.String("stage", id),
		slog.String("param", name),
		slog.String("value", value))

	return nil
}

// SetStageBypass enables or disables one stage.
func (c *Chain) SetStageBypass(id string, bypass bool) error {
	s, ok := c.index[id]
	if !ok {
		return fmt.Errorf("effectchain: %w: %s", ErrUnknownStage, id)
	}

	s.bypass.Store(bypass)
	c.logger.Info("stage bypass changed", slog.String("stage", id), slog.Bool("bypass", bypass))

	return nil
}

// SetBypass passes input straight through when on.
func (c *Chain) SetBypass(bypass bool) { c.bypass.Store(bypass) }

// Bypassed reports whether the whole chain is bypassed.
func (c *Chain) Bypassed() bool { return c.bypass.Load() }

// Reset clears the history of every stage and the meters.
func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.effect.Reset()
	}

	c.in.Reset()
	c.out.Reset()
}

// ProcessBlock runs src through every active stage into dst. Inputs longer
// than the block size are processed in block-sized pieces. dst and src may
// alias.
func (c *Chain) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	size := len(c.scratch[0])

	for off := 0; off < n; off += size {
		end := min(off+size, n)
		c.process(dst[off:end], src[off:end])
	}
}

func (c *Chain) process(dst, src []float32) {
	c.in.Measure(src)

	cur := src
	if !c.bypass.Load() {
		k := 0
		for _, s := range c.stages {
			if s.bypass.Load() {
				continue
			}

			buf := c.scratch[k][:len(src)]
			s.effect.ProcessBlock(buf, cur)
			cur = buf
			k ^= 1
		}
	}

	copy(dst, cur)
	c.out.Measure(dst)
}

// Meters returns the latest levels.
func (c *Chain) Meters() Meters {
	m := Meters{
		InputPeakDB:   floorDB(c.in.PeakDB()),
		InputRMSDB:    floorDB(c.in.RMSDB()),
		OutputPeakDB:  floorDB(c.out.PeakDB()),
		OutputRMSDB:   floorDB(c.out.RMSDB()),
		GainReduction: make(map[string]float64),
	}

	for _, s := range c.stages {
		if gr, ok := s.effect.(GainReducer); ok {
			m.GainReduction[s.id] = gr.GainReduction()
		}
	}

	return m
}

func floorDB(db float64) float64 {
	if math.IsNaN(db) || math.IsInf(db, -1) || db < meterFloorDB {
		return meterFloorDB
	}

	return db
}
