package effectchain

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Params holds the parsed parameters for a single chain stage.
type Params struct {
	ID       string
	Type     string
	Bypassed bool
	Num      map[string]float64
	Str      map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// configure applies p to fx: numeric parameters first, in name order, then
// named ones.
func configure(fx Effect, p Params) error {
	for _, name := range sortedKeys(p.Num) {
		if err := fx.Set(name, p.Num[name]); err != nil {
			return err
		}
	}

	if len(p.Str) == 0 {
		return nil
	}

	tp, ok := fx.(TextParams)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, sortedKeys(p.Str)[0])
	}

	for _, name := range sortedKeys(p.Str) {
		if err := tp.SetText(name, p.Str[name]); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

type numParam struct {
	get func() float64
	set func(float64) error
}

type textParam struct {
	get func() string
	set func(string) error
}

// paramTable implements Set, Params, SetText and Texts for an effect
// runtime by dispatching to the wrapped processor's getters and setters.
// It is filled once at construction and read-only afterwards.
type paramTable struct {
	nums  map[string]numParam
	texts map[string]textParam
}

func (t *paramTable) num(name string, get func() float64, set func(float64) error) {
	if t.nums == nil {
		t.nums = make(map[string]numParam)
	}

	t.nums[name] = numParam{get: get, set: set}
}

func (t *paramTable) text(name string, get func() string, set func(string) error) {
	if t.texts == nil {
		t.texts = make(map[string]textParam)
	}

	t.texts[name] = textParam{get: get, set: set}
}

// Set implements Effect.
func (t *paramTable) Set(name string, v float64) error {
	p, ok := t.nums[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}

	if err := core.CheckFinite(name, v); err != nil {
		return err
	}

	return p.set(v)
}

// Params implements Effect.
func (t *paramTable) Params() map[string]float64 {
	out := make(map[string]float64, len(t.nums))
	for name, p := range t.nums {
		out[name] = p.get()
	}

	return out
}

// SetText implements TextParams.
func (t *paramTable) SetText(name, value string) error {
	p, ok := t.texts[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}

	return p.set(value)
}

// Texts implements TextParams.
func (t *paramTable) Texts() map[string]string {
	out := make(map[string]string, len(t.texts))
	for name, p := range t.texts {
		out[name] = p.get()
	}

	return out
}

// snapshot merges numeric and named parameters, named ones winning.
func snapshot(fx Effect) map[string]any {
	out := make(map[string]any)
	for k, v := range fx.Params() {
		out[k] = v
	}

	if tp, ok := fx.(TextParams); ok {
		for k, v := range tp.Texts() {
			out[k] = v
		}
	}

	return out
}

func boolGet(get func() bool) func() float64 {
	return func() float64 {
		if get() {
			return 1
		}

		return 0
	}
}

func boolSet(set func(bool) error) func(float64) error {
	return func(v float64) error { return set(v != 0) }
}

func intGet[T ~int](get func() T) func() float64 {
	return func() float64 { return float64(get()) }
}

func intSet[T ~int](set func(T) error) func(float64) error {
	return func(v float64) error { return set(T(math.Round(v))) }
}

func enumGet[T fmt.Stringer](get func() T) func() string {
	return func() string { return get().String() }
}

func enumSet[T any](parse func(string) (T, error), set func(T) error) func(string) error {
	return func(s string) error {
		v, err := parse(s)
		if err != nil {
			return err
		}

		return set(v)
	}
}
