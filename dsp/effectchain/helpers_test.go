package effectchain

// gainEffect multiplies every sample by a settable gain.
type gainEffect struct {
	paramTable
	gain    float64
	resets  int
	blocks  int
	lastLen int
}

func newGainEffect(_ Context) (Effect, error) {
	g := &gainEffect{gain: 1}
	g.num("gain",
		func() float64 { return g.gain },
		func(v float64) error {
			g.gain = v

			return nil
		})

	return g, nil
}

func (g *gainEffect) ProcessBlock(dst, src []float32) {
	g.blocks++
	g.lastLen = len(src)

	for i := range src {
		dst[i] = float32(g.gain) * src[i]
	}
}

func (g *gainEffect) Reset() { g.resets++ }

// addEffect adds a constant to every sample, to make stage order visible.
type addEffect struct {
	paramTable
	value float64
}

func newAddEffect(_ Context) (Effect, error) {
	a := &addEffect{}
	a.num("value",
		func() float64 { return a.value },
		func(v float64) error {
			a.value = v

			return nil
		})

	return a, nil
}

func (a *addEffect) ProcessBlock(dst, src []float32) {
	for i := range src {
		dst[i] = src[i] + float32(a.value)
	}
}

func (a *addEffect) Reset() {}

// testRegistry creates a registry with simple test effects.
func testRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("gain", newGainEffect)
	r.MustRegister("add", newAddEffect)

	return r
}
