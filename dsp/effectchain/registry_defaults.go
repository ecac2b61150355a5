package effectchain

// Built-in effect type names.
const (
	TypeEQ          = "eq"
	TypeFET         = "fet"
	TypeOptical     = "optical"
	TypeExciter     = "exciter"
	TypeTube        = "tube"
	TypeTransformer = "transformer"
	TypeDenoiser    = "denoiser"
)

// DefaultRegistry returns a Registry pre-populated with all built-in effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(TypeEQ, newEQRuntime)
	r.MustRegister(TypeFET, newFETRuntime)
	r.MustRegister(TypeOptical, newOpticalRuntime)
	r.MustRegister(TypeExciter, newExciterRuntime)
	r.MustRegister(TypeTube, newTubeRuntime)
	r.MustRegister(TypeTransformer, newTransformerRuntime)
	r.MustRegister(TypeDenoiser, newDenoiserRuntime)

	return r
}
