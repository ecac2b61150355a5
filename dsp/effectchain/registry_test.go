package effectchain

import (
	"errors"
	"testing"
)

func dummyFactory(ctx Context) (Effect, error) {
	return newGainEffect(ctx)
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("registers and looks up factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("gain", dummyFactory)
		if err != nil {
			t.Fatalf("Register returned unexpected error: %v", err)
		}

		f := r.Lookup("gain")
		if f == nil {
			t.Fatal("Lookup returned nil for registered type")
		}
	})

	t.Run("rejects empty effect type", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("", dummyFactory)
		if err == nil {
			t.Fatal("expected error for empty effect type")
		}
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("gain", nil)
		if err == nil {
			t.Fatal("expected error for nil factory")
		}
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		_ = r.Register("gain", dummyFactory)

		err := r.Register("gain", dummyFactory)
		if err == nil {
			t.Fatal("expected error for duplicate registration")
		}

		if !errors.Is(err, errDuplicateEffect) {
			t.Errorf("expected errDuplicateEffect, got: %v", err)
		}
	})
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for unknown type", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		if f := r.Lookup("nonexistent"); f != nil {
			t.Fatal("expected nil for unknown type")
		}
	})

	t.Run("returns nil for empty string", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		if f := r.Lookup(""); f != nil {
			t.Fatal("expected nil for empty string")
		}
	})
}

func TestRegistryMustRegister(t *testing.T) {
	t.Parallel()

	t.Run("succeeds for valid registration", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		// Should not panic.
		r.MustRegister("gain", dummyFactory)

		if r.Lookup("gain") == nil {
			t.Fatal("expected factory after MustRegister")
		}
	})

	t.Run("panics on duplicate", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MustRegister("gain", dummyFactory)

		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic on duplicate MustRegister")
			}
		}()

		r.MustRegister("gain", dummyFactory)
	})
}

func TestRegistryTypesAndNew(t *testing.T) {
	t.Parallel()

	r := testRegistry()

	types := r.Types()
	if len(types) != 2 || types[0] != "add" || types[1] != "gain" {
		t.Fatalf("Types() = %v, want [add gain]", types)
	}

	fx, err := r.New("gain", Context{SampleRate: 48000})
	if err != nil || fx == nil {
		t.Fatalf("New(gain) = %v, %v", fx, err)
	}

	_, err = r.New("chorus", Context{SampleRate: 48000})
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("New(chorus) error = %v, want ErrUnknownEffect", err)
	}
}
