// Package options implements the generic functional-option pattern used by the
// aggregation, cumulative, snapshot and engine constructors.
package options

// Option configures a target of type T. Options may reject invalid input by returning
// an error from apply.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function into an Option.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps a validating setter.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError wraps a setter that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		fn: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply runs opts against target in order and stops at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Build copies base, applies opts to the copy and returns it. The base value is never
// modified, so package-level defaults can be shared safely.
func Build[C any](base C, opts ...Option[*C]) (C, error) {
	cfg := base
	if err := Apply(&cfg, opts...); err != nil {
		return base, err
	}

	return cfg, nil
}
