package qubo

// DefaultCommunityPenalty is the one-hot constraint weight used by
// BuildCommunityDetection
const DefaultCommunityPenalty = 0.1

// Option configures a builder
type Option func(*options)

type options struct {
	penalty float64
}

// WithPenalty overrides the constraint penalty weight
func WithPenalty(p float64) Option {
	return func(o *options) {
		o.penalty = p
	}
}

func applyOptions(defaultPenalty float64, opts []Option) options {
	o := options{penalty: defaultPenalty}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
