package snapshot

// Option configures Serialize.
type Option func(*options)

type options struct {
	keys   bool
	indent string
}

// WithKeys includes node keys in the output.
func WithKeys() Option {
	return func(o *options) { o.keys = true }
}

// WithIndent pretty-prints the output using indent per level.
func WithIndent(indent string) Option {
	return func(o *options) { o.indent = indent }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
