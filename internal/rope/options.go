package rope

import "github.com/dshills/ropetree/internal/logging"

// settings are shared by a rope and every rope derived from it.
type settings struct {
	policy Policy
	log    *logging.Logger
}

var defaultSettings = &settings{
	policy: DefaultPolicy(),
	log:    logging.Nop(),
}

// Option configures a rope during creation.
type Option func(*settings)

// WithPolicy sets the tree shape policy. Unusable fields fall back to
// their defaults.
func WithPolicy(p Policy) Option {
	return func(s *settings) {
		s.policy = p.sanitize()
	}
}

// WithLogger sets the logger that receives rebuild diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l.WithComponent("rope")
		}
	}
}

func newSettings(opts []Option) *settings {
	if len(opts) == 0 {
		return defaultSettings
	}
	s := *defaultSettings
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}
