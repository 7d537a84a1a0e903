package scene

import "go.uber.org/zap"

// StatePusherOption is a functional option for configuring a statePusher.
type StatePusherOption func(*statePusher)

// WithStateLogger sets the logger lookup misses are reported to.
//
// Parameters:
//   - l: the logger (nil keeps the no-op default)
//
// Returns:
//   - StatePusherOption: option function to apply
func WithStateLogger(l *zap.Logger) StatePusherOption {
	return func(p *statePusher) {
		if l != nil {
			p.logger = l
		}
	}
}
