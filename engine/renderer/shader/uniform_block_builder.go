package shader

import "go.uber.org/zap"

// UniformBlockBuilderOption is a functional option for configuring a uniformBlock.
type UniformBlockBuilderOption func(*uniformBlock)

// WithLogger sets the logger that reports dropped writes.
//
// Parameters:
//   - l: the logger (nil keeps the no-op default)
//
// Returns:
//   - UniformBlockBuilderOption: option function to apply
func WithLogger(l *zap.Logger) UniformBlockBuilderOption {
	return func(b *uniformBlock) {
		if l != nil {
			b.logger = l
		}
	}
}
