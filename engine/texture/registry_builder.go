package texture

import "go.uber.org/zap"

// RegistryBuilderOption is a functional option for configuring a registry.
type RegistryBuilderOption func(*registry)

// WithDecoder replaces the FileDecoder.
//
// Parameters:
//   - d: the decoder
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDecoder(d Decoder) RegistryBuilderOption {
	return func(r *registry) {
		if d != nil {
			r.decoder = d
		}
	}
}

// WithCapacity sets the number of texture slots. Non-positive values keep DefaultCapacity.
//
// Parameters:
//   - n: the slot count
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithCapacity(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) RegistryBuilderOption {
	return func(r *registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDecodeWorkers sets how many images RegisterAll decodes concurrently.
//
// Parameters:
//   - n: the worker count, 1 or less decodes sequentially
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDecodeWorkers(n int) RegistryBuilderOption {
	return func(r *registry) {
		r.decodeWorkers = n
	}
}

// WithProgress sets a callback RegisterAll invokes after each source is handled.
func WithProgress(fn func(done, total int)) RegistryBuilderOption {
	return func(r *registry) {
		r.progress = fn
	}
}
