package material

// RegistryBuilderOption is a functional option for configuring a registry.
type RegistryBuilderOption func(*registry)

// WithLookupPolicy sets how Find resolves duplicate tags.
//
// Parameters:
//   - p: the lookup policy
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithLookupPolicy(p LookupPolicy) RegistryBuilderOption {
	return func(r *registry) {
		r.policy = p
	}
}
