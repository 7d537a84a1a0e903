package material

import (
	"errors"
	"fmt"
)

var (
	// ErrMaterialNotFound reports a lookup miss.
	ErrMaterialNotFound = errors.New("material not found")

	// ErrInvalidMaterial reports a material whose coefficients are out of range.
	ErrInvalidMaterial = errors.New("invalid material")
)

// LookupPolicy decides which entry Find returns when several share a tag.
type LookupPolicy int

const (
	// FirstMatchWins returns the earliest defined entry for a tag. Later duplicates are shadowed.
	FirstMatchWins LookupPolicy = iota

	// LastMatchWins returns the most recently defined entry for a tag.
	LastMatchWins
)

// registry is the implementation of the Registry interface.
type registry struct {
	entries []Material
	policy  LookupPolicy
}

// Registry is an ordered list of materials looked up by tag.
// Duplicate tags are accepted. Which duplicate Find returns is decided by the LookupPolicy.
type Registry interface {
	// Define appends a material after validating its coefficients.
	//
	// Parameters:
	//   - m: the material to append
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidMaterial if ambient strength is outside [0, 1] or shininess is not positive
	Define(m Material) error

	// Find looks a material up by tag.
	//
	// Parameters:
	//   - tag: the material tag
	//
	// Returns:
	//   - Material: the matching material, nil on a miss
	//   - bool: false if no material has the tag
	Find(tag string) (Material, bool)

	// Len returns the number of defined materials, duplicates included.
	//
	// Returns:
	//   - int: the entry count
	Len() int

	// Policy returns the registry's duplicate lookup policy.
	//
	// Returns:
	//   - LookupPolicy: the policy
	Policy() LookupPolicy
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry using FirstMatchWins unless overridden.
//
// Parameters:
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the new registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{policy: FirstMatchWins}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Define(m Material) error {
	if m == nil {
		return fmt.Errorf("%w: nil material", ErrInvalidMaterial)
	}
	if s := m.AmbientStrength(); s < 0 || s > 1 {
		return fmt.Errorf("%w: %s ambient strength %v outside [0, 1]", ErrInvalidMaterial, m.Tag(), s)
	}
	if m.Shininess() <= 0 {
		return fmt.Errorf("%w: %s shininess %v must be positive", ErrInvalidMaterial, m.Tag(), m.Shininess())
	}
	r.entries = append(r.entries, m)
	return nil
}

func (r *registry) Find(tag string) (Material, bool) {
	if r.policy == LastMatchWins {
		for i := len(r.entries) - 1; i >= 0; i-- {
			if r.entries[i].Tag() == tag {
				return r.entries[i], true
			}
		}
		return nil, false
	}
	for _, m := range r.entries {
		if m.Tag() == tag {
			return m, true
		}
	}
	return nil, false
}

func (r *registry) Len() int {
	return len(r.entries)
}

func (r *registry) Policy() LookupPolicy {
	return r.policy
}
