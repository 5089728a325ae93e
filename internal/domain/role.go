package domain

import "sort"

// RoleTag identifies the actor namespace an account or token belongs to.
type RoleTag string

const (
	RoleAdmin       RoleTag = "admin"
	RoleModerator   RoleTag = "moderator"
	RoleRegularUser RoleTag = "regularUser"
)

// RoleSpec describes one registry entry: the storage namespace the role
// reads from and the operation scopes it authorizes.
type RoleSpec struct {
	Namespace string
	Scopes    []string
}

// Registry is the closed role table for one deployment. Token issuance and
// verification are parameterized over it; adding a role is a registry entry,
// not a code change.
type Registry struct {
	roles map[RoleTag]RoleSpec
}

// NewRegistry builds a registry from a fixed role table.
func NewRegistry(roles map[RoleTag]RoleSpec) *Registry {
	copied := make(map[RoleTag]RoleSpec, len(roles))
	for tag, spec := range roles {
		copied[tag] = spec
	}
	return &Registry{roles: copied}
}

// DefaultRegistry returns the role table this deployment ships with.
func DefaultRegistry() *Registry {
	return NewRegistry(map[RoleTag]RoleSpec{
		RoleAdmin: {
			Namespace: "admin",
			Scopes:    []string{"accounts:manage", "accounts:read", "self:read"},
		},
		RoleModerator: {
			Namespace: "moderator",
			Scopes:    []string{"accounts:read", "self:read"},
		},
		RoleRegularUser: {
			Namespace: "regularUser",
			Scopes:    []string{"self:read"},
		},
	})
}

// Known reports whether the tag is part of the closed table.
func (r *Registry) Known(tag RoleTag) bool {
	_, ok := r.roles[tag]
	return ok
}

// Namespace returns the account namespace the role reads from.
func (r *Registry) Namespace(tag RoleTag) (string, bool) {
	spec, ok := r.roles[tag]
	return spec.Namespace, ok
}

// Authorizes reports whether the role grants the given operation scope.
func (r *Registry) Authorizes(tag RoleTag, scope string) bool {
	spec, ok := r.roles[tag]
	if !ok {
		return false
	}
	for _, s := range spec.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Tags returns the registered role tags in stable order.
func (r *Registry) Tags() []RoleTag {
	tags := make([]RoleTag, 0, len(r.roles))
	for tag := range r.roles {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
