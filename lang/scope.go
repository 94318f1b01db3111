package lang

// Scope is a variables mapping chained to an optional parent scope.
//
// Lookups walk the chain parent-ward on a miss. Definitions always land in
// the innermost scope, so a child never rebinds a name in its ancestors.
type Scope struct {
	vars   map[string]any
	parent *Scope
}

// NewScope returns a root scope backed by vars. Writes are visible to the
// holder of vars. A nil vars is replaced with a new empty mapping.
func NewScope(vars map[string]any) *Scope {
	if vars == nil {
		vars = map[string]any{}
	}

	return &Scope{vars: vars}
}

// Child returns a new empty scope chained to s.
func (s *Scope) Child() *Scope {
	return &Scope{vars: map[string]any{}, parent: s}
}

// Parent returns the scope s is chained to, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Map returns the mapping owned by s (not including its ancestors).
func (s *Scope) Map() map[string]any { return s.vars }

// Lookup returns the value bound to name in s or its nearest ancestor.
func (s *Scope) Lookup(name string) (any, bool) {
	if owner := s.Owner(name); owner != nil {
		return owner.vars[name], true
	}

	return nil, false
}

// Owner returns the nearest scope, starting at s, that binds name.
func (s *Scope) Owner(name string) *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			return sc
		}
	}

	return nil
}

// Define binds name to v in s.
func (s *Scope) Define(name string, v any) {
	s.vars[name] = v
}

// Names returns the sorted names visible from s.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.vars {
			seen[name] = struct{}{}
		}
	}

	return sortedKeys(seen)
}
