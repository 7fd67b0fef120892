package core

// Dependent is an entity that may depend on siblings in its own collection.
type Dependent interface {
	EntityID() string
	IsCompleted() bool
	Dependencies() []string
}

// IsBlocked reports whether e has at least one dependency that resolves to
// an incomplete sibling. Dependency IDs that match no sibling are treated as
// satisfied so deleting a dependency never locks its dependents.
func IsBlocked[T Dependent](e T, siblings []T) bool {
	deps := e.Dependencies()
	if len(deps) == 0 {
		return false
	}
	byID := make(map[string]bool, len(siblings))
	for _, s := range siblings {
		byID[s.EntityID()] = s.IsCompleted()
	}
	for _, id := range deps {
		if completed, ok := byID[id]; ok && !completed {
			return true
		}
	}
	return false
}

// BlockedBy returns the IDs of the incomplete siblings blocking e, in the
// order they appear in e's dependency list.
func BlockedBy[T Dependent](e T, siblings []T) []string {
	byID := make(map[string]bool, len(siblings))
	for _, s := range siblings {
		byID[s.EntityID()] = s.IsCompleted()
	}
	var out []string
	for _, id := range e.Dependencies() {
		if completed, ok := byID[id]; ok && !completed {
			out = append(out, id)
		}
	}
	return out
}

// WouldCycle reports whether giving the entity id the dependency list deps
// would close a cycle among siblings. A self-dependency is a cycle.
func WouldCycle[T Dependent](id string, deps []string, siblings []T) bool {
	edges := make(map[string][]string, len(siblings)+1)
	for _, s := range siblings {
		edges[s.EntityID()] = s.Dependencies()
	}
	edges[id] = deps

	// Walk everything reachable from id's new dependencies; reaching id
	// again means the new edges close a loop.
	seen := make(map[string]bool)
	stack := append([]string(nil), deps...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == id {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, edges[n]...)
	}
	return false
}
