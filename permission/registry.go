// Package permission keeps an authorization registry in step with the
// catalog tree.
package permission

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the external authorization system category permissions are
// published to.
type Registry interface {
	// Register adds a permission. Registering an existing id is a no-op.
	Register(id, description string) error
	// Deregister removes a permission and detaches it from every parent
	Deregister(id string) error
	Exists(id string) bool
	// AttachChild makes holding parentID imply holding childID
	AttachChild(parentID, childID string) error
}

// Actor is anything whose permissions gate hidden categories
type Actor interface {
	HasPermission(id string) bool
}

// ActorFunc adapts a function to the Actor interface
type ActorFunc func(id string) bool

// HasPermission implements Actor
func (f ActorFunc) HasPermission(id string) bool {
	return f(id)
}

// Grants is an Actor holding exactly the listed permissions
type Grants map[string]bool

// NewGrants builds a Grants set
func NewGrants(ids ...string) Grants {
	g := make(Grants, len(ids))
	for _, id := range ids {
		g[id] = true
	}
	return g
}

// HasPermission implements Actor
func (g Grants) HasPermission(id string) bool {
	return g[id]
}

type node struct {
	description string
	children    map[string]bool
}

// MemoryRegistry is an in-process Registry
type MemoryRegistry struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{nodes: make(map[string]*node)}
}

// Register implements Registry
func (r *MemoryRegistry) Register(id, description string) error {
	if id == "" {
		return fmt.Errorf("permission id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[id]; exists {
		return nil
	}
	r.nodes[id] = &node{description: description, children: make(map[string]bool)}
	return nil
}

// Deregister implements Registry
func (r *MemoryRegistry) Deregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.nodes, id)
	for _, n := range r.nodes {
		delete(n.children, id)
	}
	return nil
}

// Exists implements Registry
func (r *MemoryRegistry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.nodes[id]
	return exists
}

// AttachChild implements Registry
func (r *MemoryRegistry) AttachChild(parentID, childID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, exists := r.nodes[parentID]
	if !exists {
		return fmt.Errorf("permission %q is not registered", parentID)
	}
	parent.children[childID] = true
	return nil
}

// Description returns the description a permission was registered with
func (r *MemoryRegistry) Description(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, exists := r.nodes[id]
	if !exists {
		return "", false
	}
	return n.description, true
}

// Children returns the direct children of a permission, sorted
func (r *MemoryRegistry) Children(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, exists := r.nodes[id]
	if !exists {
		return nil
	}
	children := make([]string, 0, len(n.children))
	for child := range n.children {
		children = append(children, child)
	}
	sort.Strings(children)
	return children
}

// IDs returns every registered permission, sorted
func (r *MemoryRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Actor returns an actor holding grants plus every permission reachable
// from them through attached children, resolved at call time.
func (r *MemoryRegistry) Actor(grants ...string) Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	held := NewGrants()
	queue := append([]string(nil), grants...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if held[id] {
			continue
		}
		held[id] = true
		if n, exists := r.nodes[id]; exists {
			for child := range n.children {
				queue = append(queue, child)
			}
		}
	}
	return held
}
