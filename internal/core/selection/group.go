// Package selection models single-select sibling state: tabs, chips and
// accordion panels where at most one member is active.
package selection

import (
	"fmt"
	"slices"
	"sync"
)

// Group holds a fixed set of sibling ids with at most one active.
// It is safe for concurrent use.
type Group struct {
	mu     sync.RWMutex
	ids    []string
	active string
}

// NewGroup creates a group over ids with nothing active.
func NewGroup(ids ...string) *Group {
	return &Group{ids: slices.Clone(ids)}
}

// NewGroupWithActive creates a group and activates id.
func NewGroupWithActive(active string, ids ...string) (*Group, error) {
	g := NewGroup(ids...)
	if err := g.Select(active); err != nil {
		return nil, err
	}
	return g, nil
}

// Select makes id the only active member.
func (g *Group) Select(id string) error {
	if !g.Has(id) {
		return unknown(id)
	}
	g.mu.Lock()
	g.active = id
	g.mu.Unlock()
	return nil
}

// Toggle opens id, or closes it when it is already the active member.
// It reports whether id is active afterwards.
func (g *Group) Toggle(id string) (bool, error) {
	if !g.Has(id) {
		return false, unknown(id)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == id {
		g.active = ""
		return false, nil
	}
	g.active = id
	return true, nil
}

// Clear deactivates every member.
func (g *Group) Clear() {
	g.mu.Lock()
	g.active = ""
	g.mu.Unlock()
}

// Active returns the active id, or "" when none is.
func (g *Group) Active() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// IsActive reports whether id is the active member.
func (g *Group) IsActive(id string) bool {
	return id != "" && g.Active() == id
}

// Has reports whether id belongs to the group.
func (g *Group) Has(id string) bool {
	return slices.Contains(g.ids, id)
}

// IDs returns the members in their declared order.
func (g *Group) IDs() []string {
	return slices.Clone(g.ids)
}

func unknown(id string) error {
	return fmt.Errorf("selection: unknown member %q", id)
}
