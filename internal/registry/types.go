package registry

import (
	"errors"
	"fmt"
	"sort"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

// ErrEmbeddingCycle is returned when struct embedding loops back on itself.
var ErrEmbeddingCycle = errors.New("embedding cycle")

// TypeIndex is the explicit supertype graph of every struct type loaded so
// far. Leafness is answered from the current contents, so a type stops being
// a leaf as soon as a later load declares a type embedding it.
type TypeIndex struct {
	decls    map[m.TypeKey]m.TypeDecl
	children map[m.TypeKey]map[m.TypeKey]struct{}
}

// NewTypeIndex returns an empty index.
func NewTypeIndex() *TypeIndex {
	return &TypeIndex{
		decls:    make(map[m.TypeKey]m.TypeDecl),
		children: make(map[m.TypeKey]map[m.TypeKey]struct{}),
	}
}

// Add records decl and its edges to the embedded types. Adding a key again
// replaces the earlier declaration together with its edges.
func (ti *TypeIndex) Add(decl m.TypeDecl) {
	key := decl.Key()

	if old, ok := ti.decls[key]; ok {
		for _, parent := range old.Embeds {
			delete(ti.children[parent], key)
		}
	}

	ti.decls[key] = decl

	for _, parent := range decl.Embeds {
		subs, ok := ti.children[parent]
		if !ok {
			subs = make(map[m.TypeKey]struct{})
			ti.children[parent] = subs
		}

		subs[key] = struct{}{}
	}
}

// Lookup returns the declaration stored under key.
func (ti *TypeIndex) Lookup(key m.TypeKey) (m.TypeDecl, bool) {
	decl, ok := ti.decls[key]
	return decl, ok
}

// Len returns the number of known types.
func (ti *TypeIndex) Len() int {
	return len(ti.decls)
}

// IsLeaf reports whether no known type embeds key.
func (ti *TypeIndex) IsLeaf(key m.TypeKey) bool {
	return len(ti.children[key]) == 0
}

// Specializations lists the known direct specializations of key, sorted.
func (ti *TypeIndex) Specializations(key m.TypeKey) []m.TypeKey {
	subs := make([]m.TypeKey, 0, len(ti.children[key]))
	for sub := range ti.children[key] {
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })

	return subs
}

// Satisfies reports whether key embeds root, directly or transitively.
// Unknown embedded types end the search along that edge.
func (ti *TypeIndex) Satisfies(key, root m.TypeKey) (bool, error) {
	return ti.satisfies(key, root, make(map[m.TypeKey]bool))
}

func (ti *TypeIndex) satisfies(key, root m.TypeKey, onPath map[m.TypeKey]bool) (bool, error) {
	if key == root {
		return true, nil
	}

	if onPath[key] {
		return false, fmt.Errorf("%w: %s", ErrEmbeddingCycle, key)
	}

	decl, ok := ti.decls[key]
	if !ok {
		return false, nil
	}

	onPath[key] = true
	defer delete(onPath, key)

	for _, parent := range decl.Embeds {
		ok, err := ti.satisfies(parent, root, onPath)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}
