package exercise

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed kinds.yaml
var builtinKinds []byte

// Registry holds validated exercise kinds in declaration order.
type Registry struct {
	kinds []Kind
	byID  map[string]Kind
}

// ParseRegistry decodes and validates a YAML list of kinds.
func ParseRegistry(data []byte) (*Registry, error) {
	var kinds []Kind
	if err := yaml.Unmarshal(data, &kinds); err != nil {
		return nil, fmt.Errorf("decode kinds: %w", err)
	}
	return NewRegistry(kinds)
}

// NewRegistry validates kinds and indexes them by ID.
func NewRegistry(kinds []Kind) (*Registry, error) {
	r := &Registry{byID: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		if k.HasStage(StageCountdown) && k.CountdownSeconds == 0 {
			k.CountdownSeconds = DefaultCountdownSeconds
		}
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[k.ID]; dup {
			return nil, fmt.Errorf("kind %s: duplicate id", k.ID)
		}
		r.byID[k.ID] = k
		r.kinds = append(r.kinds, k)
	}
	return r, nil
}

var builtin = sync.OnceValues(func() (*Registry, error) {
	return ParseRegistry(builtinKinds)
})

// Builtin returns the registry of kinds compiled into the binary.
func Builtin() (*Registry, error) {
	return builtin()
}

// Get returns the kind with the given ID.
func (r *Registry) Get(id string) (Kind, bool) {
	k, ok := r.byID[id]
	return k, ok
}

// All returns every kind in declaration order.
func (r *Registry) All() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// BySection returns the kinds of one section in declaration order.
func (r *Registry) BySection(s Section) []Kind {
	var out []Kind
	for _, k := range r.kinds {
		if k.Section == s {
			out = append(out, k)
		}
	}
	return out
}

// Sections returns the sections present, sorted.
func (r *Registry) Sections() []Section {
	seen := make(map[Section]bool)
	var out []Section
	for _, k := range r.kinds {
		if !seen[k.Section] {
			seen[k.Section] = true
			out = append(out, k.Section)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
