// Package source holds the static registry of source descriptors the
// scheduler crawls.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownSource = errors.New("unknown source")

type Tier int

const (
	TierBreaking   Tier = 1
	TierSpecialist Tier = 2
	TierDeepDive   Tier = 3
)

func (t Tier) Valid() bool {
	return t >= TierBreaking && t <= TierDeepDive
}

// Entrypoint is one index page of a source with an optional category hint.
type Entrypoint struct {
	URL          string `yaml:"url" json:"url"`
	CategoryHint string `yaml:"category" json:"category,omitempty"`
}

// Descriptor identifies a content origin. Family selects the link discovery
// implementation; empty means the generic heuristic.
type Descriptor struct {
	Name        string       `yaml:"name" json:"name"`
	Entrypoints []Entrypoint `yaml:"entrypoints" json:"entrypoints"`
	Tier        Tier         `yaml:"tier" json:"tier"`
	Region      string       `yaml:"region" json:"region"`
	Family      string       `yaml:"family" json:"family,omitempty"`
}

func (d Descriptor) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("source name is empty")
	}
	if !d.Tier.Valid() {
		return fmt.Errorf("source %q: tier %d out of range", d.Name, d.Tier)
	}
	if len(d.Entrypoints) == 0 {
		return fmt.Errorf("source %q: no entrypoints", d.Name)
	}
	for _, e := range d.Entrypoints {
		u, err := url.Parse(e.URL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("source %q: invalid entrypoint %q", d.Name, e.URL)
		}
	}
	return nil
}

// Registry is an immutable, ordered set of descriptors.
type Registry struct {
	list   []Descriptor
	byName map[string]int
}

// NewRegistry validates descriptors and rejects duplicate names.
func NewRegistry(descs []Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(descs))}
	for _, d := range descs {
		if d.Region == "" {
			d.Region = "Global"
		}
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate source %q", d.Name)
		}
		r.byName[d.Name] = len(r.list)
		r.list = append(r.list, d)
	}
	return r, nil
}

// All returns a copy of every descriptor in load order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.list))
	copy(out, r.list)
	return out
}

// ByTier returns the descriptors scheduled on the given tier.
func (r *Registry) ByTier(t Tier) []Descriptor {
	var out []Descriptor
	for _, d := range r.list {
		if d.Tier == t {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) Lookup(name string) (Descriptor, error) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return r.list[i], nil
}

type fileFormat struct {
	Sources []Descriptor `yaml:"sources"`
}

// LoadFile reads a YAML registry of the form `sources: [...]`.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	return NewRegistry(f.Sources)
}

// Load returns the file registry when path is set, otherwise the built-in one.
func Load(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(Defaults())
	}
	return LoadFile(path)
}
