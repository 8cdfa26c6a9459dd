// Package region maps group prefixes to regional club names.
package region

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Region is one regional club group. Spot ids carry the group prefix.
type Region struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Name   string `yaml:"name" json:"name"`
}

// Registry holds the known region groups.
type Registry struct {
	regions []Region
	byName  map[string]string
}

// Default returns the built-in LAVB region groups.
func Default() *Registry {
	return New([]Region{
		{Prefix: "P", Name: "Potsdam"},
		{Prefix: "C", Name: "Cottbus"},
		{Prefix: "F", Name: "Frankfurt-Oder"},
	})
}

// New builds a registry from an explicit region list.
func New(regions []Region) *Registry {
	byName := make(map[string]string, len(regions))
	for _, r := range regions {
		byName[r.Name] = r.Prefix
	}
	return &Registry{regions: regions, byName: byName}
}

// LoadFile reads a region registry from a YAML file of the form:
//
//	regions:
//	  - prefix: P
//	    name: Potsdam
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read %s", path)
	}

	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "region: parse %s", path)
	}
	if len(doc.Regions) == 0 {
		return nil, eris.Errorf("region: %s defines no regions", path)
	}
	for _, r := range doc.Regions {
		if r.Prefix == "" || r.Name == "" {
			return nil, eris.Errorf("region: %s has an entry without prefix or name", path)
		}
	}

	return New(doc.Regions), nil
}

// Regions returns the region list in registry order.
func (r *Registry) Regions() []Region {
	out := make([]Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// AllPrefixes enumerates every known group prefix, sorted. This is the
// explicit "all groups" selection; an empty query selection means none.
func (r *Registry) AllPrefixes() []string {
	prefixes := make([]string, 0, len(r.regions))
	for _, reg := range r.regions {
		prefixes = append(prefixes, reg.Prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}

// PrefixFor resolves a region display name to its prefix.
func (r *Registry) PrefixFor(name string) (string, bool) {
	p, ok := r.byName[name]
	return p, ok
}
