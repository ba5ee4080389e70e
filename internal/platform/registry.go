// Package platform holds the marketplace profiles the matcher ranks.
package platform

import (
	"sort"
	"strings"

	"vyaparsetu-service/internal/domain"
)

// Registry is a read-only set of platform profiles ordered by name.
type Registry struct {
	profiles []domain.PlatformProfile
	regions  map[string][]string // region tag -> alias words
}

// NewRegistry builds a registry. Region aliases extend a service region tag with
// alternative spellings (e.g. "uttar pradesh" -> "up", "varanasi").
func NewRegistry(profiles []domain.PlatformProfile, regionAliases map[string][]string) *Registry {
	ps := make([]domain.PlatformProfile, len(profiles))
	copy(ps, profiles)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	if regionAliases == nil {
		regionAliases = map[string][]string{}
	}
	return &Registry{profiles: ps, regions: regionAliases}
}

// Default returns the built-in registry.
func Default() *Registry {
	return NewRegistry(defaultProfiles, defaultRegionAliases)
}

// Profiles returns all profiles ordered by name.
func (r *Registry) Profiles() []domain.PlatformProfile {
	return r.profiles
}

// ByName finds a profile, case-insensitively.
func (r *Registry) ByName(name string) (domain.PlatformProfile, bool) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.PlatformProfile{}, false
}

// RegionTerms returns the tag itself plus its aliases.
func (r *Registry) RegionTerms(region string) []string {
	return append([]string{region}, r.regions[strings.ToLower(region)]...)
}
