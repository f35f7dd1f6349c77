// Package search implements the in-memory listing and profile filters used by
// the browse page and the admin tables. Filters never reorder their input.
package search

import (
	"math"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
)

// All disables a categorical predicate.
const All = "all"

// NoPriceLimit is the unbounded MaxPrice.
const NoPriceLimit = math.MaxInt

// DefaultMaxPrice is the price ceiling the browse page starts with.
const DefaultMaxPrice = 150000

// Spec is a conjunctive listing filter. The zero value matches every listing:
// empty County/PropertyType mean All and a non-positive MaxPrice means
// NoPriceLimit.
type Spec struct {
	Text         string
	County       string
	PropertyType string
	MaxPrice     int

	also []Spec
}

// MatchAll returns the identity filter.
func MatchAll() Spec {
	return Spec{County: All, PropertyType: All, MaxPrice: NoPriceLimit}
}

// And returns a spec matching listings accepted by both s and other.
func (s Spec) And(other Spec) Spec {
	also := make([]Spec, 0, len(s.also)+1)
	also = append(also, s.also...)
	s.also = append(also, other)
	return s
}

// Match reports whether l satisfies every predicate of s.
func (s Spec) Match(l *models.Listing) bool {
	if !s.matchText(l) {
		return false
	}
	if county := s.County; county != "" && county != All && l.County != county {
		return false
	}
	if typ := s.PropertyType; typ != "" && typ != All && l.Type != typ {
		return false
	}
	if s.MaxPrice > 0 && l.Price > s.MaxPrice {
		return false
	}
	for i := range s.also {
		if !s.also[i].Match(l) {
			return false
		}
	}
	return true
}

func (s Spec) matchText(l *models.Listing) bool {
	if s.Text == "" {
		return true
	}
	return containsFold(l.Title, s.Text) || containsFold(l.Location, s.Text)
}

// Filter returns the listings matching spec, in input order. The input slice
// is not modified.
func Filter(listings []models.Listing, spec Spec) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if spec.Match(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out
}

// StatusSpec filters the admin listing table.
type StatusSpec struct {
	Text   string
	Status string
}

// FilterByStatus keeps listings whose title or location contains Text and
// whose status equals Status (or any status for All / empty).
func FilterByStatus(listings []models.Listing, spec StatusSpec) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if spec.Text != "" && !containsFold(l.Title, spec.Text) && !containsFold(l.Location, spec.Text) {
			continue
		}
		if spec.Status != "" && spec.Status != All && string(l.Status) != spec.Status {
			continue
		}
		out = append(out, *l)
	}
	return out
}

// FilterProfiles matches a case-insensitive name substring or a phone substring.
func FilterProfiles(profiles []models.Profile, query string) []models.Profile {
	if query == "" {
		return append([]models.Profile(nil), profiles...)
	}
	out := make([]models.Profile, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if containsFold(p.DisplayName(), query) || (p.Phone != nil && strings.Contains(*p.Phone, query)) {
			out = append(out, *p)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
