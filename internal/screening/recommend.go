package screening

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"screening-service/internal/domain"
)

// RankKey orders candidates ascending. Equal keys keep directory order.
type RankKey func(domain.TherapistResource) float64

type rankedResource struct {
	key      float64
	resource domain.TherapistResource
}

// Matcher selects therapist resources for noteworthy interpretations.
type Matcher struct {
	minTier domain.Tier
}

// NewMatcher builds a matcher escalating tiers at or above minTier. Tiers below Moderate are rejected.
func NewMatcher(minTier domain.Tier) (*Matcher, error) {
	if minTier < domain.TierModerate || minTier > domain.TierHigh {
		return nil, fmt.Errorf("%w: got %s", domain.ErrInvalidNoteworthyTier, minTier)
	}
	return &Matcher{minTier: minTier}, nil
}

// DefaultMatcher escalates Moderate and High.
func DefaultMatcher() *Matcher {
	return &Matcher{minTier: domain.TierModerate}
}

func (m *Matcher) MinTier() domain.Tier {
	return m.minTier
}

// Noteworthy returns the conditions whose tier triggers recommendations, in input order.
func (m *Matcher) Noteworthy(interpretations []domain.Interpretation) []domain.Condition {
	var out []domain.Condition
	seen := make(map[domain.Condition]struct{})
	for _, in := range interpretations {
		if in.Tier < m.minTier {
			continue
		}
		if _, ok := seen[in.Condition]; ok {
			continue
		}
		seen[in.Condition] = struct{}{}
		out = append(out, in.Condition)
	}
	return out
}

// Recommend filters the directory to resources specialising in a noteworthy condition and,
// when region is non-blank, located in a matching region. The result keeps directory order
// unless rank is given, and holds at most limit entries (limit <= 0 means no limit).
func (m *Matcher) Recommend(interpretations []domain.Interpretation, region string, directory []domain.TherapistResource, limit int, rank RankKey) []domain.TherapistResource {
	noteworthy := m.Noteworthy(interpretations)
	if len(noteworthy) == 0 {
		return []domain.TherapistResource{}
	}
	want := make(map[domain.Condition]struct{}, len(noteworthy))
	for _, c := range noteworthy {
		want[c] = struct{}{}
	}

	out := make([]domain.TherapistResource, 0)
	for _, t := range directory {
		if !t.Specializes(want) {
			continue
		}
		if !RegionMatches(t.Region, region) {
			continue
		}
		out = append(out, t)
	}

	if rank != nil {
		ranked := make([]rankedResource, len(out))
		for i, t := range out {
			ranked[i] = rankedResource{key: rank(t), resource: t}
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].key < ranked[j].key })
		for i := range ranked {
			out[i] = ranked[i].resource
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RegionMatches reports whether candidate contains the wanted region, ignoring case.
// A blank wanted region matches everything.
func RegionMatches(candidate, wanted string) bool {
	wanted = strings.TrimSpace(wanted)
	if wanted == "" {
		return true
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(wanted))
}

const earthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two points.
func DistanceKm(a, b domain.Coordinates) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ByDistance ranks resources by distance from origin; resources without coordinates sort last.
func ByDistance(origin domain.Coordinates) RankKey {
	return func(t domain.TherapistResource) float64 {
		if t.Coordinates == nil {
			return math.Inf(1)
		}
		return DistanceKm(origin, *t.Coordinates)
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
