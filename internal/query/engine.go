// Package query filters a validated catalog by group prefix and great-circle
// distance from a reference point.
package query

import (
	"fmt"
	"strings"

	"github.com/brandenburg-angeln/spot-cli/internal/geo"
	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// DefaultMaxDistanceKm applies when a reference point is given without an
// explicit radius.
const DefaultMaxDistanceKm = 50

// Point is a caller-supplied reference coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OutOfRegionError reports a reference point outside the supported bounding
// box. Unlike malformed catalog data, bad caller input is surfaced, not
// silently filtered.
type OutOfRegionError struct {
	Point Point
}

func (e *OutOfRegionError) Error() string {
	return fmt.Sprintf("query: reference point (%.4f, %.4f) is outside the supported region [%g..%g]x[%g..%g]",
		e.Point.Lat, e.Point.Lng, geo.MinLat, geo.MaxLat, geo.MinLng, geo.MaxLng)
}

// Params describes one catalog query.
type Params struct {
	// Prefixes selects group membership (logical OR). An empty selection
	// returns an empty result; "all groups" must be enumerated explicitly.
	Prefixes []string

	// Reference enables distance annotation and the radius cut.
	Reference *Point

	// MaxDistanceKm bounds the distance filter. Zero means
	// DefaultMaxDistanceKm when Reference is set. The boundary is
	// inclusive: a spot at exactly MaxDistanceKm is kept.
	MaxDistanceKm float64
}

// Run applies the prefix filter, then the distance filter, against a catalog
// snapshot. Result order follows catalog order. The only error condition is a
// reference point outside the supported region.
func Run(catalog []model.Spot, p Params) ([]model.SpotResult, error) {
	if p.Reference != nil && !geo.InSupportedRegion(p.Reference.Lat, p.Reference.Lng) {
		return nil, &OutOfRegionError{Point: *p.Reference}
	}

	// No group selected means show nothing, not everything. The UI default
	// is an empty map until the user picks a group.
	if len(p.Prefixes) == 0 {
		return []model.SpotResult{}, nil
	}

	maxKm := p.MaxDistanceKm
	if maxKm == 0 {
		maxKm = DefaultMaxDistanceKm
	}

	results := make([]model.SpotResult, 0, len(catalog))
	for _, spot := range catalog {
		if !matchesPrefix(spot.ID, p.Prefixes) {
			continue
		}

		res := model.SpotResult{Spot: spot}
		if p.Reference != nil {
			d := geo.DistanceKm(p.Reference.Lat, p.Reference.Lng, spot.Latitude, spot.Longitude)
			if d > maxKm {
				continue
			}
			res.DistanceKm = &d
		}
		results = append(results, res)
	}

	return results, nil
}

func matchesPrefix(id string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}
