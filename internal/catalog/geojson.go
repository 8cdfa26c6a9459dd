package catalog

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// ToGeoJSON encodes query results as a GeoJSON FeatureCollection. This is the
// wire format handed to the map renderer; clustering and popups are its job.
func ToGeoJSON(results []model.SpotResult) ([]byte, error) {
	features := make([]*geojson.Feature, 0, len(results))

	for _, r := range results {
		props := map[string]any{
			"id":   r.ID,
			"name": r.Name,
			"club": r.Club,
		}
		if r.DistanceKm != nil {
			props["distance_km"] = *r.DistanceKm
		}

		features = append(features, &geojson.Feature{
			ID:         r.ID,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{r.Longitude, r.Latitude}),
			Properties: props,
		})
	}

	fc := &geojson.FeatureCollection{Features: features}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: encode geojson")
	}
	return data, nil
}
