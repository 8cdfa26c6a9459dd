// Package catalog turns raw harvested records into validated Spot entities
// and loads catalog snapshots from disk.
package catalog

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/geo"
	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// Normalize filters and coerces raw records into Spots. Records that fail any
// check are dropped, never reported: malformed upstream data is expected and
// is not an error condition. Survivors keep their input order.
func Normalize(raw []model.RawRecord) []model.Spot {
	spots := make([]model.Spot, 0, len(raw))
	dropped := 0

	for _, rec := range raw {
		spot, ok := normalizeOne(rec)
		if !ok {
			dropped++
			continue
		}
		spots = append(spots, spot)
	}

	if dropped > 0 {
		zap.L().Debug("normalized catalog",
			zap.Int("kept", len(spots)),
			zap.Int("dropped", dropped),
		)
	}

	return spots
}

func normalizeOne(rec model.RawRecord) (model.Spot, bool) {
	id := stringField(rec, "id")
	name := stringField(rec, "bezeichnung")
	if id == "" || name == "" {
		return model.Spot{}, false
	}

	lat, ok := coordField(rec, "lat")
	if !ok {
		return model.Spot{}, false
	}
	lng, ok := coordField(rec, "lng")
	if !ok {
		return model.Spot{}, false
	}

	if !geo.InSupportedRegion(lat, lng) {
		return model.Spot{}, false
	}

	club := stringField(rec, "verein")
	if club == "" {
		club = model.ClubUnknown
	}

	return model.Spot{
		ID:        id,
		Name:      name,
		Club:      club,
		Latitude:  lat,
		Longitude: lng,
	}, true
}

// stringField returns the trimmed string form of a scalar field, or "" when
// the field is missing, null, or empty.
func stringField(rec model.RawRecord, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// coordField coerces a latitude/longitude field to a float. A missing field,
// a literal zero (the upstream "unset" sentinel, checked before parsing), or
// an unparseable string all reject the record.
func coordField(rec model.RawRecord, key string) (float64, bool) {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0, false
	}

	switch c := v.(type) {
	case float64:
		if c == 0 {
			return 0, false
		}
		return c, true
	case string:
		s := strings.TrimSpace(c)
		if s == "" || s == "0" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// LoadRaw reads a harvest snapshot, a JSON array of raw records.
func LoadRaw(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read snapshot %s", path)
	}

	var raw []model.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "catalog: decode snapshot %s", path)
	}

	return raw, nil
}

// Load reads a harvest snapshot and normalizes it into a catalog. Callers own
// when to (re)load; there is no implicit caching.
func Load(path string) ([]model.Spot, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}
