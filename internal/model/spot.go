package model

import "time"

// ClubUnknown is the display value used when a raw record carries no club.
const ClubUnknown = "N/A"

// RawRecord is an untyped document as returned by the lookup service.
// It may be partial, malformed, or an error placeholder written by the
// harvester. Raw records exist only between a harvest run and normalization.
type RawRecord map[string]any

// NewErrorPlaceholder builds the per-identifier failure record the harvester
// stores in place of a normal lookup result.
func NewErrorPlaceholder(id string, message string) RawRecord {
	return RawRecord{
		"error": message,
		"id":    id,
	}
}

// IsError reports whether the record is a harvester error placeholder.
func (r RawRecord) IsError() bool {
	_, ok := r["error"]
	return ok
}

// Spot is a validated, geocoded fishing-location record. Spots are immutable
// once constructed by the catalog validator.
type Spot struct {
	// ID is the water identifier, e.g. "P 04-116". Its leading prefix
	// denotes the regional group (P=Potsdam, C=Cottbus, F=Frankfurt-Oder).
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Club      string  `json:"club"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// GroupPrefix returns the region-group prefix of the spot id, the first
// character of the identifier.
func (s Spot) GroupPrefix() string {
	if s.ID == "" {
		return ""
	}
	return s.ID[:1]
}

// SpotResult is one query-engine hit. DistanceKm is set only when the query
// supplied a reference point.
type SpotResult struct {
	Spot
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// RunStatus tracks the lifecycle of a harvest run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// HarvestRun is one recorded pass over the identifier lists.
type HarvestRun struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Snapshot   string     `json:"snapshot,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
