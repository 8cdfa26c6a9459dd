package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

func TestFormatResults(t *testing.T) {
	t.Parallel()

	dist := 3.14
	var sb strings.Builder
	formatResults(&sb, []model.SpotResult{
		{
			Spot:       model.Spot{ID: "P 01", Name: "Templiner See", Club: "AV Potsdam", Latitude: 52.37, Longitude: 13.03},
			DistanceKm: &dist,
		},
		{
			Spot: model.Spot{ID: "C 01", Name: "Madlower Teich", Club: "N/A", Latitude: 51.73, Longitude: 14.32},
		},
	})

	out := sb.String()
	assert.Contains(t, out, "P 01")
	assert.Contains(t, out, "3.1 km")
	assert.Contains(t, out, "Madlower Teich")
	assert.Contains(t, out, "2 spot(s)")
}

func TestFormatResults_Empty(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	formatResults(&sb, nil)
	assert.Contains(t, sb.String(), "No spots matched.")
}

func TestFormatRunsList(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	var sb strings.Builder
	formatRunsList(&sb, []model.HarvestRun{
		{
			ID: "0193b6a2-dead-beef-cafe-000000000000", Status: model.RunStatusComplete,
			Total: 120, Succeeded: 118, Failed: 2,
			StartedAt: started, FinishedAt: &finished,
		},
		{
			ID: "short", Status: model.RunStatusRunning, Total: 10, StartedAt: started,
		},
	})

	out := sb.String()
	assert.Contains(t, out, "0193b6a2")             // uuid truncated
	assert.NotContains(t, out, "dead-beef")         // rest of the uuid hidden
	assert.Contains(t, out, "1m30s")                // duration rendered
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "-") // no duration for the unfinished run
}
