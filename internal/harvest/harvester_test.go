package harvest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
	"github.com/brandenburg-angeln/spot-cli/internal/observability"
)

// fakeClient serves canned records and errors, tracking call counts per id.
type fakeClient struct {
	mu      sync.Mutex
	records map[string]model.RawRecord
	errs    map[string]error
	calls   map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		records: make(map[string]model.RawRecord),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeClient) Fetch(ctx context.Context, id string) (model.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return model.RawRecord{"id": id}, nil
}

func (f *fakeClient) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func TestRun_DeduplicatesAndToleratesFailure(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.records["A"] = model.RawRecord{"id": "A", "bezeichnung": "See"}
	client.errs["B"] = eris.New("connection refused")

	h := New(client)
	records, stats, err := h.Run(context.Background(), []string{"A", "A", "B"})
	require.NoError(t, err)

	// The duplicate A is queried once; B's failure becomes a placeholder.
	require.Len(t, records, 2)
	assert.Equal(t, 1, client.callCount("A"))
	assert.Equal(t, Stats{Total: 2, Succeeded: 1, Failed: 1}, stats)

	assert.Equal(t, "A", records[0]["id"])
	assert.False(t, records[0].IsError())

	assert.True(t, records[1].IsError())
	assert.Equal(t, "B", records[1]["id"])
	assert.Contains(t, records[1]["error"], "connection refused")
}

func TestRun_AllIdentifiersPresentUnderConcurrency(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, string(rune('A'+i%26))+string(rune('0'+i/26)))
	}

	h := New(client, WithConcurrency(8))
	records, stats, err := h.Run(context.Background(), ids)
	require.NoError(t, err)

	deduped := Dedupe(ids)
	require.Len(t, records, len(deduped))
	assert.Equal(t, len(deduped), stats.Total)
	assert.Zero(t, stats.Failed)

	seen := make(map[string]bool)
	for _, rec := range records {
		seen[rec["id"].(string)] = true
	}
	for _, id := range deduped {
		assert.True(t, seen[id], "missing %s", id)
	}
}

func TestRun_RecordsLookupOutcomes(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.errs["B"] = eris.New("boom")

	m := observability.NewMetrics(prometheus.NewRegistry())
	h := New(client, WithMetrics(m))
	_, _, err := h.Run(context.Background(), []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupRequests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupRequests.WithLabelValues("error")))
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := New(newFakeClient())
	_, _, err := h.Run(ctx, []string{"A", "B"})
	require.Error(t, err)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B", "C"}, Dedupe([]string{"A", "B", "A", "C", "B"}))
	assert.Empty(t, Dedupe(nil))
}

func TestWriteSnapshot_PrettyPrintedUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	records := []model.RawRecord{
		{"id": "P 01", "bezeichnung": "Großer Zernsee"},
	}
	require.NoError(t, WriteSnapshot(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Human-readable: indented, umlauts unescaped.
	assert.Contains(t, string(data), "\n  {")
	assert.Contains(t, string(data), "Großer Zernsee")

	var back []model.RawRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.Equal(t, "P 01", back[0]["id"])
}

func TestWriteSnapshot_ReplacesAtomically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, WriteSnapshot(path, []model.RawRecord{{"id": "old"}}))
	require.NoError(t, WriteSnapshot(path, []model.RawRecord{{"id": "new"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "new")
	assert.NotContains(t, string(data), "old")

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteSnapshot_PriorSnapshotSurvivesFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, WriteSnapshot(path, []model.RawRecord{{"id": "prior"}}))

	// Writing into a missing directory fails before touching the target.
	err := WriteSnapshot(filepath.Join(dir, "missing", "data.json"), []model.RawRecord{{"id": "next"}})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prior")
}
