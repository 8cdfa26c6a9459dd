package harvest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// WriteSnapshot persists a full harvest pass as a pretty-printed UTF-8 JSON
// array. The write is all-or-nothing: the data goes to a temp file in the
// target directory first and is renamed over the old snapshot only on
// success, so a failed run leaves the prior snapshot intact.
func WriteSnapshot(path string, records []model.RawRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "harvest: encode snapshot")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return eris.Wrapf(err, "harvest: create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return eris.Wrap(err, "harvest: write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrap(err, "harvest: close snapshot")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrap(err, "harvest: chmod snapshot")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrapf(err, "harvest: replace snapshot %s", path)
	}

	return nil
}
