package harvest

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadIdentifiers reads newline-delimited UTF-8 identifier lists, one file
// per region group, skipping blank lines. All files are concatenated; the
// caller deduplicates before harvesting.
func LoadIdentifiers(paths ...string) ([]string, error) {
	var ids []string
	for _, path := range paths {
		fileIDs, err := loadIdentifierFile(path)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fileIDs...)
	}
	return ids, nil
}

func loadIdentifierFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "harvest: open id file %s", path)
	}
	defer f.Close() //nolint:errcheck

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "harvest: read id file %s", path)
	}

	return ids, nil
}

// LoadIdentifiersXLSX extracts an identifier column from a water-directory
// spreadsheet. skipRows header rows are ignored, as are blank cells.
func LoadIdentifiersXLSX(path string, sheetIndex, column, skipRows int) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "harvest: open xlsx %s", path)
	}
	if sheetIndex < 0 || sheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("harvest: %s has no sheet %d", path, sheetIndex)
	}

	var ids []string
	for i, row := range f.Sheets[sheetIndex].Rows {
		if i < skipRows {
			continue
		}
		if column >= len(row.Cells) {
			continue
		}
		id := strings.TrimSpace(row.Cells[column].String())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// WriteIdentifiers writes a newline-delimited identifier list, the format
// LoadIdentifiers reads back.
func WriteIdentifiers(path string, ids []string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "harvest: create id file %s", path)
	}

	w := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := w.WriteString(id + "\n"); err != nil {
			f.Close() //nolint:errcheck
			return eris.Wrapf(err, "harvest: write id file %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close() //nolint:errcheck
		return eris.Wrapf(err, "harvest: flush id file %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "harvest: close id file %s", path)
	}

	return nil
}
