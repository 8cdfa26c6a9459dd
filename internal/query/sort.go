package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// SortByName orders results by display name using German collation, so
// umlauted names sort where a reader expects them. In place.
func SortByName(results []model.SpotResult) {
	c := collate.New(language.German)
	sort.SliceStable(results, func(i, j int) bool {
		return c.CompareString(results[i].Name, results[j].Name) < 0
	})
}

// SortByDistance orders results nearest-first. Entries without a distance
// annotation keep their relative order at the end. In place.
func SortByDistance(results []model.SpotResult) {
	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].DistanceKm, results[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
}
