package dataimport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Input is one importable acquisition file found on disk.
type Input struct {
	Path       string
	SpecimenID string
}

// DiscoverInputs lists the importable files of a directory in a
// deterministic order. Specimen IDs are the file names without their
// extension; nested directories are not descended into.
func DiscoverInputs(dir string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list inputs in %s: %w", dir, err)
	}
	var ans []Input
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".dat", ".csv":
			ans = append(ans, Input{
				Path:       filepath.Join(dir, name),
				SpecimenID: strings.TrimSuffix(name, filepath.Ext(name)),
			})
		}
	}
	sort.Slice(ans, func(i, j int) bool {
		return ans[i].SpecimenID < ans[j].SpecimenID
	})
	return ans, nil
}
