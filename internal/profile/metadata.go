package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/specialistvlad/i18nrun/internal/step"
)

// PackageMetadata is the subset of package.json the profile needs.
type PackageMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LoadPackageMetadata reads package metadata from file. A missing file yields
// empty metadata so the profile falls back to its defaults.
func LoadPackageMetadata(file string) (PackageMetadata, error) {
	var meta PackageMetadata
	if file == "" {
		return meta, nil
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("reading package metadata %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: parsing package metadata %s: %v", step.ErrConfiguration, file, err)
	}
	return meta, nil
}
