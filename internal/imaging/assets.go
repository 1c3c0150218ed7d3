package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erazemk/passbook/internal/model"
)

// Assets stores processed pass images on disk. Asset paths are relative to
// Dir: "<passID>/<kind>.png".
type Assets struct {
	Dir string
}

// Save writes an image for a pass and returns its asset path.
func (a Assets) Save(passID int64, kind model.ImageKind, data []byte) (string, error) {
	rel := filepath.Join(strconv.FormatInt(passID, 10), string(kind)+".png")
	full := filepath.Join(a.Dir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating asset directory: %w", err)
	}

	// Write to a temporary file first so readers never see a partial image.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing asset: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storing asset: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Path resolves an asset path to a file path, refusing paths that escape Dir.
func (a Assets) Path(asset string) (string, error) {
	if asset == "" || !filepath.IsLocal(filepath.FromSlash(asset)) {
		return "", fmt.Errorf("invalid asset path %q", asset)
	}
	return filepath.Join(a.Dir, filepath.FromSlash(asset)), nil
}

// Read returns the contents of an asset.
func (a Assets) Read(asset string) ([]byte, error) {
	path, err := a.Path(asset)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset: %w", err)
	}
	return data, nil
}

// Remove deletes every asset of a pass.
func (a Assets) Remove(passID int64) error {
	if err := os.RemoveAll(filepath.Join(a.Dir, strconv.FormatInt(passID, 10))); err != nil {
		return fmt.Errorf("removing assets: %w", err)
	}
	return nil
}
