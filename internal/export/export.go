// Package export writes passes to disk as unsigned pass bundle directories.
//
// Each pass becomes <out>/<passTypeIdentifier>/<serialNumber>/ holding
// pass.json and its images at 1x and 2x. Bundles are neither signed nor
// archived.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/passbook/internal/imaging"
	"github.com/erazemk/passbook/internal/model"
	"github.com/erazemk/passbook/internal/passjson"
	"github.com/erazemk/passbook/internal/store"
)

// Exporter exports stored passes.
type Exporter struct {
	DB      *sql.DB
	Assets  imaging.Assets
	Site    passjson.Site
	Options passjson.Options
	OutDir  string
	// Workers bounds how many passes are exported at once.
	Workers int
}

// Result is the outcome of exporting one pass.
type Result struct {
	PassID       int64
	SerialNumber string
	Dir          string
	Err          error
}

// Run exports every stored pass. A pass that fails is reported in its
// Result and does not stop the others. The returned error is reserved for
// failures of the run itself, such as listing passes or cancellation.
func (e *Exporter) Run(ctx context.Context) ([]Result, error) {
	passes, err := store.ListPasses(ctx, e.DB)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(passes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Workers, 1))

	for i, p := range passes {
		results[i] = Result{PassID: p.ID, SerialNumber: p.SerialNumber}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dir, err := e.ExportPass(ctx, p.ID)
			results[i].Dir = dir
			results[i].Err = err
			if err != nil {
				slog.Warn("pass export failed", "serial_number", p.SerialNumber, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("exporting passes: %w", err)
	}
	return results, nil
}

// ExportPass writes one pass bundle and returns its directory.
func (e *Exporter) ExportPass(ctx context.Context, id int64) (string, error) {
	p, err := store.GetPass(ctx, e.DB, id)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("pass %d not found", id)
	}

	doc, err := passjson.Marshal(p, e.Site, e.Options)
	if err != nil {
		return "", fmt.Errorf("serializing pass %s: %w", p.SerialNumber, err)
	}

	files := map[string][]byte{"pass.json": doc}
	for _, kind := range model.ImageKinds {
		path := p.Image(kind)
		if path == nil {
			continue
		}
		hi, err := e.Assets.Read(*path)
		if err != nil {
			return "", err
		}
		lo, err := imaging.Render(hi, kind, 1)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", kind, err)
		}
		files[string(kind)+".png"] = lo
		files[fmt.Sprintf("%s@%dx.png", kind, imaging.Scale)] = hi
	}

	dir, err := e.bundleDir(p)
	if err != nil {
		return "", err
	}
	if err := writeBundle(dir, files); err != nil {
		return "", err
	}
	return dir, nil
}

// bundleDir rejects identifiers that would escape the output directory.
func (e *Exporter) bundleDir(p *model.Pass) (string, error) {
	for _, part := range []string{p.PassTypeIdentifier, p.SerialNumber} {
		if !filepath.IsLocal(part) || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("identifier %q cannot be used as a directory name", part)
		}
	}
	return filepath.Join(e.OutDir, p.PassTypeIdentifier, p.SerialNumber), nil
}

// writeBundle replaces dir with the given files. The bundle is assembled
// next to dir and renamed into place.
func writeBundle(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.MkdirTemp(filepath.Dir(dir), ".bundle-*")
	if err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}
	defer os.RemoveAll(tmp)
	if err := os.Chmod(tmp, 0o755); err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(tmp, name), files[name], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing previous bundle: %w", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("storing bundle: %w", err)
	}
	return nil
}
