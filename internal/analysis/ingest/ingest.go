package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

var (
	ErrNotZip         = errors.New("uploaded file is not a zip archive")
	ErrNoTabularFiles = errors.New("no CSV files found in the archive")
	ErrUnsafePath     = errors.New("archive entry escapes the extraction directory")
	ErrTooManyEntries = errors.New("archive has too many entries")
	ErrTooLarge       = errors.New("archive content exceeds the size limit")
)

// Limits bounds what one archive may expand to.
type Limits struct {
	MaxEntries   int
	MaxFileBytes int64
	MaxTotal     int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxEntries:   config.MaxArchiveEntries,
		MaxFileBytes: config.MaxExtractedFile,
		MaxTotal:     config.MaxExtractedTotal,
	}
}

// Result lists the tabular files of one extraction, as slash separated paths
// relative to Root, sorted.
type Result struct {
	Root  string
	Files []string
}

// Extract unpacks the zip read from r into dest, creating dest if absent. The archive
// is checked as a whole before anything is written: one unsafe entry rejects it.
// On any error dest is removed again.
func Extract(ctx context.Context, r io.ReaderAt, size int64, dest string, limits Limits) (Result, error) {
	log := logger_i.NewLogger("ingest").FromContext(ctx)

	zr, err := zip.NewReader(r, size)
	if errors.Is(err, zip.ErrInsecurePath) {
		return Result{}, ErrUnsafePath
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	entries, err := plan(zr, limits)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			_ = os.RemoveAll(dest)
			return Result{}, err
		}
		target := filepath.Join(dest, filepath.FromSlash(e.name))
		if e.file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				_ = os.RemoveAll(dest)
				return Result{}, fmt.Errorf("create %s: %w", e.name, err)
			}
			continue
		}
		if err := writeEntry(e.file, target, limits.MaxFileBytes); err != nil {
			_ = os.RemoveAll(dest)
			return Result{}, fmt.Errorf("extract %s: %w", e.name, err)
		}
		if IsTabular(e.name) {
			files = append(files, e.name)
		}
	}
	sort.Strings(files)

	log.Debug("Archive extracted", "entries", len(entries), "csv", len(files), "dest", dest)
	if len(files) == 0 {
		return Result{Root: dest, Files: []string{}}, ErrNoTabularFiles
	}
	return Result{Root: dest, Files: files}, nil
}

type entry struct {
	name string
	file *zip.File
}

func plan(zr *zip.Reader, limits Limits) ([]entry, error) {
	if limits.MaxEntries > 0 && len(zr.File) > limits.MaxEntries {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyEntries, len(zr.File), limits.MaxEntries)
	}

	var total uint64
	out := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		name, err := safeName(f.Name)
		if err != nil {
			return nil, err
		}
		if name == "" || shouldSkip(name) || f.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if !f.FileInfo().IsDir() {
			if limits.MaxFileBytes > 0 && f.UncompressedSize64 > uint64(limits.MaxFileBytes) {
				return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, name, f.UncompressedSize64)
			}
			total += f.UncompressedSize64
			if limits.MaxTotal > 0 && total > uint64(limits.MaxTotal) {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limits.MaxTotal)
			}
		}
		out = append(out, entry{name: name, file: f})
	}
	return out, nil
}

// safeName normalizes an entry name to a clean relative slash path. Absolute names
// and names climbing out with ".." are rejected.
func safeName(raw string) (string, error) {
	name := strings.ReplaceAll(raw, `\`, "/")
	if strings.HasPrefix(name, "/") || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, raw)
	}
	clean := path.Clean(name)
	if clean == "." {
		return "", nil
	}
	if !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, raw)
	}
	return clean, nil
}

func shouldSkip(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if part == "__MACOSX" || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func IsTabular(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), config.TabularFileSuffix)
}

func writeEntry(f *zip.File, target string, maxBytes int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	src := io.Reader(rc)
	if maxBytes > 0 {
		// headers can lie about the uncompressed size
		src = io.LimitReader(rc, maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if maxBytes > 0 && n > maxBytes {
		return ErrTooLarge
	}
	return nil
}
