// Package archive bundles backup files into one zip and unpacks it again.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/klauspost/compress/zip"
)

// MaxEntrySize caps the extracted size of a single archive entry.
var MaxEntrySize int64 = 4 << 30

// Zip writes every file in files into a new zip archive at path. Entries are
// stored flat under their base names. The archive is removed if any input
// cannot be read.
func Zip(ctx context.Context, path string, files []string) (_ string, err error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(path)
		}
	}()

	zw := zip.NewWriter(out)
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := filepath.Base(f)
		if _, dup := seen[name]; dup {
			return "", fmt.Errorf("duplicate entry %q", name)
		}
		seen[name] = struct{}{}

		if err := addFile(zw, f, name); err != nil {
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finish zip: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func addFile(zw *zip.Writer, src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", src, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("compress %s: %w", src, err)
	}
	return nil
}

// Unzip extracts every entry of the archive at path into destDir and returns
// the extracted file paths in archive order. Corrupt archives and entries
// that would land outside destDir fail with common.ErrZipCorrupt.
func Unzip(ctx context.Context, path, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrZipCorrupt, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	root := filepath.Clean(destDir) + string(os.PathSeparator)
	files := make([]string, 0, len(zr.File))
	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if zf.FileInfo().IsDir() {
			continue
		}

		target := filepath.Join(destDir, zf.Name)
		if !strings.HasPrefix(target, root) {
			return nil, fmt.Errorf("%w: entry %q escapes destination", common.ErrZipCorrupt, zf.Name)
		}

		if err := extract(zf, target); err != nil {
			return nil, err
		}
		files = append(files, target)
	}
	return files, nil
}

func extract(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(target), err)
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrZipCorrupt, zf.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	n, err := io.Copy(out, io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: %s: %v", common.ErrZipCorrupt, zf.Name, err)
	}
	if n > MaxEntrySize {
		_ = out.Close()
		_ = os.Remove(target)
		return fmt.Errorf("%w: %s exceeds %d bytes", common.ErrZipCorrupt, zf.Name, MaxEntrySize)
	}
	return out.Close()
}
