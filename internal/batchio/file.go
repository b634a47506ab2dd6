package batchio

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"os"
)

// maxLineSize bounds a single JSON line.
const maxLineSize = 16 << 20

// FileIOHandler stores records as JSON lines in a single file.
type FileIOHandler[T any] struct {
	path      string
	converter JSONConverter[T]
}

func NewFileIOHandler[T any](path string, converter JSONConverter[T]) *FileIOHandler[T] {
	return &FileIOHandler[T]{path: path, converter: converter}
}

// Path returns the file the handler reads and writes.
func (h *FileIOHandler[T]) Path() string {
	return h.path
}

// Write truncates the file and writes one JSON line per item.
func (h *FileIOHandler[T]) Write(ctx context.Context, items iter.Seq2[T, error]) (err error) {
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", h.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", h.path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for item, ierr := range items {
		if ierr != nil {
			return ierr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := h.converter.ToJSON(item)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("write %s: %w", h.path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write %s: %w", h.path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", h.path, err)
	}
	return nil
}

// ReadIterator opens the file and parses it lazily, line by line. A line
// that fails to parse is yielded as an error and ends the sequence. Blank
// lines are skipped.
func (h *FileIOHandler[T]) ReadIterator(ctx context.Context) iter.Seq2[T, error] {
	return once(func(yield func(T, error) bool) {
		var zero T

		f, err := os.Open(h.path)
		if err != nil {
			yield(zero, fmt.Errorf("open %s: %w", h.path, err))
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNo := 0
		for sc.Scan() {
			lineNo++
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			line := sc.Text()
			if line == "" {
				continue
			}

			item, err := h.converter.FromJSON(line)
			if err != nil {
				yield(zero, fmt.Errorf("%s line %d: %w", h.path, lineNo, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield(zero, fmt.Errorf("read %s: %w", h.path, err))
		}
	})
}
