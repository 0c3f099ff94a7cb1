package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/sirupsen/logrus"
)

const (
	markerPrefix = "@@protoc_insertion_point("
	filePerm     = 0o644
	dirPerm      = 0o755
)

// Writer applies artifacts to an output directory the way protoc does
type Writer struct {
	root string
	log  logrus.FieldLogger
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, log logrus.FieldLogger) *Writer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(nopWriter{})
		log = l
	}
	return &Writer{root: dir, log: log}
}

// Write writes new files first, then splices insertions into their targets.
// Each touched file is replaced atomically.
func (w *Writer) Write(ctx context.Context, arts []Artifact) error {
	var inserts []Artifact
	for _, a := range arts {
		if !a.IsNewFile() {
			inserts = append(inserts, a)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeFile(a.Path, a.Content); err != nil {
			return err
		}
		w.log.WithField("path", a.Path).Debug("Wrote file")
	}

	// Group by target, keeping the order of first appearance.
	var order []string
	byPath := make(map[string][]Artifact)
	for _, a := range inserts {
		if _, ok := byPath[a.Path]; !ok {
			order = append(order, a.Path)
		}
		byPath[a.Path] = append(byPath[a.Path], a)
	}

	for _, p := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(w.resolve(p))
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInsertionTargetMissing, p)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteFailed, p, err)
		}
		content := string(data)
		for _, a := range byPath[p] {
			content, err = Insert(content, a.InsertionPoint, a.Content)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
		}
		if err := w.writeFile(p, content); err != nil {
			return err
		}
		w.log.WithFields(logrus.Fields{
			"path":       p,
			"insertions": len(byPath[p]),
		}).Debug("Applied insertions")
	}
	return nil
}

func (w *Writer) resolve(p string) string {
	return filepath.Join(w.root, filepath.FromSlash(p))
}

func (w *Writer) writeFile(p, content string) error {
	target := w.resolve(p)
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, p, err)
	}
	if err := renameio.WriteFile(target, []byte(content), filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, p, err)
	}
	return nil
}

// Insert places text before the line holding the marker of the insertion
// point. Every inserted line is indented like the marker, and a trailing
// newline is added when missing. Repeated inserts at the same point keep
// their order.
func Insert(content, point, text string) (string, error) {
	marker := markerPrefix + point + ")"
	idx := strings.Index(content, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrInsertionPointNotFound, point)
	}
	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	indent := leadingSpace(content[lineStart:idx])

	var b strings.Builder
	b.WriteString(content[:lineStart])
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if line != "\n" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(content[lineStart:])
	return b.String(), nil
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
