// Package model saves and loads the trained classifier artifact.
package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/disaster-response/internal/classifier"
	"github.com/banshee-data/disaster-response/internal/fsutil"
	"github.com/banshee-data/disaster-response/internal/gridsearch"
	"github.com/banshee-data/disaster-response/internal/version"
)

// FormatVersion is bumped whenever Artifact changes incompatibly.
const FormatVersion = 1

// magic prefixes every artifact file.
var magic = []byte("DRMODEL1")

// ErrBadArtifact is returned for files that are not readable artifacts.
var ErrBadArtifact = errors.New("model: not a valid model artifact")

// Artifact is everything needed to classify new messages. It is written once
// and never modified.
type Artifact struct {
	FormatVersion int
	ToolVersion   string
	CreatedAt     time.Time
	Categories    []string
	BestParams    classifier.Params
	CVResults     []gridsearch.Result
	// MeanF1 is the held-out F1 averaged over categories.
	MeanF1   float64
	Pipeline *classifier.Pipeline
}

// New wraps a fitted pipeline, stamping it with createdAt.
func New(p *classifier.Pipeline, categories []string, results []gridsearch.Result, createdAt time.Time) *Artifact {
	return &Artifact{
		FormatVersion: FormatVersion,
		ToolVersion:   version.Version,
		CreatedAt:     createdAt.UTC(),
		Categories:    append([]string(nil), categories...),
		BestParams:    p.Params,
		CVResults:     results,
		Pipeline:      p,
	}
}

// Encode writes the magic header followed by the zstd-compressed gob.
func (a *Artifact) Encode(w io.Writer) error {
	if _, err := w.Write(magic); err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(a); err != nil {
		zw.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	return zw.Close()
}

// Decode reads an artifact written by Encode.
func Decode(r io.Reader) (*Artifact, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil || !bytes.Equal(head, magic) {
		return nil, fmt.Errorf("%w: missing header", ErrBadArtifact)
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}
	defer zr.Close()

	var a Artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}
	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", ErrBadArtifact, a.FormatVersion, FormatVersion)
	}
	if a.Pipeline == nil || a.Pipeline.Classifier == nil || len(a.Pipeline.Classifier.Estimators) != len(a.Categories) {
		return nil, fmt.Errorf("%w: incomplete pipeline", ErrBadArtifact)
	}
	return &a, nil
}

// Save writes a to path through a temporary file and a rename, so path
// never holds a partial artifact.
func Save(fsys fsutil.FileSystem, path string, a *Artifact) error {
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Load reads an artifact from path.
func Load(fsys fsutil.FileSystem, path string) (*Artifact, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Predict labels messages with the stored pipeline.
func (a *Artifact) Predict(messages []string) (*mat.Dense, error) {
	return a.Pipeline.Predict(messages)
}

// Classify returns the categories predicted for one message.
func (a *Artifact) Classify(message string) ([]string, error) {
	pred, err := a.Predict([]string{message})
	if err != nil {
		return nil, err
	}
	var out []string
	for j, name := range a.Categories {
		if pred.At(0, j) == 1 {
			out = append(out, name)
		}
	}
	return out, nil
}

// SaveFile is Save on the OS filesystem.
func SaveFile(path string, a *Artifact) error {
	return Save(fsutil.OSFileSystem{}, path, a)
}

// LoadFile is Load on the OS filesystem.
func LoadFile(path string) (*Artifact, error) {
	a, err := Load(fsutil.OSFileSystem{}, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("model file %s not found: %w", path, err)
	}
	return a, err
}
