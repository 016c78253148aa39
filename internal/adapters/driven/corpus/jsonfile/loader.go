// Package jsonfile loads the legal corpus from a JSON document and
// validates it against the ingestion schema.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/validation"
)

// Ensure Loader implements the interface.
var _ driven.CorpusSource = (*Loader)(nil)

// Loader reads a corpus file of the form
// {"acts":[{"act_title","sections":[{"section_content"}],"footnotes":[{"footnote_text"}]}]}.
type Loader struct {
	path      string
	validator *validation.Validator
}

// New creates a loader for the file at path.
func New(path string) *Loader {
	return &Loader{path: path, validator: validation.New()}
}

// Path returns the corpus file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, decodes and validates the corpus.
func (l *Loader) Load(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("corpus: %s: %w", l.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()

	corpus, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", l.path, err)
	}
	return corpus, nil
}

// Decode parses and validates a corpus from r.
func (l *Loader) Decode(r io.Reader) (*domain.Corpus, error) {
	var corpus domain.Corpus
	if err := json.NewDecoder(r).Decode(&corpus); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchema, err)
	}
	if err := l.validator.Struct(corpus, domain.ErrSchema); err != nil {
		return nil, err
	}
	return &corpus, nil
}
