package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nyashahama/quiz-result-engine/internal/db"
)

// ErrNotFound is returned by Catalog.Get for an unknown quiz id.
var ErrNotFound = errors.New("quiz: not found")

// Loader is the slice of db.Querier the catalog reads from.
type Loader interface {
	GetQuiz(ctx context.Context, id string) (db.Quiz, error)
}

// Catalog loads published definitions and keeps the parsed form per
// (id, version). A republished quiz bumps its version, which invalidates the
// cached entry on the next Get.
type Catalog struct {
	loader Loader

	mu      sync.RWMutex
	entries map[string]*Definition
}

// NewCatalog returns a Catalog reading through loader.
func NewCatalog(loader Loader) *Catalog {
	return &Catalog{loader: loader, entries: make(map[string]*Definition)}
}

// Get returns the current definition of quiz id.
func (c *Catalog) Get(ctx context.Context, id string) (*Definition, error) {
	row, err := c.loader.GetQuiz(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("quiz: load %s: %w", id, err)
	}

	c.mu.RLock()
	def, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && def.Version == int(row.Version) {
		return def, nil
	}

	def, err = FromRow(row)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = def
	c.mu.Unlock()
	return def, nil
}

// FromRow parses a stored quiz row. The row's version column wins over the
// version inside the document.
func FromRow(row db.Quiz) (*Definition, error) {
	def, err := Parse(row.Definition, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("quiz: stored definition %s: %w", row.ID, err)
	}
	def.Version = int(row.Version)
	return def, nil
}

// PublishParams converts d into the row written by UpsertQuiz.
func (d *Definition) PublishParams() (db.UpsertQuizParams, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return db.UpsertQuizParams{}, fmt.Errorf("quiz: encode %s: %w", d.ID, err)
	}
	return db.UpsertQuizParams{
		ID:         d.ID,
		Title:      d.Title,
		Version:    int32(d.Version),
		Definition: data,
	}, nil
}
