package therapies

import (
	"context"
	"strings"
)

// Catalog lists the full set of offered therapies. Implementations must be
// safe to call repeatedly; no pagination or filtering is applied.
type Catalog interface {
	List(ctx context.Context) ([]Therapy, error)
}

// StaticCatalog serves a fixed therapy list held in memory.
type StaticCatalog struct {
	items []Therapy
}

// NewStaticCatalog creates a catalog over items. With no items the default
// Panchakarma list is used.
func NewStaticCatalog(items ...Therapy) *StaticCatalog {
	if len(items) == 0 {
		items = DefaultTherapies()
	}
	copied := make([]Therapy, len(items))
	copy(copied, items)
	return &StaticCatalog{items: copied}
}

// List returns a copy of the catalog.
func (c *StaticCatalog) List(ctx context.Context) ([]Therapy, error) {
	out := make([]Therapy, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Find loads the catalog and returns the therapy with the given id.
func Find(ctx context.Context, catalog Catalog, id string) (Therapy, error) {
	items, err := catalog.List(ctx)
	if err != nil {
		return Therapy{}, err
	}
	if t, ok := Lookup(items, id); ok {
		return t, nil
	}
	return Therapy{}, ErrTherapyNotFound
}

// Lookup finds id in an already loaded list.
func Lookup(items []Therapy, id string) (Therapy, bool) {
	id = strings.TrimSpace(id)
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return Therapy{}, false
}
