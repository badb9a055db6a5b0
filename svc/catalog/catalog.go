// Package catalog provides read-only item lookups for the tour endpoints.
//
// Items are schemaless documents keyed by id. Each document carries a "type"
// discriminator that the HTTP layer uses to pick a response shape.
package catalog

import (
	"context"
	"errors"
	"maps"
)

// ErrNotFound is returned when no item exists for an id.
var ErrNotFound = errors.New("item not found")

// ErrInvalidSeed is returned for unreadable or malformed seed data.
var ErrInvalidSeed = errors.New("invalid catalog seed")

// Item is a catalogue document.
type Item = map[string]any

// Store looks up items by id.
type Store interface {
	Get(ctx context.Context, id string) (Item, error)
}

// DefaultItems returns the built-in catalogue.
func DefaultItems() map[string]Item {
	return map[string]Item{
		"item1": {
			"description": "All my friends drive a low rider",
			"type":        "car",
		},
		"item2": {
			"description": "Music is my aeroplane, it's my aeroplane",
			"type":        "plane",
			"size":        5,
		},
	}
}

func cloneItems(items map[string]Item) map[string]Item {
	out := make(map[string]Item, len(items))
	for id, item := range items {
		out[id] = maps.Clone(item)
	}
	return out
}
