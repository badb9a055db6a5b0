package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a seed document mapping item ids to fields:
//
//	item1:
//	  description: All my friends drive a low rider
//	  type: car
//
// Every item must have a non-empty string "type".
func ParseYAML(r io.Reader) (map[string]Item, error) {
	var items map[string]Item
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if err == io.EOF {
			return map[string]Item{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	for id, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: item %q is empty", ErrInvalidSeed, id)
		}
		if typ, _ := item["type"].(string); typ == "" {
			return nil, fmt.Errorf("%w: item %q has no type", ErrInvalidSeed, id)
		}
	}
	return items, nil
}

// LoadYAML reads a seed file from disk.
func LoadYAML(path string) (map[string]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	defer func() { _ = f.Close() }()

	return ParseYAML(f)
}
