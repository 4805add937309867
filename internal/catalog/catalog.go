// Package catalog holds the server-provided format-compatibility table and
// answers which output formats a given input extension can be converted to.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// OtherCategory is the residual bucket for outputs that match no category.
const OtherCategory = "Other"

// Category is one named group of input extensions with their outputs.
type Category struct {
	Name    string
	Inputs  []string            // input extensions in server order
	Outputs map[string][]string // input extension -> ordered outputs
}

// Catalog maps categories to input extensions to output extensions. It is
// immutable once built.
type Catalog struct {
	categories []Category
	byName     map[string]int
	index      map[string]int // extension -> category position
}

// Group is a display bucket of output extensions.
type Group struct {
	Category   string
	Extensions []string
}

// New builds a catalog from an unordered map. Category and extension order is
// sorted lexically since the map carries none.
func New(data map[string]map[string][]string) *Catalog {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]Category, 0, len(names))
	for _, name := range names {
		exts := data[name]
		inputs := make([]string, 0, len(exts))
		for ext := range exts {
			inputs = append(inputs, ext)
		}
		sort.Strings(inputs)
		categories = append(categories, Category{Name: name, Inputs: inputs, Outputs: exts})
	}
	return build(categories)
}

// Parse decodes the JSON body of the formats endpoint keeping the order in
// which the server listed categories and extensions.
func Parse(body []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var categories []Category
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}

		category := Category{Name: name, Outputs: make(map[string][]string)}
		for dec.More() {
			ext, err := readKey(dec)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}
			var outputs []string
			if err := dec.Decode(&outputs); err != nil {
				return nil, fmt.Errorf("category %q, extension %q: %w", name, ext, err)
			}
			ext = normalize(ext)
			if _, dup := category.Outputs[ext]; dup {
				continue
			}
			for i := range outputs {
				outputs[i] = normalize(outputs[i])
			}
			category.Inputs = append(category.Inputs, ext)
			category.Outputs[ext] = outputs
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		categories = append(categories, category)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("unexpected data after formats object")
	}

	return build(categories), nil
}

func build(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byName:     make(map[string]int, len(categories)),
		index:      make(map[string]int),
	}
	for i, category := range categories {
		c.byName[category.Name] = i
		for _, ext := range category.Inputs {
			// first category wins when the server lists an extension twice
			if _, seen := c.index[ext]; !seen {
				c.index[ext] = i
			}
		}
	}
	return c
}

// Categories returns category names in catalog order.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.categories))
	for i, category := range c.categories {
		names[i] = category.Name
	}
	return names
}

// Category returns the named category.
func (c *Catalog) Category(name string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Len returns the number of distinct input extensions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.index)
}

// CategoryOf returns the category whose key set contains ext.
func (c *Catalog) CategoryOf(ext string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.index[normalize(ext)]
	if !ok {
		return "", false
	}
	return c.categories[i].Name, true
}

// ResolveOutputs returns the output extensions reachable from ext, or nil
// when the extension is unknown or the catalog is unset.
func (c *Catalog) ResolveOutputs(ext string) []string {
	if c == nil {
		return nil
	}
	ext = normalize(ext)
	i, ok := c.index[ext]
	if !ok {
		return nil
	}
	outputs := c.categories[i].Outputs[ext]
	if len(outputs) == 0 {
		return nil
	}
	return append([]string(nil), outputs...)
}

// GroupByCategory buckets outputs by the category that lists each of them as
// an input. Buckets appear in order of first use and keep the relative order
// of their extensions. Unmatched extensions land in OtherCategory.
func (c *Catalog) GroupByCategory(outputs []string) []Group {
	var groups []Group
	position := make(map[string]int)

	for _, ext := range outputs {
		name, ok := c.CategoryOf(ext)
		if !ok {
			name = OtherCategory
		}
		i, seen := position[name]
		if !seen {
			i = len(groups)
			position[name] = i
			groups = append(groups, Group{Category: name})
		}
		groups[i].Extensions = append(groups[i].Extensions, ext)
	}
	return groups
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("expected %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
