package catalog

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrDuplicateName  = errors.New("duplicate name")
)

// Material is a single catalog entry: the unit sell value of a named material.
type Material struct {
	Name  string `yaml:"name" validate:"required"`
	Value int    `yaml:"value" validate:"min=0"`
}

// Valuation is the result of a catalog lookup. Defaulted is true when the
// material was absent and the caller-supplied fallback value was used.
type Valuation struct {
	Value     int
	Defaulted bool
}

// Catalog maps material names to unit values. It keeps declaration order so
// that displays sorted by value break ties the same way on every run.
type Catalog struct {
	materials []Material
	index     map[string]int
}

// New builds an immutable catalog. Names must be unique and values non-negative.
func New(materials []Material) (*Catalog, error) {
	c := &Catalog{
		materials: make([]Material, 0, len(materials)),
		index:     make(map[string]int, len(materials)),
	}
	for i, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: material at index %d has empty name", ErrInvalidCatalog, i)
		}
		if m.Value < 0 {
			return nil, fmt.Errorf("%w: material '%s' has negative value %d", ErrInvalidCatalog, m.Name, m.Value)
		}
		if _, ok := c.index[m.Name]; ok {
			return nil, fmt.Errorf("%w: material '%s'", ErrDuplicateName, m.Name)
		}
		c.index[m.Name] = len(c.materials)
		c.materials = append(c.materials, m)
	}
	return c, nil
}

// MustNew is New for static tables; it panics on error.
func MustNew(materials []Material) *Catalog {
	c, err := New(materials)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of materials.
func (c *Catalog) Len() int {
	return len(c.materials)
}

// Materials returns a copy of the entries in declaration order.
func (c *Catalog) Materials() []Material {
	out := make([]Material, len(c.materials))
	copy(out, c.materials)
	return out
}

// Lookup returns the unit value of name by exact match.
func (c *Catalog) Lookup(name string) (int, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}
	return c.materials[i].Value, true
}

// Valuate looks name up and substitutes fallback when it is missing.
func (c *Catalog) Valuate(name string, fallback int) Valuation {
	if v, ok := c.Lookup(name); ok {
		return Valuation{Value: v}
	}
	return Valuation{Value: fallback, Defaulted: true}
}

// Closest returns the catalog name nearest to name by edit distance, for
// diagnostics about misspelled materials. Distant names are not suggested.
func (c *Catalog) Closest(name string) (string, bool) {
	best := ""
	bestDist := -1
	for _, m := range c.materials {
		d := levenshtein.ComputeDistance(name, m.Name)
		if bestDist < 0 || d < bestDist {
			best, bestDist = m.Name, d
		}
	}
	if bestDist < 0 || bestDist > suggestionLimit(len(name)) {
		return "", false
	}
	return best, true
}

func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 2
	default:
		return 3
	}
}
