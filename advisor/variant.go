package advisor

import (
	"fmt"
	"strings"
)

// VariantID identifies a behavior variant. Values are assigned in declaration
// order by a Catalog; a lower value wins exact score ties.
type VariantID uint16

// Catalog is the closed, ordered set of behavior variants declared by the host.
// The zero value is an empty catalog. A Catalog is not mutated after construction.
type Catalog struct {
	names []string
	index map[string]VariantID
}

// NewCatalog declares variants in order. Names must be non-empty and unique.
func NewCatalog(names ...string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("catalog must declare at least one variant")
	}
	if len(names) > int(^VariantID(0)) {
		return nil, fmt.Errorf("catalog declares %d variants; at most %d supported", len(names), int(^VariantID(0)))
	}
	c := &Catalog{
		names: make([]string, len(names)),
		index: make(map[string]VariantID, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("variant %d has an empty name", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate variant %q; each variant may be declared once", name)
		}
		c.names[i] = name
		c.index[name] = VariantID(i)
	}
	return c, nil
}

// MustCatalog is NewCatalog that panics on error. Intended for package-level declarations.
func MustCatalog(names ...string) *Catalog {
	c, err := NewCatalog(names...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of declared variants.
func (c *Catalog) Len() int { return len(c.names) }

// Contains reports whether id was declared.
func (c *Catalog) Contains(id VariantID) bool { return int(id) < len(c.names) }

// Lookup returns the VariantID declared under name.
func (c *Catalog) Lookup(name string) (VariantID, bool) {
	id, ok := c.index[name]
	return id, ok
}

// Name returns the declared name of id, or "variant(N)" for undeclared ids.
func (c *Catalog) Name(id VariantID) string {
	if c == nil || !c.Contains(id) {
		return fmt.Sprintf("variant(%d)", id)
	}
	return c.names[id]
}

// Names returns the variant names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
