package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ecoshop/backend/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileCategory struct {
	Name     string                `yaml:"name"`
	Aliases  []string              `yaml:"aliases"`
	Products []domain.CatalogEntry `yaml:"products"`
}

type file struct {
	Brands     map[string]string `yaml:"brands"`
	Categories []fileCategory    `yaml:"categories"`
}

// Catalog is the immutable fallback catalog. It is safe for concurrent use.
type Catalog struct {
	order    []string
	aliases  []domain.CategoryAliases
	products map[string][]domain.CatalogEntry
	brands   map[string]string
}

// Default parses the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path. An empty path selects the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from its YAML document
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("parse catalog: no categories defined")
	}

	c := &Catalog{
		products: make(map[string][]domain.CatalogEntry, len(f.Categories)),
		brands:   make(map[string]string, len(f.Brands)),
	}

	for brand, website := range f.Brands {
		c.brands[strings.ToLower(brand)] = website
	}

	for _, cat := range f.Categories {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" {
			return nil, fmt.Errorf("parse catalog: category without name")
		}
		if _, dup := c.products[name]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate category %q", name)
		}

		entries := make([]domain.CatalogEntry, 0, len(cat.Products))
		for _, p := range cat.Products {
			if p.ID == "" || p.Name == "" {
				return nil, fmt.Errorf("parse catalog: product without id or name in %q", name)
			}
			p.Category = name
			entries = append(entries, p)
		}

		c.order = append(c.order, name)
		c.products[name] = entries
		c.aliases = append(c.aliases, domain.CategoryAliases{
			Category: name,
			Aliases:  append([]string(nil), cat.Aliases...),
		})
	}

	return c, nil
}

// Categories returns the category names in catalog order
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// CategoryProducts returns the entries of a category. Lookup is
// case-insensitive; an exact name wins over the first name containing it.
// Unknown categories yield an empty list.
func (c *Catalog) CategoryProducts(category string) []domain.CatalogEntry {
	name := strings.ToLower(strings.TrimSpace(category))
	if name == "" {
		return []domain.CatalogEntry{}
	}

	entries, ok := c.products[name]
	if !ok {
		for _, candidate := range c.order {
			if strings.Contains(candidate, name) {
				entries = c.products[candidate]
				break
			}
		}
	}

	out := make([]domain.CatalogEntry, len(entries))
	for i, e := range entries {
		e.Certifications = append([]domain.Certification(nil), e.Certifications...)
		out[i] = e
	}
	return out
}

// Aliases returns the category alias table in catalog order
func (c *Catalog) Aliases() []domain.CategoryAliases {
	out := make([]domain.CategoryAliases, len(c.aliases))
	for i, a := range c.aliases {
		out[i] = domain.CategoryAliases{
			Category: a.Category,
			Aliases:  append([]string(nil), a.Aliases...),
		}
	}
	return out
}

// BrandWebsite returns the website of a brand, or "" when unknown
func (c *Catalog) BrandWebsite(brand string) string {
	return c.brands[strings.ToLower(strings.TrimSpace(brand))]
}
