package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
)

// CatalogSource answers searches from the static catalog by category
type CatalogSource struct {
	catalog domain.Catalog
	matcher *heuristics.CategoryMatcher
}

// NewCatalogSource creates a catalog-backed source
func NewCatalogSource(catalog domain.Catalog) *CatalogSource {
	return &CatalogSource{
		catalog: catalog,
		matcher: heuristics.NewCategoryMatcher(catalog.Aliases()),
	}
}

// Name returns the source name used in logs
func (s *CatalogSource) Name() string {
	return "catalog"
}

// Search maps query onto a category and returns its entries as products.
// A query that matches no category yields an empty list.
func (s *CatalogSource) Search(ctx context.Context, query string) ([]domain.Product, error) {
	category, ok := s.matcher.Match(query)
	if !ok {
		return []domain.Product{}, nil
	}
	return s.Products(category), nil
}

// Products converts every entry of category into a product with a fresh id
func (s *CatalogSource) Products(category string) []domain.Product {
	entries := s.catalog.CategoryProducts(category)
	products := make([]domain.Product, 0, len(entries))
	for _, e := range entries {
		products = append(products, s.toProduct(e))
	}
	return products
}

func (s *CatalogSource) toProduct(e domain.CatalogEntry) domain.Product {
	description := e.Description
	switch {
	case description == "":
		description = e.EcoFeature
	case e.EcoFeature != "":
		description = strings.TrimSuffix(description, ".") + ". " + e.EcoFeature
	}

	sourceURL := e.SourceURL
	if sourceURL == "" {
		sourceURL = s.catalog.BrandWebsite(e.Brand)
	}

	return domain.Product{
		ID:             "eco-" + slug(e.Category) + "-" + uuid.NewString(),
		Name:           e.Name,
		Image:          e.Image,
		Price:          heuristics.RoundPrice(e.Price),
		Description:    description,
		SourceURL:      sourceURL,
		SourceName:     e.Brand,
		Certifications: heuristics.MergeCertifications(e.Certifications, heuristics.ExtractCertifications(e.Name+" "+description)),
	}
}

// slug turns "tampons & pads" into "tampons-pads"
func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
