package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"grocerystore/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fixture is the JSON document read by the catalog loader. Image paths are
// relative to the fixture file.
type Fixture struct {
	Categories []FixtureCategory `json:"categories"`
}

type FixtureCategory struct {
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	Image         string               `json:"image"`
	Subcategories []FixtureSubcategory `json:"subcategories"`
}

type FixtureSubcategory struct {
	Name     string           `json:"name"`
	Slug     string           `json:"slug"`
	Image    string           `json:"image"`
	Products []FixtureProduct `json:"products"`
}

type FixtureProduct struct {
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

// LoadStats counts the rows a load created.
type LoadStats struct {
	Categories    int
	Subcategories int
	Products      int
}

func ReadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Loader imports a fixture through the catalog service so products get
// their thumbnails.
type Loader struct {
	service *Service
	media   *MediaStore
	log     *zap.Logger
}

func NewLoader(service *Service, media *MediaStore, log *zap.Logger) *Loader {
	return &Loader{service: service, media: media, log: log}
}

// Load creates every category, subcategory and product of f. baseDir
// resolves relative image paths.
func (l *Loader) Load(ctx context.Context, f *Fixture, baseDir string) (LoadStats, error) {
	var stats LoadStats

	for _, fc := range f.Categories {
		category := models.Category{Name: fc.Name, Slug: fc.Slug}
		if fc.Image != "" {
			image, err := l.media.Import(resolve(baseDir, fc.Image), CategoryImageDir)
			if err != nil {
				return stats, fmt.Errorf("category %q: %w", fc.Name, err)
			}
			category.Image = image
		}
		if err := l.service.CreateCategory(ctx, &category); err != nil {
			return stats, fmt.Errorf("category %q: %w", fc.Name, err)
		}
		stats.Categories++

		for _, fs := range fc.Subcategories {
			sub := models.Subcategory{Name: fs.Name, Slug: fs.Slug, CategoryID: category.ID}
			if fs.Image != "" {
				image, err := l.media.Import(resolve(baseDir, fs.Image), SubcategoryImageDir)
				if err != nil {
					return stats, fmt.Errorf("subcategory %q: %w", fs.Name, err)
				}
				sub.Image = image
			}
			if err := l.service.CreateSubcategory(ctx, &sub); err != nil {
				return stats, fmt.Errorf("subcategory %q: %w", fs.Name, err)
			}
			stats.Subcategories++

			for _, fp := range fs.Products {
				product := models.Product{
					Name:          fp.Name,
					Slug:          fp.Slug,
					CategoryID:    category.ID,
					SubcategoryID: sub.ID,
					Price:         fp.Price,
				}
				if fp.Image != "" {
					image, err := l.media.Import(resolve(baseDir, fp.Image), ProductImageDir)
					if err != nil {
						return stats, fmt.Errorf("product %q: %w", fp.Name, err)
					}
					product.Image = image
				}
				if err := l.service.CreateProduct(ctx, &product); err != nil {
					return stats, fmt.Errorf("product %q: %w", fp.Name, err)
				}
				stats.Products++
			}
		}
	}

	l.log.Info("Catalog loaded",
		zap.Int("categories", stats.Categories),
		zap.Int("subcategories", stats.Subcategories),
		zap.Int("products", stats.Products),
	)
	return stats, nil
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
