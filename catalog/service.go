package catalog

import (
	"context"
	"errors"
	"fmt"

	"grocerystore/models"
	"grocerystore/thumbnails"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSubcategoryNotFound = errors.New("subcategory not found")

var validate = validator.New()

// ImageDeriver produces the resized variants of a product image.
type ImageDeriver interface {
	Derive(original string) (thumbnails.Variants, error)
}

// Service owns catalog writes. Product writes run a post-write hook that
// regenerates thumbnails when the original image was newly set.
type Service struct {
	db     *gorm.DB
	images ImageDeriver
	log    *zap.Logger
}

func NewService(db *gorm.DB, images ImageDeriver, log *zap.Logger) *Service {
	return &Service{
		db:     db,
		images: images,
		log:    log,
	}
}

func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := validate.Struct(category); err != nil {
		return err
	}
	category.Subcategories = nil

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	s.log.Info("Category created", zap.Uint("id", category.ID), zap.String("slug", category.Slug))
	return nil
}

func (s *Service) CreateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	if err := sub.Clean(); err != nil {
		return err
	}
	if err := validate.Struct(sub); err != nil {
		return err
	}

	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, sub.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error; err != nil {
		return fmt.Errorf("create subcategory: %w", err)
	}
	s.log.Info("Subcategory created", zap.Uint("id", sub.ID), zap.Uint("category_id", sub.CategoryID))
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.clean(ctx, product); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	s.log.Info("Product created", zap.Uint("id", product.ID), zap.String("slug", product.Slug))

	return s.afterProductWrite(ctx, product, true)
}

// UpdateProduct saves every column of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, product *models.Product) error {
	var previous models.Product
	if err := s.db.WithContext(ctx).Select("id", "image").First(&previous, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.clean(ctx, product); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return s.afterProductWrite(ctx, product, product.Image != previous.Image)
}

// SetProductImage replaces the original image of a product.
func (s *Service) SetProductImage(ctx context.Context, id uint, image string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Image = image
	if err := s.UpdateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) clean(ctx context.Context, product *models.Product) error {
	if err := validate.Struct(product); err != nil {
		return err
	}

	var sub models.Subcategory
	if err := s.db.WithContext(ctx).First(&sub, product.SubcategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubcategoryNotFound
		}
		return err
	}
	return product.Clean(&sub)
}

// afterProductWrite derives thumbnails and persists only the variant columns
// whose value changed. UpdateColumns skips hooks and timestamps, so the hook
// never re-enters itself.
func (s *Service) afterProductWrite(ctx context.Context, product *models.Product, imageChanged bool) error {
	if !imageChanged || product.HasDefaultImage() {
		return nil
	}

	variants, err := s.images.Derive(product.Image)
	if errors.Is(err, thumbnails.ErrDefaultImage) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("derive thumbnails for product %d: %w", product.ID, err)
	}

	changed := make(map[string]interface{})
	if product.ImageSmall != variants.Small {
		product.ImageSmall = variants.Small
		changed["image_small"] = variants.Small
	}
	if product.ImageMedium != variants.Medium {
		product.ImageMedium = variants.Medium
		changed["image_medium"] = variants.Medium
	}
	if product.ImageLarge != variants.Large {
		product.ImageLarge = variants.Large
		changed["image_large"] = variants.Large
	}
	if len(changed) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumns(changed).Error; err != nil {
		return fmt.Errorf("store thumbnails for product %d: %w", product.ID, err)
	}
	s.log.Debug("Product thumbnails stored", zap.Uint("id", product.ID), zap.Int("fields", len(changed)))
	return nil
}
