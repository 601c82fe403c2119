package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to the selected category")
	ErrNonPositivePrice    = errors.New("price must be greater than zero")
)

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Slug          string          `gorm:"size:200;uniqueIndex;not null" json:"slug" validate:"max=200"`
	CategoryID    uint            `gorm:"not null;index" json:"category_id" validate:"required"`
	Category      Category        `gorm:"foreignKey:CategoryID" json:"category" validate:"-"`
	SubcategoryID uint            `gorm:"not null;index" json:"subcategory_id" validate:"required"`
	Subcategory   Subcategory     `gorm:"foreignKey:SubcategoryID" json:"subcategory" validate:"-"`
	Image         string          `gorm:"not null;default:'products/default.jpg'" json:"image"`
	ImageSmall    string          `json:"image_small"`
	ImageMedium   string          `json:"image_medium"`
	ImageLarge    string          `json:"image_large"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Clean checks the invariants that span rows: the subcategory must sit under
// the product's category and the price must be positive.
func (p *Product) Clean(sub *Subcategory) error {
	if sub != nil && sub.CategoryID != p.CategoryID {
		return ErrSubcategoryMismatch
	}
	if !p.Price.IsPositive() {
		return ErrNonPositivePrice
	}
	return nil
}

// HasDefaultImage reports whether the product still carries the placeholder.
func (p *Product) HasDefaultImage() bool {
	return p.Image == "" || p.Image == DefaultProductImage
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.Image == "" {
		p.Image = DefaultProductImage
	}
	return nil
}
