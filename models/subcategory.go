package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSubcategoryWithoutCategory = errors.New("subcategory must belong to a category")

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Slug       string    `gorm:"size:200;uniqueIndex;not null" json:"slug" validate:"max=200"`
	Image      string    `json:"image"`
	CategoryID uint      `gorm:"not null;index" json:"category_id" validate:"required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Products   []Product `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subcategory) Clean() error {
	if s.CategoryID == 0 {
		return ErrSubcategoryWithoutCategory
	}
	return nil
}

func (s *Subcategory) BeforeSave(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
	return nil
}
