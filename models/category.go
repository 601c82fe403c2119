package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:200;uniqueIndex;not null" json:"name" validate:"required,max=200"`
	Slug          string        `gorm:"size:200;uniqueIndex;not null" json:"slug" validate:"max=200"`
	Image         string        `json:"image"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories"`
	Products      []Product     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

// Slugify derives a URL-safe slug, truncated to MaxSlugLength.
func Slugify(name string) string {
	s := slug.Make(name)
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}
	return s
}
