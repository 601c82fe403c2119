package routes

import (
	"strings"

	"grocerystore/models"
)

type SubcategoryResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Image *string `json:"image"`
}

type CategoryResponse struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Image         *string               `json:"image"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

// CategorySummary is the category nested in a product, without subcategories.
type CategorySummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Image *string `json:"image"`
}

type ProductResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	ImageSmall  *string             `json:"image_small"`
	ImageMedium *string             `json:"image_medium"`
	ImageLarge  *string             `json:"image_large"`
	Category    CategorySummary     `json:"category"`
	Subcategory SubcategoryResponse `json:"subcategory"`
	Price       string              `json:"price"`
}

type CartItemResponse struct {
	ID       uint            `json:"id"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

type CartResponse struct {
	ID            uint               `json:"id"`
	User          uint               `json:"user"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int64              `json:"total_quantity"`
	TotalPrice    string             `json:"total_price"`
}

// mapper renders models with media paths resolved against the media URL.
type mapper struct {
	mediaURL string
}

func (m mapper) media(rel string) *string {
	if rel == "" {
		return nil
	}
	url := strings.TrimSuffix(m.mediaURL, "/") + "/" + strings.TrimPrefix(rel, "/")
	return &url
}

func (m mapper) subcategory(s models.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:    s.ID,
		Name:  s.Name,
		Slug:  s.Slug,
		Image: m.media(s.Image),
	}
}

func (m mapper) category(c models.Category) CategoryResponse {
	subs := make([]SubcategoryResponse, len(c.Subcategories))
	for i, s := range c.Subcategories {
		subs[i] = m.subcategory(s)
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Image:         m.media(c.Image),
		Subcategories: subs,
	}
}

func (m mapper) product(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		ImageSmall:  m.media(p.ImageSmall),
		ImageMedium: m.media(p.ImageMedium),
		ImageLarge:  m.media(p.ImageLarge),
		Category: CategorySummary{
			ID:    p.Category.ID,
			Name:  p.Category.Name,
			Slug:  p.Category.Slug,
			Image: m.media(p.Category.Image),
		},
		Subcategory: m.subcategory(p.Subcategory),
		Price:       p.Price.StringFixed(models.PriceDecimals),
	}
}

func (m mapper) cart(c *models.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			ID:       item.ID,
			Product:  m.product(item.Product),
			Quantity: item.Quantity,
		}
	}
	return CartResponse{
		ID:            c.ID,
		User:          c.UserID,
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		TotalPrice:    c.TotalPrice().StringFixed(models.PriceDecimals),
	}
}
