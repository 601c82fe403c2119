package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain words", input: "Fresh Fruit", expected: "fresh-fruit"},
		{name: "Punctuation collapsed", input: "Milk & Dairy!", expected: "milk-and-dairy"},
		{name: "Already a slug", input: "bakery", expected: "bakery"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxSlugLength+50)
	assert.Len(t, Slugify(long), MaxSlugLength)
}

func TestCategoryBeforeSaveKeepsExplicitSlug(t *testing.T) {
	c := &Category{Name: "Vegetables", Slug: "veg"}
	assert.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, "veg", c.Slug)

	c = &Category{Name: "Vegetables"}
	assert.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, "vegetables", c.Slug)
}

func TestSubcategoryClean(t *testing.T) {
	assert.ErrorIs(t, (&Subcategory{Name: "Apples"}).Clean(), ErrSubcategoryWithoutCategory)
	assert.NoError(t, (&Subcategory{Name: "Apples", CategoryID: 3}).Clean())
}

func TestProductClean(t *testing.T) {
	testCases := []struct {
		name     string
		product  Product
		sub      *Subcategory
		expected error
	}{
		{
			name:    "Valid product",
			product: Product{CategoryID: 1, Price: decimal.RequireFromString("9.99")},
			sub:     &Subcategory{CategoryID: 1},
		},
		{
			name:     "Subcategory from another category",
			product:  Product{CategoryID: 1, Price: decimal.RequireFromString("9.99")},
			sub:      &Subcategory{CategoryID: 2},
			expected: ErrSubcategoryMismatch,
		},
		{
			name:     "Zero price",
			product:  Product{CategoryID: 1, Price: decimal.Zero},
			sub:      &Subcategory{CategoryID: 1},
			expected: ErrNonPositivePrice,
		},
		{
			name:     "Negative price",
			product:  Product{CategoryID: 1, Price: decimal.RequireFromString("-1")},
			sub:      &Subcategory{CategoryID: 1},
			expected: ErrNonPositivePrice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Clean(tc.sub)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestProductBeforeSaveDefaults(t *testing.T) {
	p := &Product{Name: "Green Apple"}
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "green-apple", p.Slug)
	assert.Equal(t, DefaultProductImage, p.Image)
	assert.True(t, p.HasDefaultImage())
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Quantity: 3, Product: Product{Price: decimal.RequireFromString("1.10")}},
		{Quantity: 2, Product: Product{Price: decimal.RequireFromString("100.00")}},
	}}

	assert.Equal(t, int64(5), cart.TotalQuantity())
	assert.True(t, decimal.RequireFromString("203.30").Equal(cart.TotalPrice()), cart.TotalPrice().String())
}

func TestEmptyCartTotals(t *testing.T) {
	var cart Cart
	assert.Equal(t, int64(0), cart.TotalQuantity())
	assert.True(t, cart.TotalPrice().IsZero())
}
