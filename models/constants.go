package models

const (
	MaxNameLength = 200
	MaxSlugLength = 200

	PriceDigits   = 10
	PriceDecimals = 2

	MinQuantity = 1
	MaxQuantity = 10_000_000

	// DefaultProductImage is the placeholder stored when no image is uploaded.
	DefaultProductImage = "products/default.jpg"
)
