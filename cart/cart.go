// Package cart implements the per-user shopping cart.
//
// Every mutation is a single statement against the store. Merging a re-added
// product relies on the unique (cart_id, product_id) index: the insert turns
// into an increment on conflict, so concurrent adds for the same line never
// produce duplicate rows or lose an increment.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"grocerystore/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrItemNotFound     = errors.New("product not found in cart")
	ErrCartEmpty        = errors.New("cart is already empty")
	ErrMissingProductID = errors.New("product id is required")
)

// ValidationError maps request fields to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// GetOrCreate returns the caller's cart, inserting an empty one on first use.
func (s *Service) GetOrCreate(ctx context.Context, who models.Identity) (*models.Cart, error) {
	cart := models.Cart{UserID: who.UserID}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&cart)
	if res.Error != nil {
		return nil, fmt.Errorf("create cart: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		s.log.Debug("Cart created", zap.Uint("user_id", who.UserID), zap.Uint("cart_id", cart.ID))
		return &cart, nil
	}

	var existing models.Cart
	if err := s.db.WithContext(ctx).Where("user_id = ?", who.UserID).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return &existing, nil
}

// Load returns the caller's cart with items, products and their category and
// subcategory, ready for Cart.TotalQuantity and Cart.TotalPrice.
func (s *Service) Load(ctx context.Context, who models.Identity) (*models.Cart, error) {
	cart, err := s.GetOrCreate(ctx, who)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Items.Product.Subcategory").
		First(cart, cart.ID).Error; err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	return cart, nil
}

// AddItem adds quantity of a product, merging into an existing line.
func (s *Service) AddItem(ctx context.Context, cart *models.Cart, productID uint, quantity int) (*models.CartItem, error) {
	if err := s.validate(ctx, productID, quantity); err != nil {
		return nil, err
	}

	item := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": time.Now(),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("cart_items.quantity + ? <= ?", quantity, models.MaxQuantity),
			}},
		}).
		Omit(clause.Associations).
		Create(&item)
	if res.Error != nil {
		return nil, fmt.Errorf("add cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fieldError("quantity",
			fmt.Sprintf("Total quantity in cart cannot exceed %d.", models.MaxQuantity))
	}

	var stored models.CartItem
	if err := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("fetch cart item: %w", err)
	}

	s.log.Debug("Cart item added",
		zap.Uint("cart_id", cart.ID),
		zap.Uint("product_id", productID),
		zap.Int("added", quantity),
		zap.Int("quantity", stored.Quantity),
	)
	return &stored, nil
}

// SetQuantity replaces the quantity of an existing line.
func (s *Service) SetQuantity(ctx context.Context, cart *models.Cart, productID uint, quantity int) (*models.CartItem, error) {
	if err := s.validate(ctx, productID, quantity); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	var stored models.CartItem
	if err := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("fetch cart item: %w", err)
	}
	return &stored, nil
}

// RemoveItem deletes a single line. A zero productID means none was given.
func (s *Service) RemoveItem(ctx context.Context, cart *models.Cart, productID uint) error {
	if productID == 0 {
		return ErrMissingProductID
	}

	res := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Clear deletes every line of the cart.
func (s *Service) Clear(ctx context.Context, cart *models.Cart) error {
	res := s.db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("clear cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartEmpty
	}
	s.log.Debug("Cart cleared", zap.Uint("cart_id", cart.ID), zap.Int64("items", res.RowsAffected))
	return nil
}

func (s *Service) validate(ctx context.Context, productID uint, quantity int) error {
	fields := make(map[string]string)

	switch {
	case quantity < models.MinQuantity:
		fields["quantity"] = fmt.Sprintf("Ensure this value is greater than or equal to %d.", models.MinQuantity)
	case quantity > models.MaxQuantity:
		fields["quantity"] = fmt.Sprintf("Ensure this value is less than or equal to %d.", models.MaxQuantity)
	}

	if productID == 0 {
		fields["product_id"] = "This field is required."
	} else {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if count == 0 {
			fields["product_id"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", productID)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
