package routes

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"grocerystore/auth"
	"grocerystore/cart"
	"grocerystore/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CartProvider interface {
	GetOrCreate(ctx context.Context, who models.Identity) (*models.Cart, error)
	Load(ctx context.Context, who models.Identity) (*models.Cart, error)
	AddItem(ctx context.Context, c *models.Cart, productID uint, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, c *models.Cart, productID uint, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, c *models.Cart, productID uint) error
	Clear(ctx context.Context, c *models.Cart) error
}

// CartItemRequest is the body of add and update_quantity. Bounds and product
// existence are checked by the cart service so all field errors come back together.
type CartItemRequest struct {
	ProductID *ProductID `json:"product_id" form:"product_id" validate:"required"`
	Quantity  *int       `json:"quantity" form:"quantity" validate:"required"`
}

type RemoveRequest struct {
	ProductID *ProductID `json:"product_id" form:"product_id"`
}

// ProductID accepts a JSON number or a numeric string.
type ProductID uint

func (id *ProductID) UnmarshalJSON(data []byte) error {
	return id.UnmarshalText(bytes.Trim(data, `"`))
}

func (id *ProductID) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return err
	}
	*id = ProductID(v)
	return nil
}

type CartHandler struct {
	carts CartProvider
	out   mapper
	log   *zap.Logger
}

func NewCartHandler(carts CartProvider, mediaURL string, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts: carts,
		out:   mapper{mediaURL: mediaURL},
		log:   log,
	}
}

// GET /cart
func (h *CartHandler) HandleGet(c *fiber.Ctx) error {
	who, ok := auth.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	userCart, err := h.carts.Load(c.UserContext(), who)
	if err != nil {
		return internalError(c, h.log, "Failed to fetch cart", err)
	}

	return c.JSON(h.out.cart(userCart))
}

// POST /cart/add
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req CartItemRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	userCart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	if _, err := h.carts.AddItem(c.UserContext(), userCart, uint(*req.ProductID), *req.Quantity); err != nil {
		return h.renderError(c, err, "Failed to add product to cart")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": "Product added to cart.",
	})
}

// PUT /cart/update_quantity
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req CartItemRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	userCart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	if _, err := h.carts.SetQuantity(c.UserContext(), userCart, uint(*req.ProductID), *req.Quantity); err != nil {
		return h.renderError(c, err, "Failed to update product quantity")
	}

	return c.JSON(fiber.Map{
		"success": "Product quantity updated.",
	})
}

// DELETE /cart/remove
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	var req RemoveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to parse request body",
			})
		}
	}
	if req.ProductID == nil || *req.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product ID is required.",
		})
	}

	userCart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	if err := h.carts.RemoveItem(c.UserContext(), userCart, uint(*req.ProductID)); err != nil {
		return h.renderError(c, err, "Failed to remove product from cart")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /cart/clear
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	userCart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	if err := h.carts.Clear(c.UserContext(), userCart); err != nil {
		return h.renderError(c, err, "Failed to clear cart")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// bind parses and validates the body. When ok is false the 400 response has
// already been written and err is what the handler should return.
func (h *CartHandler) bind(c *fiber.Ctx, req *CartItemRequest) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return false, validationFailed(c, fieldErrors(err))
	}
	return true, nil
}

func (h *CartHandler) cartFor(c *fiber.Ctx) (*models.Cart, error) {
	who, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}

	userCart, err := h.carts.GetOrCreate(c.UserContext(), who)
	if err != nil {
		h.log.Error("Failed to fetch cart", zap.Uint("user_id", who.UserID), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch cart")
	}
	return userCart, nil
}

func (h *CartHandler) renderError(c *fiber.Ctx, err error, fallback string) error {
	var vErr *cart.ValidationError
	switch {
	case errors.As(err, &vErr):
		return validationFailed(c, vErr.Fields)
	case errors.Is(err, cart.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found in cart.",
		})
	case errors.Is(err, cart.ErrMissingProductID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product ID is required.",
		})
	case errors.Is(err, cart.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cart is already empty.",
		})
	}
	return internalError(c, h.log, fallback, err)
}
