package routes

import (
	"context"
	"errors"
	"strconv"

	"grocerystore/catalog"
	"grocerystore/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CatalogProvider interface {
	ListCategories(ctx context.Context, page catalog.Page) ([]models.Category, int64, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	ListProducts(ctx context.Context, page catalog.Page) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type CatalogHandler struct {
	repo CatalogProvider
	out  mapper
	log  *zap.Logger
}

func NewCatalogHandler(repo CatalogProvider, mediaURL string, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		repo: repo,
		out:  mapper{mediaURL: mediaURL},
		log:  log,
	}
}

// GET /category
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	categories, total, err := h.repo.ListCategories(c.UserContext(), page)
	if err != nil {
		return internalError(c, h.log, "Failed to get categories", err)
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = h.out.category(category)
	}

	c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(response)
}

// GET /category/:id
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	category, err := h.repo.GetCategory(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return internalError(c, h.log, "Failed to get category", err)
	}

	return c.JSON(h.out.category(*category))
}

// GET /products
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	products, total, err := h.repo.ListProducts(c.UserContext(), page)
	if err != nil {
		return internalError(c, h.log, "Failed to get products", err)
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = h.out.product(product)
	}

	c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(response)
}

// GET /products/:id
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	product, err := h.repo.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return internalError(c, h.log, "Failed to get product", err)
	}

	return c.JSON(h.out.product(*product))
}

func pathID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePage reads the optional skip and limit query parameters.
func parsePage(c *fiber.Ctx) (catalog.Page, error) {
	var page catalog.Page

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return page, fiber.NewError(fiber.StatusBadRequest, "Invalid limit parameter")
		}
		page.Limit = limit
	}

	if skipStr := c.Query("skip"); skipStr != "" {
		skip, err := strconv.Atoi(skipStr)
		if err != nil || skip < 0 {
			return page, fiber.NewError(fiber.StatusBadRequest, "Invalid skip parameter")
		}
		page.Skip = skip
	}

	return page, nil
}
