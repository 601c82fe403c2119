package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"grocerystore/catalog"
	"grocerystore/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock Catalog ---

type mockCatalog struct {
	categories []models.Category
	products   []models.Product
	err        error

	lastPage catalog.Page
}

func (m *mockCatalog) ListCategories(ctx context.Context, page catalog.Page) ([]models.Category, int64, error) {
	m.lastPage = page
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.categories, int64(len(m.categories)), nil
}

func (m *mockCatalog) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, catalog.ErrCategoryNotFound
}

func (m *mockCatalog) ListProducts(ctx context.Context, page catalog.Page) ([]models.Product, int64, error) {
	m.lastPage = page
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.products, int64(len(m.products)), nil
}

func (m *mockCatalog) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

// --- Helpers ---

func newCatalogApp(repo CatalogProvider) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	h := NewCatalogHandler(repo, "/media/", zap.NewNop())
	app.Get("/category", h.HandleListCategories)
	app.Get("/category/:id", h.HandleGetCategory)
	app.Get("/products", h.HandleListProducts)
	app.Get("/products/:id", h.HandleGetProduct)
	return app
}

func sampleCatalog() *mockCatalog {
	fruit := models.Category{ID: 1, Name: "Fruit", Slug: "fruit", Image: "categories/fruit.jpg"}
	apples := models.Subcategory{ID: 3, Name: "Apples", Slug: "apples", CategoryID: 1}
	fruit.Subcategories = []models.Subcategory{apples}

	return &mockCatalog{
		categories: []models.Category{fruit},
		products: []models.Product{{
			ID:            7,
			Name:          "Gala",
			Slug:          "gala",
			CategoryID:    1,
			Category:      models.Category{ID: 1, Name: "Fruit", Slug: "fruit"},
			SubcategoryID: 3,
			Subcategory:   apples,
			ImageSmall:    "products/small/gala_small.jpg",
			Price:         decimal.RequireFromString("3.5"),
		}},
	}
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// --- Tests ---

func TestHandleListCategories(t *testing.T) {
	repo := sampleCatalog()
	app := newCatalogApp(repo)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/category?limit=5&skip=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Total-Count"))
	assert.Equal(t, catalog.Page{Skip: 2, Limit: 5}, repo.lastPage)

	var got []CategoryResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "fruit", got[0].Slug)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, "/media/categories/fruit.jpg", *got[0].Image)
	require.Len(t, got[0].Subcategories, 1)
	assert.Equal(t, "apples", got[0].Subcategories[0].Slug)
	assert.Nil(t, got[0].Subcategories[0].Image)
}

func TestHandleListEmptyIsArray(t *testing.T) {
	app := newCatalogApp(&mockCatalog{})

	_, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.JSONEq(t, `[]`, string(body))

	_, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/category", nil))
	assert.JSONEq(t, `[]`, string(body))
}

func TestHandleListPagingErrors(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		message string
	}{
		{"negative limit", "/products?limit=-1", "Invalid limit parameter"},
		{"garbage limit", "/category?limit=abc", "Invalid limit parameter"},
		{"negative skip", "/products?skip=-3", "Invalid skip parameter"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newCatalogApp(sampleCatalog())
			resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, tc.url, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tc.message+`"}`, string(body))
		})
	}
}

func TestHandleGetCategory(t *testing.T) {
	testCases := []struct {
		name       string
		url        string
		repo       *mockCatalog
		wantStatus int
		wantBody   string
	}{
		{"found", "/category/1", sampleCatalog(), http.StatusOK, ""},
		{"missing", "/category/99", sampleCatalog(), http.StatusNotFound, `{"error":"Category not found"}`},
		{"non numeric", "/category/fruit", sampleCatalog(), http.StatusNotFound, `{"error":"Category not found"}`},
		{"zero", "/category/0", sampleCatalog(), http.StatusNotFound, `{"error":"Category not found"}`},
		{"store failure", "/category/1", &mockCatalog{err: errors.New("db down")}, http.StatusInternalServerError, `{"error":"Failed to get category"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newCatalogApp(tc.repo)
			resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, tc.url, nil))
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, string(body))
			}
		})
	}
}

func TestHandleGetProduct(t *testing.T) {
	app := newCatalogApp(sampleCatalog())

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/products/7", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"id": 7,
		"name": "Gala",
		"slug": "gala",
		"image_small": "/media/products/small/gala_small.jpg",
		"image_medium": null,
		"image_large": null,
		"category": {"id": 1, "name": "Fruit", "slug": "fruit", "image": null},
		"subcategory": {"id": 3, "name": "Apples", "slug": "apples", "image": null},
		"price": "3.50"
	}`, string(body))

	resp, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/products/8", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Product not found"}`, string(body))
}

func TestHandleListProductsFailure(t *testing.T) {
	app := newCatalogApp(&mockCatalog{err: errors.New("db down")})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to get products"}`, string(body))
}
