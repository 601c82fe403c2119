package routes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"grocerystore/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = newValidator()

type Dependencies struct {
	Catalog  CatalogProvider
	Carts    CartProvider
	Tokens   auth.TokenLookup
	MediaURL string
	Log      *zap.Logger
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api")

	catalogHandler := NewCatalogHandler(deps.Catalog, deps.MediaURL, deps.Log)

	// Category routes
	categories := api.Group("/category")
	categories.Get("/", catalogHandler.HandleListCategories)
	categories.Get("/:id", catalogHandler.HandleGetCategory)

	// Product routes
	products := api.Group("/products")
	products.Get("/", catalogHandler.HandleListProducts)
	products.Get("/:id", catalogHandler.HandleGetProduct)

	// Cart routes
	cartHandler := NewCartHandler(deps.Carts, deps.MediaURL, deps.Log)
	cart := api.Group("/cart", auth.Required(deps.Tokens))
	cart.Get("/", cartHandler.HandleGet)
	cart.Post("/add", cartHandler.HandleAdd)
	cart.Put("/update_quantity", cartHandler.HandleUpdateQuantity)
	cart.Delete("/remove", cartHandler.HandleRemove)
	cart.Delete("/clear", cartHandler.HandleClear)
}

// ErrorHandler renders errors that escaped a handler as JSON.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors turns validator errors into field-keyed messages.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		out["non_field_errors"] = err.Error()
		return out
	}

	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required."
		case "min", "gte":
			out[fe.Field()] = fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		case "max", "lte":
			out[fe.Field()] = fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
		}
	}
	return out
}

func validationFailed(c *fiber.Ctx, details map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"details": details,
	})
}

func internalError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
