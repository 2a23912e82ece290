package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"productstore/internal/errs"
	"productstore/internal/middleware"
	"productstore/internal/models"
	"productstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthTimeout = time.Second

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	validate := validator.New()
	// Report fields by their JSON key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &ProductHandler{
		service:  service,
		validate: validate,
		log:      log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/product")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)

	router.Get("/health", h.HandleHealth)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleUpdateProduct replaces all fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}
	req, err := h.parseRequest(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and responds with the record as it
// was before deletion.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleHealth reports whether the store is reachable.
func (h *ProductHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// validationError carries per-field messages for a body that failed
// presence checks.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.fields)
}

func (e *validationError) Unwrap() error { return errs.ErrBadRequest }

func (h *ProductHandler) parseRequest(c *fiber.Ctx) (models.ProductRequest, error) {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %v: %w", err, errs.ErrBadRequest)
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return req, fmt.Errorf("invalid request body: %v: %w", err, errs.ErrBadRequest)
		}
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return req, &validationError{fields: fields}
	}
	return req, nil
}

// parseID reads the :id path parameter. Anything that is not a non-negative
// integer cannot name a row, so it is reported as not found.
func parseID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("product with ID %s not found: %w", raw, errs.ErrNotFound)
	}
	return uint(id), nil
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	status := errs.StatusCode(err)

	if errs.IsInternal(err) {
		h.log.Error("product request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	body := fiber.Map{
		"message": messageFor(status),
		"error":   err.Error(),
	}
	var ve *validationError
	if errors.As(err, &ve) {
		body["errors"] = ve.fields
	}
	return c.Status(status).JSON(body)
}

func messageFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "Invalid request body"
	case fiber.StatusNotFound:
		return "Product not found"
	case fiber.StatusConflict:
		return "Product name already exists"
	default:
		return "Request failed"
	}
}
