package handlers

import (
	"strconv"
	"strings"

	"product-api/internal/mapper"
	"product-api/internal/models"
	"product-api/internal/services"
	"product-api/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Message sent when the id in the URL and the id in a PUT body differ.
const idMismatchMessage = "The route id does not match the id in the request body."

// ProductHandler handles HTTP requests for products. Errors returned by the
// service are passed up unchanged to the error handling middleware.
type ProductHandler struct {
	service  *services.ProductService
	validate *validation.Validator
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		service:  service,
		validate: validation.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/Product")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products. An empty store yields an empty array.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapper.ToDTOs(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.JSON(mapper.ToDTO(*product))
}

// HandleCreateProduct creates a new product and points Location at it.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var productDTO models.ProductDTO
	if err := c.BodyParser(&productDTO); err != nil {
		h.logger.Debug("Error parsing create product body", zap.Error(err))
		return invalidBody(c, err)
	}
	if errs := h.validate.Struct(productDTO); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	product := mapper.ToEntity(productDTO)
	product.ID = 0 // assigned by storage

	created, err := h.service.CreateProduct(c.UserContext(), &product)
	if err != nil {
		return err
	}

	createdDTO := mapper.ToDTO(*created)
	c.Location(productURL(c, createdDTO.ID))
	return c.Status(fiber.StatusCreated).JSON(createdDTO)
}

// HandleUpdateProduct updates name, description, category and price of an
// existing product. The updated product is not echoed back.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}

	var productDTO models.ProductDTO
	if err := c.BodyParser(&productDTO); err != nil {
		h.logger.Debug("Error parsing update product body", zap.Int("id", id), zap.Error(err))
		return invalidBody(c, err)
	}
	if errs := h.validate.Struct(productDTO); len(errs) > 0 {
		return validationFailed(c, errs)
	}
	if productDTO.ID != id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": idMismatchMessage,
		})
	}

	product := mapper.ToEntity(productDTO)
	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product)
	if err != nil {
		return err
	}
	if updated == nil {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}

	deleted, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// productURL builds the absolute URL of the product with the given id from the
// path of the current collection route.
func productURL(c *fiber.Ctx, id int) string {
	collection := strings.TrimSuffix(c.Route().Path, "/")
	return c.BaseURL() + collection + "/" + strconv.Itoa(id)
}

func invalidID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid product ID",
		"error":   err.Error(),
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, errs []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errs,
	})
}
