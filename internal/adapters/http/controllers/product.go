package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/middleware"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/service"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *service.ProductService
}

// ProductResponse keeps the storefront's field order; demo products carry no
// owner or timestamps.
type ProductResponse struct {
	ID           string      `json:"_id"`
	User         string      `json:"user,omitempty"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Image        string      `json:"image"`
	Description  string      `json:"description"`
	Brand        string      `json:"brand"`
	Category     string      `json:"category"`
	CountInStock int         `json:"countInStock"`
	NumReviews   int         `json:"numReviews"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           string(product.ID),
		User:         string(product.User),
		Name:         product.Name,
		Price:        json.Number(product.Price.String()),
		Image:        product.Image,
		Description:  product.Description,
		Brand:        product.Brand,
		Category:     product.Category,
		CountInStock: product.CountInStock,
		NumReviews:   product.NumReviews,
		CreatedAt:    optionalTime(product.CreatedAt),
		UpdatedAt:    optionalTime(product.UpdatedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// bindOptionalJSON treats an empty body as an empty object.
func bindOptionalJSON(c *gin.Context, target any) error {
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		return serviceerrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

// GetAll godoc
// @Summary     List products
// @Description Returns every product, or the demo catalog when the store is empty
// @Tags        products
// @Produce     json
// @Success     200 {array}  ProductResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/products [get]
func (pc *ProductController) GetAll(c *gin.Context) {
	products, err := pc.productService.GetAll(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = NewProductResponse(product)
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary     Get product by ID
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product ID"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/products/{id} [get]
func (pc *ProductController) GetByID(c *gin.Context) {
	product, err := pc.productService.GetByID(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// CreateProduct godoc
// @Summary     Create a sample product
// @Description Creates a placeholder product owned by the admin; the body is ignored
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} ProductResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /api/products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	product, err := pc.productService.CreateSample(c.Request.Context(), caller.ID)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewProductResponse(product))
}

// UpdateProduct godoc
// @Summary     Replace a product
// @Description Overwrites every editable field; omitted fields are cleared
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                   true "Product ID"
// @Param       request body     dto.UpdateProductRequest true "Product fields"
// @Success     200     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     404     {object} handlers.ErrorResponse
// @Router      /api/products/{id} [put]
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var request dto.UpdateProductRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		handlers.HandleError(c, err)
		return
	}
	product, err := pc.productService.Update(c.Request.Context(), domain.ID(c.Param("id")), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// PatchProduct godoc
// @Summary     Partially update a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                  true "Product ID"
// @Param       request body     dto.PatchProductRequest true "Fields to change"
// @Success     200     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     404     {object} handlers.ErrorResponse
// @Router      /api/products/{id} [patch]
func (pc *ProductController) PatchProduct(c *gin.Context) {
	var request dto.PatchProductRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		handlers.HandleError(c, err)
		return
	}
	product, err := pc.productService.Patch(c.Request.Context(), domain.ID(c.Param("id")), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}
