package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// ProductHandler serves the product catalogue and stock levels.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// GetProducts lists products, optionally filtered by ?q=, ?category= and ?stock=low|out.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid query parameters", err.Error()))
		return
	}
	products, err := h.productService.Search(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns one product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "fetch product")
		return
	}
	if product == nil {
		respondNotFound(c, "Product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalogue.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges a partial update into a product.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock applies a signed stock delta and records the movement.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	product, err := h.productService.UpdateStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "adjust stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetLowStockProducts lists products at or below their minimum stock.
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch low stock products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetCategories lists the distinct product categories.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.GetCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
