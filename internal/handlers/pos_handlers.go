package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/services"
)

// POSHandler serves point-of-sale carts and checkout.
type POSHandler struct {
	posService services.POSService
}

// NewPOSHandler creates a new POSHandler.
func NewPOSHandler(ps services.POSService) *POSHandler {
	return &POSHandler{posService: ps}
}

func (h *POSHandler) CreateCart(c *gin.Context) {
	cart, err := h.posService.CreateCart(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "create cart")
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *POSHandler) GetCart(c *gin.Context) {
	cart, err := h.posService.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "fetch cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties a cart but keeps the session.
func (h *POSHandler) ClearCart(c *gin.Context) {
	cart, err := h.posService.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "clear cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *POSHandler) DeleteCart(c *gin.Context) {
	if err := h.posService.DeleteCart(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete cart")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem adds a product to the cart, or bumps its quantity when already present.
func (h *POSHandler) AddItem(c *gin.Context) {
	var req services.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	cart, err := h.posService.AddToCart(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "add item to cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItemQuantity sets a line quantity; zero or less removes the line.
func (h *POSHandler) UpdateItemQuantity(c *gin.Context) {
	var req services.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	cart, err := h.posService.UpdateCartQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		respondServiceError(c, err, "update cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *POSHandler) RemoveItem(c *gin.Context) {
	cart, err := h.posService.RemoveFromCart(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err, "remove cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Checkout turns the cart into an invoice and decrements stock.
func (h *POSHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	result, err := h.posService.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "checkout")
		return
	}
	c.JSON(http.StatusCreated, result)
}
