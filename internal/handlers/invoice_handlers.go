package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// InvoiceHandler serves sales invoices.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// GetInvoices lists invoices, newest first, optionally matching ?q=.
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	var filters models.InvoiceFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid query parameters", err.Error()))
		return
	}
	invoices, err := h.invoiceService.Search(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "fetch invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// GetInvoiceByID returns one invoice.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "fetch invoice")
		return
	}
	if invoice == nil {
		respondNotFound(c, "Invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreateInvoice records an invoice directly, outside the POS cart flow.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create invoice")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice applies an administrative correction.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTodaysRevenue returns the sum of today's invoice totals.
func (h *InvoiceHandler) GetTodaysRevenue(c *gin.Context) {
	revenue, err := h.invoiceService.GetTodaysRevenue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "calculate today's revenue")
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}

// ExportInvoices streams every invoice line as CSV.
func (h *InvoiceHandler) ExportInvoices(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.invoiceService.ExportCSV(c.Request.Context(), &buf); err != nil {
		respondServiceError(c, err, "export invoices")
		return
	}
	filename := fmt.Sprintf("invoices-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
