package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/middleware"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
)

var saleFilters = []string{"status", "payment_method", "customer_id", "vehicle_id", "seller_id", "start_date", "end_date"}

type SaleHandler struct {
	saleService     *services.SaleService
	documentService *services.DocumentService
}

func NewSaleHandler(saleService *services.SaleService, documentService *services.DocumentService) *SaleHandler {
	return &SaleHandler{saleService: saleService, documentService: documentService}
}

// @Summary List Sales
// @Tags Sales
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Customer, phone, brand, model or plate"
// @Param status query string false "pending, completed, canceled"
// @Param payment_method query string false "cash, financing, trade_in, promissory"
// @Param customer_id query int false "Customer"
// @Param vehicle_id query int false "Vehicle"
// @Param seller_id query int false "Seller"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) Index(c *gin.Context) {
	query := listQuery(c, saleFilters...)
	sales, total, err := h.saleService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": saleResponses(sales), "pagination": pagination(query, total)})
}

// @Summary Get Sale
// @Tags Sales
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id} [get]
func (h *SaleHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	sale, err := h.saleService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse()})
}

// @Summary Register Sale
// @Description Validates the conditional sale form, optionally creates the customer, records the sale and marks the vehicle sold
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body validation.SaleForm true "Sale form"
// @Success 201 {object} models.SaleResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var form validation.SaleForm
	if err := BindNestedOrFlat(c, "sale", &form); err != nil {
		badRequest(c, "Datos de la venta inválidos")
		return
	}

	var sellerID *uint
	if id := middleware.GetUserID(c); id != 0 {
		sellerID = &id
	}

	sale, err := h.saleService.Create(c.Request.Context(), form, sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sale": sale.ToResponse(), "message": "Venta registrada exitosamente"})
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

// @Summary Update Sale Notes
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Param request body NotesRequest true "Notes"
// @Success 200 {object} models.SaleResponse
// @Security BearerAuth
// @Router /sales/{sale_id}/notes [patch]
func (h *SaleHandler) UpdateNotes(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Notas inválidas")
		return
	}
	sale, err := h.saleService.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse()})
}

// @Summary Complete Sale
// @Tags Sales
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id}/complete [post]
func (h *SaleHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	sale, err := h.saleService.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse(), "message": "Venta completada"})
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// @Summary Cancel Sale
// @Description Cancels the sale and returns the vehicle to the inventory
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Param request body CancelRequest false "Reason"
// @Success 200 {object} models.SaleResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	var req CancelRequest
	// The reason is optional; an empty body is fine.
	_ = c.ShouldBindJSON(&req)

	sale, err := h.saleService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse(), "message": "Venta cancelada"})
}

// @Summary Sale Receipt
// @Description PDF receipt with the payment terms and, for promissory sales, the payments
// @Tags Sales
// @Produce application/pdf
// @Param sale_id path int true "Sale ID"
// @Success 200 {file} file "receipt"
// @Security BearerAuth
// @Router /sales/{sale_id}/receipt [get]
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	doc, err := h.documentService.Receipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc, "application/pdf")
}

// @Summary Promissory Note
// @Description PDF promissory note with the amount written out and the installment schedule
// @Tags Sales
// @Produce application/pdf
// @Param sale_id path int true "Sale ID"
// @Success 200 {file} file "promissory note"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id}/promissory_note [get]
func (h *SaleHandler) PromissoryNote(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	doc, err := h.documentService.PromissoryNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc, "application/pdf")
}

func saleResponses(sales []models.Sale) []models.SaleResponse {
	responses := make([]models.SaleResponse, 0, len(sales))
	for _, s := range sales {
		responses = append(responses, s.ToResponse())
	}
	return responses
}
