package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Payment history entries across every promissory sale
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Customer, phone or note"
// @Param sale_id query int false "Sale"
// @Param type query string false "installment, settlement"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQuery(c, "sale_id", "type", "start_date", "end_date")
	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentHistoryResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses, "pagination": pagination(query, total)})
}

// @Summary Receivables
// @Description Outstanding debt of every open promissory sale with overdue counts
// @Tags Payments
// @Produce json
// @Success 200 {object} services.Receivables
// @Security BearerAuth
// @Router /payments/receivables [get]
func (h *PaymentHandler) Receivables(c *gin.Context) {
	receivables, err := h.paymentService.Receivables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receivables)
}

// @Summary Sale Ledger
// @Description Installment plan, derived balances, payments and schedule of a promissory sale
// @Tags Payments
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} services.SaleLedger
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id}/ledger [get]
func (h *PaymentHandler) Ledger(c *gin.Context) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}
	view, err := h.paymentService.Ledger(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Register Installment Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Param request body validation.PaymentForm true "Amount, date and note"
// @Success 201 {object} services.SaleLedger
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales/{sale_id}/payments [post]
func (h *PaymentHandler) Register(c *gin.Context) {
	h.record(c, false)
}

// @Summary Settle Debt
// @Description Registers a settlement; the amount defaults to the remaining debt
// @Tags Payments
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Param request body validation.PaymentForm false "Optional amount, date and note"
// @Success 201 {object} services.SaleLedger
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id}/settle [post]
func (h *PaymentHandler) Settle(c *gin.Context) {
	h.record(c, true)
}

func (h *PaymentHandler) record(c *gin.Context, settlement bool) {
	id, ok := paramID(c, "sale_id")
	if !ok {
		return
	}

	var form validation.PaymentForm
	if err := BindNestedOrFlat(c, "payment", &form); err != nil && !(settlement && errors.Is(err, errEmptyBody)) {
		badRequest(c, "Datos del pago inválidos")
		return
	}

	var (
		view *services.SaleLedger
		err  error
	)
	if settlement {
		view, err = h.paymentService.Settle(c.Request.Context(), id, form)
	} else {
		view, err = h.paymentService.Register(c.Request.Context(), id, form)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Pago registrado"
	if view.Ledger.IsPaidOff {
		message = "Pago registrado. La deuda está saldada"
	}
	c.JSON(http.StatusCreated, gin.H{"ledger": view, "message": message})
}
