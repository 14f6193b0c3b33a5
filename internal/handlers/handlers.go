package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Catalog      *CatalogHandler
	Vehicle      *VehicleHandler
	Customer     *CustomerHandler
	Sale         *SaleHandler
	Payment      *PaymentHandler
	Setting      *SettingHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Console      *ConsoleHandler
	Public       *PublicHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, maxUploadBytes int64) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Catalog:      NewCatalogHandler(svcs.Catalog),
		Vehicle:      NewVehicleHandler(svcs.Vehicle, maxUploadBytes),
		Customer:     NewCustomerHandler(svcs.Customer),
		Sale:         NewSaleHandler(svcs.Sale, svcs.Document),
		Payment:      NewPaymentHandler(svcs.Payment),
		Setting:      NewSettingHandler(svcs.Setting, maxUploadBytes),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Console:      NewConsoleHandler(svcs.Dashboard, svcs.Simulator, svcs.AdCopy, svcs.Export),
		Public:       NewPublicHandler(svcs.Public),
		Job:          NewJobHandler(svcs.Job),
	}
}

const genericError = "Ocurrió un error inesperado, intenta de nuevo en unos minutos"

// respondError maps service errors to HTTP responses. Validation errors keep
// their field messages so the form can show them next to each input.
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Revisa los campos marcados", "errors": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrVehicleNotAvailable),
		errors.Is(err, services.ErrAlreadyPaidOff),
		errors.Is(err, services.ErrSaleCanceled):
		c.JSON(http.StatusConflict, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrNotPromissory),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidImage),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrEmailDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": capitalize(err.Error())})
	default:
		logger.Error("Unhandled request error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// badRequest answers a malformed body or parameter
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// paramID parses a numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Identificador inválido")
		return 0, false
	}
	return uint(id), true
}

// listQuery reads pagination, search, sorting and the allowed filters.
func listQuery(c *gin.Context, filters ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}
	query.Search = strings.TrimSpace(c.Query("search_term"))
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	for _, f := range filters {
		if v := strings.TrimSpace(c.Query(f)); v != "" {
			query.Filters[f] = v
		}
	}
	return query
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}

// sendDocument streams a generated file as a download
func sendDocument(c *gin.Context, doc *services.Document, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, contentType, doc.Content)
}
