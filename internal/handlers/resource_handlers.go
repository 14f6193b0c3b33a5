package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/middleware"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type NameRequest struct {
	Name string `json:"name"`
}

// @Summary List Brands
// @Tags Catalog
// @Produce json
// @Param with_models query bool false "Include the models of each brand"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /brands [get]
func (h *CatalogHandler) Brands(c *gin.Context) {
	brands, err := h.catalogService.ListBrands(c.Request.Context(), c.Query("with_models") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.BrandResponse, 0, len(brands))
	for _, b := range brands {
		responses = append(responses, b.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"brands": responses})
}

// @Summary Create Brand
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body NameRequest true "Brand name"
// @Success 201 {object} models.BrandResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /brands [post]
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Nombre requerido")
		return
	}
	brand, err := h.catalogService.CreateBrand(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"brand": brand.ToResponse()})
}

// @Summary Rename Brand
// @Tags Catalog
// @Accept json
// @Produce json
// @Param brand_id path int true "Brand ID"
// @Param request body NameRequest true "Brand name"
// @Success 200 {object} models.BrandResponse
// @Security BearerAuth
// @Router /brands/{brand_id} [put]
func (h *CatalogHandler) RenameBrand(c *gin.Context) {
	id, ok := paramID(c, "brand_id")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Nombre requerido")
		return
	}
	brand, err := h.catalogService.RenameBrand(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand": brand.ToResponse()})
}

// @Summary Delete Brand
// @Description Refused while vehicles reference the brand
// @Tags Catalog
// @Param brand_id path int true "Brand ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /brands/{brand_id} [delete]
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := paramID(c, "brand_id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteBrand(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marca eliminada"})
}

// @Summary List Models
// @Tags Catalog
// @Produce json
// @Param brand_id path int true "Brand ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /brands/{brand_id}/models [get]
func (h *CatalogHandler) Models(c *gin.Context) {
	brandID, ok := paramID(c, "brand_id")
	if !ok {
		return
	}
	list, err := h.catalogService.ListModels(c.Request.Context(), brandID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.ModelResponse, 0, len(list))
	for _, m := range list {
		responses = append(responses, m.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"models": responses})
}

// @Summary Create Model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param brand_id path int true "Brand ID"
// @Param request body NameRequest true "Model name"
// @Success 201 {object} models.ModelResponse
// @Security BearerAuth
// @Router /brands/{brand_id}/models [post]
func (h *CatalogHandler) CreateModel(c *gin.Context) {
	brandID, ok := paramID(c, "brand_id")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Nombre requerido")
		return
	}
	model, err := h.catalogService.CreateModel(c.Request.Context(), brandID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"model": model.ToResponse()})
}

// @Summary Rename Model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param model_id path int true "Model ID"
// @Param request body NameRequest true "Model name"
// @Success 200 {object} models.ModelResponse
// @Security BearerAuth
// @Router /models/{model_id} [put]
func (h *CatalogHandler) RenameModel(c *gin.Context) {
	id, ok := paramID(c, "model_id")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Nombre requerido")
		return
	}
	model, err := h.catalogService.RenameModel(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model.ToResponse()})
}

// @Summary Delete Model
// @Tags Catalog
// @Param model_id path int true "Model ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /models/{model_id} [delete]
func (h *CatalogHandler) DeleteModel(c *gin.Context) {
	id, ok := paramID(c, "model_id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteModel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Modelo eliminado"})
}

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List Customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name, phone, email or document"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := listQuery(c)
	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.CustomerResponse, 0, len(customers))
	for _, cu := range customers {
		responses = append(responses, cu.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"customers": responses, "pagination": pagination(query, total)})
}

// @Summary Get Customer
// @Tags Customers
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}
	customer, err := h.customerService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse()})
}

// @Summary Create Customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body validation.CustomerForm true "Customer Data"
// @Success 201 {object} models.CustomerResponse
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var form validation.CustomerForm
	if err := BindNestedOrFlat(c, "customer", &form); err != nil {
		badRequest(c, "Datos del cliente inválidos")
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customer.ToResponse(), "message": "Cliente creado exitosamente"})
}

// @Summary Update Customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param request body validation.CustomerForm true "Customer Data"
// @Success 200 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}
	var form validation.CustomerForm
	if err := BindNestedOrFlat(c, "customer", &form); err != nil {
		badRequest(c, "Datos del cliente inválidos")
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse(), "message": "Cliente actualizado exitosamente"})
}

// @Summary Delete Customer
// @Tags Customers
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

// @Summary Customer Sales
// @Tags Customers
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{customer_id}/sales [get]
func (h *CustomerHandler) Sales(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}
	query := listQuery(c)
	sales, total, err := h.customerService.Sales(c.Request.Context(), id, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": saleResponses(sales), "pagination": pagination(query, total)})
}

type SettingHandler struct {
	settingService *services.SettingService
	maxUpload      int64
}

func NewSettingHandler(settingService *services.SettingService, maxUpload int64) *SettingHandler {
	return &SettingHandler{settingService: settingService, maxUpload: maxUpload}
}

// @Summary Get Settings
// @Description Dealership identity, theme and default financing rate
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingHandler) Show(c *gin.Context) {
	setting, err := h.settingService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	site, err := h.settingService.SiteConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting, "site": site})
}

// @Summary Update Settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body validation.SettingForm true "Settings"
// @Success 200 {object} models.Setting
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingHandler) Update(c *gin.Context) {
	var form validation.SettingForm
	if err := BindNestedOrFlat(c, "setting", &form); err != nil {
		badRequest(c, "Datos de configuración inválidos")
		return
	}
	setting, err := h.settingService.Update(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting, "message": "Configuración guardada"})
}

// @Summary Upload Logo or Hero Image
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Param slot path string true "logo or hero"
// @Param image formData file true "Image (JPG, PNG or WEBP)"
// @Success 200 {object} models.Setting
// @Security BearerAuth
// @Router /settings/images/{slot} [post]
func (h *SettingHandler) UploadImage(c *gin.Context) {
	data, contentType, ok := readImage(c, "image", h.maxUpload)
	if !ok {
		return
	}
	setting, err := h.settingService.UploadImage(c.Request.Context(), strings.ToLower(c.Param("slot")), data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Notifications
// @Description Notifications of the authenticated user
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param status query string false "unread to show only unread ones"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)
	query := listQuery(c, "status")

	notifications, total, err := h.notificationService.FindByUser(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"notifications": responses, "unread": unread, "pagination": pagination(query, total)})
}

// @Summary Mark Notification As Read
// @Tags Notifications
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id}/mark_as_read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := paramID(c, "notification_id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificación marcada como leída"})
}

// @Summary Mark All Notifications As Read
// @Tags Notifications
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/mark_all_as_read [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificaciones marcadas como leídas"})
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Tags Audits
// @Produce json
// @Param entity query string false "Vehicle, Sale, Payment, Customer, User, Setting"
// @Param entity_id query int false "Entity ID"
// @Param action query string false "Action"
// @Param user_id query int false "Acting user"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := listQuery(c, "entity", "entity_id", "action", "user_id", "start_date", "end_date")
	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, l.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"audits": responses, "pagination": pagination(query, total)})
}
