package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
)

var vehicleFilters = []string{
	"status", "brand_id", "model_id", "fuel", "transmission", "featured",
	"year_min", "year_max", "price_min", "price_max",
}

type VehicleHandler struct {
	vehicleService *services.VehicleService
	maxUpload      int64
}

func NewVehicleHandler(vehicleService *services.VehicleService, maxUpload int64) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService, maxUpload: maxUpload}
}

// @Summary List Vehicles
// @Description Inventory list with filters
// @Tags Vehicles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Brand, model, version, plate or color"
// @Param status query string false "available, reserved, sold"
// @Param brand_id query int false "Brand"
// @Param model_id query int false "Model"
// @Param fuel query string false "Fuel"
// @Param transmission query string false "manual, automatic"
// @Param featured query bool false "Only featured"
// @Param year_min query int false "Minimum year"
// @Param year_max query int false "Maximum year"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Param sort_by query string false "price, year, mileage_km, created_at"
// @Param sort_dir query string false "asc, desc"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles [get]
func (h *VehicleHandler) Index(c *gin.Context) {
	query := listQuery(c, vehicleFilters...)
	vehicles, total, err := h.vehicleService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicleResponses(vehicles), "pagination": pagination(query, total)})
}

// @Summary Get Vehicle
// @Tags Vehicles
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Success 200 {object} models.VehicleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{vehicle_id} [get]
func (h *VehicleHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	vehicle, err := h.vehicleService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle.ToResponse()})
}

// @Summary Create Vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param request body validation.VehicleForm true "Vehicle Data"
// @Success 201 {object} models.VehicleResponse
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	var form validation.VehicleForm
	if err := BindNestedOrFlat(c, "vehicle", &form); err != nil {
		badRequest(c, "Datos del vehículo inválidos")
		return
	}
	vehicle, err := h.vehicleService.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle.ToResponse(), "message": "Vehículo creado exitosamente"})
}

// @Summary Update Vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Param request body validation.VehicleForm true "Vehicle Data"
// @Success 200 {object} models.VehicleResponse
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{vehicle_id} [put]
func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	var form validation.VehicleForm
	if err := BindNestedOrFlat(c, "vehicle", &form); err != nil {
		badRequest(c, "Datos del vehículo inválidos")
		return
	}
	vehicle, err := h.vehicleService.Update(c.Request.Context(), id, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle.ToResponse(), "message": "Vehículo actualizado exitosamente"})
}

// @Summary Delete Vehicle
// @Description Soft delete; sold vehicles cannot be deleted
// @Tags Vehicles
// @Param vehicle_id path int true "Vehicle ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{vehicle_id} [delete]
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	if err := h.vehicleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehículo eliminado"})
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Change Vehicle Status
// @Description available ↔ reserved; sold is only reached through a sale
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Param request body StatusRequest true "Target status"
// @Success 200 {object} models.VehicleResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/status [patch]
func (h *VehicleHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Estado requerido")
		return
	}
	vehicle, err := h.vehicleService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle.ToResponse()})
}

// @Summary Upload Vehicle Image
// @Tags Vehicles
// @Accept multipart/form-data
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Param image formData file true "Image (JPG, PNG or WEBP)"
// @Success 201 {object} models.VehicleResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/images [post]
func (h *VehicleHandler) AddImage(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	data, contentType, ok := readImage(c, "image", h.maxUpload)
	if !ok {
		return
	}
	vehicle, err := h.vehicleService.AddImage(c.Request.Context(), id, data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle.ToResponse()})
}

type ImageKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// @Summary Delete Vehicle Image
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Param request body ImageKeyRequest true "Image key"
// @Success 200 {object} models.VehicleResponse
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/images [delete]
func (h *VehicleHandler) RemoveImage(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	var req ImageKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Imagen requerida")
		return
	}
	vehicle, err := h.vehicleService.RemoveImage(c.Request.Context(), id, req.Key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle.ToResponse()})
}

type ReorderImagesRequest struct {
	Keys []string `json:"keys" binding:"required"`
}

// @Summary Reorder Vehicle Images
// @Description The first image becomes the cover and thumbnail
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Param request body ReorderImagesRequest true "Image keys in display order"
// @Success 200 {object} models.VehicleResponse
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/images/order [put]
func (h *VehicleHandler) ReorderImages(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	var req ReorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Lista de imágenes requerida")
		return
	}
	vehicle, err := h.vehicleService.ReorderImages(c.Request.Context(), id, req.Keys)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle.ToResponse()})
}

func vehicleResponses(vehicles []models.Vehicle) []models.VehicleResponse {
	responses := make([]models.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, v.ToResponse())
	}
	return responses
}
