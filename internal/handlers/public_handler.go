package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// PublicHandler serves the storefront. Nothing here requires a session.
type PublicHandler struct {
	publicService *services.PublicService
}

func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// @Summary Home
// @Description Site configuration, featured vehicles and brands
// @Tags Public
// @Produce json
// @Success 200 {object} services.HomePage
// @Router /public/home [get]
func (h *PublicHandler) Home(c *gin.Context) {
	home, err := h.publicService.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// @Summary Catalog
// @Description Available and reserved vehicles
// @Tags Public
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search"
// @Param brand_id query int false "Brand"
// @Param model_id query int false "Model"
// @Param fuel query string false "Fuel"
// @Param transmission query string false "manual, automatic"
// @Param year_min query int false "Minimum year"
// @Param year_max query int false "Maximum year"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Success 200 {object} map[string]interface{}
// @Router /public/vehicles [get]
func (h *PublicHandler) Catalog(c *gin.Context) {
	query := listQuery(c, vehicleFilters...)
	vehicles, total, err := h.publicService.Catalog(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "pagination": pagination(query, total)})
}

// @Summary Vehicle Detail
// @Tags Public
// @Produce json
// @Param vehicle_id path int true "Vehicle ID"
// @Success 200 {object} services.PublicVehicle
// @Failure 404 {object} map[string]string
// @Router /public/vehicles/{vehicle_id} [get]
func (h *PublicHandler) Vehicle(c *gin.Context) {
	id, ok := paramID(c, "vehicle_id")
	if !ok {
		return
	}
	vehicle, err := h.publicService.Vehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// @Summary About
// @Tags Public
// @Produce json
// @Success 200 {object} models.SiteConfig
// @Router /public/about [get]
func (h *PublicHandler) About(c *gin.Context) {
	site, err := h.publicService.About(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}

// @Summary Contact
// @Description Sends a message to the dealership
// @Tags Public
// @Accept json
// @Produce json
// @Param request body validation.ContactForm true "Message"
// @Success 202 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /public/contact [post]
func (h *PublicHandler) Contact(c *gin.Context) {
	var form validation.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Mensaje inválido")
		return
	}
	if err := h.publicService.Contact(c.Request.Context(), form); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Gracias, te contactaremos pronto"})
}

// @Summary Financing Simulator
// @Description Simulation with the dealership's configured rate
// @Tags Public
// @Produce json
// @Param vehicle_id query int false "Vehicle"
// @Param price query number false "Price when no vehicle is given"
// @Param down_payment query number false "Down payment"
// @Param months query int true "Term in months"
// @Success 200 {object} ledger.Simulation
// @Failure 422 {object} map[string]interface{}
// @Router /public/simulator [get]
func (h *PublicHandler) Simulate(c *gin.Context) {
	var input services.SimulationInput
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c, "Parámetros inválidos")
		return
	}
	simulation, err := h.publicService.Simulate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, simulation)
}

// @Summary Inventory Feed
// @Description Listed vehicles as XML for classified sites
// @Tags Public
// @Produce xml
// @Success 200 {string} string "feed"
// @Router /public/feed.xml [get]
func (h *PublicHandler) Feed(c *gin.Context) {
	feed, err := h.publicService.Feed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", feed)
}
