package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/services"
)

// ConsoleHandler serves the admin console tools: dashboard, financing
// simulator, ad copy generator and exports.
type ConsoleHandler struct {
	dashboardService *services.DashboardService
	simulatorService *services.SimulatorService
	adCopyService    *services.AdCopyService
	exportService    *services.ExportService
}

func NewConsoleHandler(dashboard *services.DashboardService, simulator *services.SimulatorService, adCopy *services.AdCopyService, export *services.ExportService) *ConsoleHandler {
	return &ConsoleHandler{
		dashboardService: dashboard,
		simulatorService: simulator,
		adCopyService:    adCopy,
		exportService:    export,
	}
}

// @Summary Dashboard
// @Description Inventory counts, monthly sales and revenue, receivables and recent sales
// @Tags Console
// @Produce json
// @Param refresh query bool false "Recompute instead of serving the cached summary"
// @Success 200 {object} models.DashboardSummary
// @Security BearerAuth
// @Router /dashboard [get]
func (h *ConsoleHandler) Dashboard(c *gin.Context) {
	load := h.dashboardService.Summary
	if c.Query("refresh") == "true" {
		load = h.dashboardService.Refresh
	}
	summary, err := load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Financing Simulator
// @Description French amortization for a price or a vehicle; the rate defaults to the configured one
// @Tags Console
// @Accept json
// @Produce json
// @Param request body services.SimulationInput true "Simulation"
// @Success 200 {object} ledger.Simulation
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /simulator [post]
func (h *ConsoleHandler) Simulate(c *gin.Context) {
	var input services.SimulationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Datos de la simulación inválidos")
		return
	}
	simulation, err := h.simulatorService.Simulate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, simulation)
}

// @Summary Generate Ad Copy
// @Description Sales text for a vehicle; falls back to a template when no model is configured
// @Tags Console
// @Accept json
// @Produce json
// @Param request body services.AdCopyRequest true "Vehicle, channel and tone"
// @Success 200 {object} services.AdCopy
// @Security BearerAuth
// @Router /ad_copy [post]
func (h *ConsoleHandler) AdCopy(c *gin.Context) {
	var req services.AdCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Selecciona un vehículo")
		return
	}
	ad, err := h.adCopyService.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

var exportFilters = map[string][]string{
	services.ExportVehicles: vehicleFilters,
	services.ExportSales:    saleFilters,
	services.ExportPayments: {"sale_id", "type", "start_date", "end_date"},
}

// @Summary Export
// @Description Downloads a list with its filters applied
// @Tags Console
// @Produce application/octet-stream
// @Param dataset path string true "vehicles, sales or payments"
// @Param format query string false "csv, xlsx or pdf" default(xlsx)
// @Success 200 {file} file "export"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /exports/{dataset} [get]
func (h *ConsoleHandler) Export(c *gin.Context) {
	dataset := c.Param("dataset")
	filters, ok := exportFilters[dataset]
	if !ok {
		badRequest(c, "Listado desconocido")
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", services.FormatXLSX))

	doc, err := h.exportService.Export(c.Request.Context(), dataset, format, listQuery(c, filters...))
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc, services.ContentTypes[format])
}
