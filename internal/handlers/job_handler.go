package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobSvc}
}

// @Summary System status
// @Description Worker counters and scheduled jobs, plus whether email, Kafka events and the ad copy API are configured
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.SystemStatus
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}
