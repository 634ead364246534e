package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/service"
)

type SimulationController struct {
	simulationService service.SimulationService
}

func NewSimulationController(simulationService service.SimulationService) *SimulationController {
	return &SimulationController{
		simulationService: simulationService,
	}
}

func RegisterSimulationRoutes(router *gin.Engine, controller *SimulationController) {
	router.POST("/simulate/:scenario", controller.HandleSimulate)
}

// HandleSimulate godoc
// @Summary      Inject an incident scenario into the mock log provider
// @Tags         simulation
// @Produce      json
// @Param        scenario path string true "Scenario name" Enums(db-exhaustion, high-latency, memory-leak, multi-issue)
// @Success      200 {object} dto.SimulationResponse
// @Failure      400 {object} model.Response "Unknown scenario"
// @Router       /simulate/{scenario} [post]
func (c *SimulationController) HandleSimulate(ctx *gin.Context) {
	scenario := ctx.Param("scenario")
	resp, err := c.simulationService.Trigger(ctx.Request.Context(), scenario)
	if err != nil {
		log.Warn().Err(err).Str("scenario", scenario).Msg("Simulation request rejected")
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
