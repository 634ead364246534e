package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/internal/dto"
	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/service"
	"incident-intelligence-backend/internal/store"
)

type DiagnosisController struct {
	diagnosisService service.DiagnosisService
}

func NewDiagnosisController(diagnosisService service.DiagnosisService) *DiagnosisController {
	return &DiagnosisController{
		diagnosisService: diagnosisService,
	}
}

func RegisterDiagnosisRoutes(router *gin.Engine, controller *DiagnosisController) {
	router.GET("/", controller.HandleHealthCheck)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/diagnose", controller.HandleDiagnose)
		v1.GET("/diagnoses", controller.HandleRecentDiagnoses)
		v1.GET("/diagnoses/:request_id", controller.HandleGetDiagnosis)
		v1.GET("/tools", controller.HandleListTools)
	}
}

// HandleHealthCheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func (c *DiagnosisController) HandleHealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleDiagnose godoc
// @Summary      Diagnose a production incident
// @Description  Takes a natural-language question about an incident, lets the language model gather logs and metrics through its tools, and returns the synthesized analysis together with the tool-call trace.
// @Tags         diagnosis
// @Accept       json
// @Produce      json
// @Param        request body dto.DiagnoseRequest true "Incident question, optional focus service and time range"
// @Success      200 {object} dto.DiagnosisResult
// @Failure      400 {object} model.Response "Invalid request body or parameters"
// @Failure      500 {object} model.Response "Model consultation failed"
// @Router       /api/v1/diagnose [post]
func (c *DiagnosisController) HandleDiagnose(ctx *gin.Context) {
	var req dto.DiagnoseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid diagnose request body")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	log.Info().Str("query", req.Query).Msg("Diagnosis request received")
	result, err := c.diagnosisService.Diagnose(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("query", req.Query).Msg("Error diagnosing incident")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleGetDiagnosis godoc
// @Summary      Retrieve a past diagnosis by request id
// @Tags         diagnosis
// @Produce      json
// @Param        request_id path string true "Request id returned by the diagnose endpoint"
// @Success      200 {object} dto.DiagnosisResult
// @Failure      404 {object} model.Response "No diagnosis with that request id"
// @Router       /api/v1/diagnoses/{request_id} [get]
func (c *DiagnosisController) HandleGetDiagnosis(ctx *gin.Context) {
	requestID := ctx.Param("request_id")
	result, err := c.diagnosisService.GetDiagnosis(ctx.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, store.ErrDiagnosisNotFound) {
			ctx.JSON(http.StatusNotFound, model.NewResponse("Diagnosis not found: "+requestID, nil))
			return
		}
		log.Error().Err(err).Str("request_id", requestID).Msg("Error fetching diagnosis")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// HandleRecentDiagnoses godoc
// @Summary      List recent diagnoses, newest first
// @Tags         diagnosis
// @Produce      json
// @Param        limit query int false "Maximum number of diagnoses to return" default(20)
// @Success      200 {array} dto.DiagnosisResult
// @Router       /api/v1/diagnoses [get]
func (c *DiagnosisController) HandleRecentDiagnoses(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid limit parameter", nil))
		return
	}

	results, err := c.diagnosisService.RecentDiagnoses(ctx.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Error listing diagnoses")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
		return
	}
	if results == nil {
		results = []*dto.DiagnosisResult{}
	}
	ctx.JSON(http.StatusOK, results)
}

// HandleListTools godoc
// @Summary      List available diagnosis tools
// @Tags         diagnosis
// @Produce      json
// @Success      200 {object} dto.ToolListResponse
// @Router       /api/v1/tools [get]
func (c *DiagnosisController) HandleListTools(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToolListResponse{Tools: c.diagnosisService.ListTools()})
}
