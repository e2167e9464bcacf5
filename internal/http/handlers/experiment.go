package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mavedb-backend/internal/http/response"
	"github.com/yungbote/mavedb-backend/internal/services"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

type ExperimentHandler struct {
	experimentService services.ExperimentService
}

func NewExperimentHandler(experimentService services.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experimentService: experimentService}
}

// GET /experiments
func (h *ExperimentHandler) ListExperiments(c *gin.Context) {
	out, err := h.experimentService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /experiments/:urn
func (h *ExperimentHandler) GetExperiment(c *gin.Context) {
	out, err := h.experimentService.Get(c.Request.Context(), c.Param("urn"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /experiments/:urn/score-sets
func (h *ExperimentHandler) ListExperimentScoreSets(c *gin.Context) {
	out, err := h.experimentService.ListScoreSets(c.Request.Context(), c.Param("urn"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /experiments
func (h *ExperimentHandler) CreateExperiment(c *gin.Context) {
	var req viewmodel.ExperimentCreate
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.experimentService.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /experiments/:urn
func (h *ExperimentHandler) UpdateExperiment(c *gin.Context) {
	var req viewmodel.ExperimentUpdate
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.experimentService.Update(c.Request.Context(), c.Param("urn"), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /experiment-sets/:urn
func (h *ExperimentHandler) GetExperimentSet(c *gin.Context) {
	out, err := h.experimentService.GetExperimentSet(c.Request.Context(), c.Param("urn"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
