package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mavedb-backend/internal/http/response"
	"github.com/yungbote/mavedb-backend/internal/services"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

type ScoreSetHandler struct {
	scoreSetService services.ScoreSetService
}

func NewScoreSetHandler(scoreSetService services.ScoreSetService) *ScoreSetHandler {
	return &ScoreSetHandler{scoreSetService: scoreSetService}
}

// GET /score-sets
func (h *ScoreSetHandler) ListScoreSets(c *gin.Context) {
	out, err := h.scoreSetService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /score-sets/:urn?includeVariants=true
func (h *ScoreSetHandler) GetScoreSet(c *gin.Context) {
	includeVariants, _ := strconv.ParseBool(c.Query("includeVariants"))
	out, err := h.scoreSetService.Get(c.Request.Context(), c.Param("urn"), services.ScoreSetGetOptions{
		IncludeVariants: includeVariants,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /score-sets
func (h *ScoreSetHandler) CreateScoreSet(c *gin.Context) {
	var req viewmodel.ScoreSetCreate
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.scoreSetService.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /score-sets/:urn
func (h *ScoreSetHandler) UpdateScoreSet(c *gin.Context) {
	var req viewmodel.ScoreSetUpdate
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.scoreSetService.Update(c.Request.Context(), c.Param("urn"), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /score-sets/:urn/variants
func (h *ScoreSetHandler) UploadVariants(c *gin.Context) {
	var req viewmodel.VariantUpload
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.scoreSetService.UploadVariants(c.Request.Context(), c.Param("urn"), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /score-sets/:urn/publish
func (h *ScoreSetHandler) PublishScoreSet(c *gin.Context) {
	out, err := h.scoreSetService.Publish(c.Request.Context(), c.Param("urn"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
