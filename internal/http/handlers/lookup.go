package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mavedb-backend/internal/http/response"
	"github.com/yungbote/mavedb-backend/internal/services"
)

type LookupHandler struct {
	lookupService services.LookupService
}

func NewLookupHandler(lookupService services.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// GET /licenses
func (h *LookupHandler) ListLicenses(c *gin.Context) {
	out, err := h.lookupService.Licenses(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /licenses/:id
func (h *LookupHandler) GetLicense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.lookupService.License(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /reference-genomes
func (h *LookupHandler) ListReferenceGenomes(c *gin.Context) {
	out, err := h.lookupService.ReferenceGenomes(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /reference-genomes/:id
func (h *LookupHandler) GetReferenceGenome(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.lookupService.ReferenceGenome(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /keywords
func (h *LookupHandler) ListKeywords(c *gin.Context) {
	response.RespondOK(c, h.lookupService.Keywords(c.Request.Context()))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("invalid id"))
		return 0, false
	}
	return id, true
}
