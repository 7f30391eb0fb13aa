package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// AnalyzeInventory handles POST /inventory-analysis
func (h *InventoryHandler) AnalyzeInventory(c *gin.Context) {
	var req domain.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.ClassifyInventory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateEOQ handles /calculate-eoq; omitted fields use the configured defaults
func (h *InventoryHandler) CalculateEOQ(c *gin.Context) {
	var req domain.EOQRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.EOQ(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateROP handles /calculate-rop; omitted fields use the configured defaults
func (h *InventoryHandler) CalculateROP(c *gin.Context) {
	var req domain.ROPRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.ROP(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EOQCurve handles POST /eoq-curve
func (h *InventoryHandler) EOQCurve(c *gin.Context) {
	var req domain.EOQCurveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.EOQCurve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
