package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// Forecast handles POST /forecast
func (h *ForecastHandler) Forecast(c *gin.Context) {
	var req domain.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.Forecast(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForecastBatch handles POST /forecast/batch
func (h *ForecastHandler) ForecastBatch(c *gin.Context) {
	var req domain.BatchForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.ForecastBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForecastChart handles POST /forecast/chart and answers with a PNG
func (h *ForecastHandler) ForecastChart(c *gin.Context) {
	var req domain.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	png, err := h.service.ForecastChart(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Trends handles POST /trends
func (h *ForecastHandler) Trends(c *gin.Context) {
	var req domain.TrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.Trends(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
