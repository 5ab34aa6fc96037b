package httpapi

import (
	"errors"
	"io"
	"net/http"

	"logistics-insights/internal/service"

	"github.com/gin-gonic/gin"
)

type demandQuery struct {
	WindowDays int `form:"window_days" binding:"omitempty,min=1,max=3650"`
	TopN       int `form:"top_n" binding:"omitempty,min=1,max=1000"`
}

type carrierBody struct {
	WarehouseID *int64 `json:"warehouse_id" binding:"omitempty,min=1"`
}

type anomalyQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type warehouseURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

func (s *Server) handleHealth(c *gin.Context) {
	h := s.svc.Health(c.Request.Context())
	status := http.StatusOK
	if h.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

// handleDemand godoc
// GET /api/v1/analytics/demand?window_days=90&top_n=20
func (s *Server) handleDemand(c *gin.Context) {
	var q demandQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequestWithValidation(c, err)
		return
	}

	res, err := s.svc.Demand(c.Request.Context(), service.DemandRequest{WindowDays: q.WindowDays, TopN: q.TopN})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, res)
}

// handleRecommendCarrier godoc
// POST /api/v1/analytics/carriers/recommend {"warehouse_id": 3}. An empty body ranks all carriers.
func (s *Server) handleRecommendCarrier(c *gin.Context) {
	var body carrierBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		BadRequestWithValidation(c, err)
		return
	}

	res, err := s.svc.Carriers(c.Request.Context(), service.CarrierRequest{WarehouseID: body.WarehouseID})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, res)
}

// handleAnomalies godoc
// GET /api/v1/analytics/anomalies?limit=50
func (s *Server) handleAnomalies(c *gin.Context) {
	var q anomalyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequestWithValidation(c, err)
		return
	}

	res, err := s.svc.Anomalies(c.Request.Context(), service.AnomalyRequest{Limit: q.Limit})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, res)
}

// handleWarehouseInsights godoc
// GET /api/v1/analytics/warehouses/:id/insights
func (s *Server) handleWarehouseInsights(c *gin.Context) {
	var uri warehouseURI
	if err := c.ShouldBindUri(&uri); err != nil {
		BadRequestWithValidation(c, err)
		return
	}

	res, err := s.svc.WarehouseInsights(c.Request.Context(), uri.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, res)
}
