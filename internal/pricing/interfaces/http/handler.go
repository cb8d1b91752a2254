// Package http 定价服务的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// Handler 定价 HTTP 处理器
type Handler struct {
	service *application.PricingService
}

// NewHandler 创建处理器
func NewHandler(service *application.PricingService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1/pricing")
	{
		v1.POST("/option/price", h.PriceOption)
		v1.POST("/option/greeks", h.CalculateGreeks)
		v1.GET("/option/latest/:symbol", h.GetLatest)
		v1.GET("/option/history/:symbol", h.GetHistory)
	}
}

// PriceOption 期权定价
func (h *Handler) PriceOption(c *gin.Context) {
	var cmd application.PriceOptionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.service.PriceOption(c.Request.Context(), &cmd)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// CalculateGreeks 计算希腊字母
func (h *Handler) CalculateGreeks(c *gin.Context) {
	var cmd application.CalculateGreeksCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.service.CalculateGreeks(c.Request.Context(), &cmd)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// GetLatest 查询最新定价结果
func (h *Handler) GetLatest(c *gin.Context) {
	symbol := c.Param("symbol")

	dto, err := h.service.GetLatest(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pricing result for " + symbol})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// GetHistory 查询历史定价结果
func (h *Handler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	dtos, err := h.service.GetHistory(c.Request.Context(), symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "results": dtos})
}
