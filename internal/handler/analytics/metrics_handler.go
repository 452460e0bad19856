/**
 * 分析处理器:性能指标
 * @author: sun977
 * @date: 2025.11.20
 * @description: 单工作流与跨工作流的性能指标查询接口
 * @func: GetWorkflowMetrics、GetGlobalMetrics
 */
package analytics

import (
	"net/http"
	"strconv"

	"flowinsight/internal/model/system"
	"flowinsight/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

// MetricsHandler 性能指标处理器
type MetricsHandler struct {
	service *analytics.Service
}

// NewMetricsHandler 创建 MetricsHandler
func NewMetricsHandler(service *analytics.Service) *MetricsHandler {
	return &MetricsHandler{
		service: service,
	}
}

// GetWorkflowMetrics 获取单个工作流的性能指标
// GET /api/v1/workflows/:id/metrics?days=30
func (h *MetricsHandler) GetWorkflowMetrics(c *gin.Context) {
	workflowID := c.Param("id")
	days := intQuery(c, "days", 0)

	metrics := h.service.GetPerformanceMetrics(c.Request.Context(), workflowID, days)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    metrics,
	})
}

// GetGlobalMetrics 获取跨所有工作流的聚合指标
// GET /api/v1/metrics?days=30
func (h *MetricsHandler) GetGlobalMetrics(c *gin.Context) {
	days := intQuery(c, "days", 0)

	metrics := h.service.GetPerformanceMetrics(c.Request.Context(), "", days)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    metrics,
	})
}

// intQuery 解析整型查询参数，缺失或非法时返回默认值
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
