/**
 * 分析处理器:优化分析
 * @author: sun977
 * @date: 2025.11.20
 * @description: 工作流图、关键路径、聚类、优化建议与效果评估接口
 * @func: GetGraph、GetCriticalPath、GetClusters、Recommend、GetHistory、EvaluateImpact
 */
package analytics

import (
	"net/http"

	"flowinsight/internal/model/system"
	"flowinsight/internal/pkg/logger"
	"flowinsight/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

// OptimizerHandler 优化分析处理器
type OptimizerHandler struct {
	service *analytics.Service
}

// NewOptimizerHandler 创建 OptimizerHandler
func NewOptimizerHandler(service *analytics.Service) *OptimizerHandler {
	return &OptimizerHandler{
		service: service,
	}
}

// GetGraph 获取工作流步骤转移图
// GET /api/v1/workflows/:id/graph?days=30
func (h *OptimizerHandler) GetGraph(c *gin.Context) {
	workflowID := c.Param("id")
	days := intQuery(c, "days", 0)

	graph := h.service.BuildWorkflowGraph(c.Request.Context(), workflowID, days)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    graph,
	})
}

// GetCriticalPath 获取工作流关键路径
// GET /api/v1/workflows/:id/critical-path?days=30
func (h *OptimizerHandler) GetCriticalPath(c *gin.Context) {
	workflowID := c.Param("id")
	days := intQuery(c, "days", 0)

	path := h.service.IdentifyCriticalPath(c.Request.Context(), workflowID, days)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    path,
	})
}

// GetClusters 获取执行聚类结果
// GET /api/v1/workflows/:id/clusters?days=30&clusters=3
func (h *OptimizerHandler) GetClusters(c *gin.Context) {
	workflowID := c.Param("id")
	days := intQuery(c, "days", 0)
	clusterCount := intQuery(c, "clusters", 0)

	result := h.service.ClusterExecutions(c.Request.Context(), workflowID, days, clusterCount)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    result,
	})
}

// Recommend 生成优化建议
// POST /api/v1/workflows/:id/recommendations?days=30
func (h *OptimizerHandler) Recommend(c *gin.Context) {
	workflowID := c.Param("id")
	days := intQuery(c, "days", 0)

	run := h.service.RecommendOptimizations(c.Request.Context(), workflowID, days)

	logger.LogBusinessOperation("recommend_optimizations", workflowID, c.ClientIP(), requestID(c),
		"success", "优化建议已生成", map[string]interface{}{
			"run_id":    run.RunID,
			"rec_count": len(run.Recommendations),
		})

	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Recommendations generated successfully",
		Data:    run,
	})
}

// GetHistory 获取建议历史
// GET /api/v1/workflows/:id/recommendations/history?limit=10
func (h *OptimizerHandler) GetHistory(c *gin.Context) {
	workflowID := c.Param("id")
	limit := intQuery(c, "limit", 0)

	history := h.service.GetRecommendationHistory(c.Request.Context(), workflowID, limit)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    history,
	})
}

// EvaluateImpact 评估优化前后的指标变化
// GET /api/v1/workflows/:id/impact?run_id=xxx&before_days=30&after_days=30
func (h *OptimizerHandler) EvaluateImpact(c *gin.Context) {
	workflowID := c.Param("id")
	runID := c.Query("run_id")
	beforeDays := intQuery(c, "before_days", 0)
	afterDays := intQuery(c, "after_days", 0)

	report := h.service.EvaluateOptimizationImpact(c.Request.Context(), workflowID, runID, beforeDays, afterDays)
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    report,
	})
}
