/**
 * 分析处理器:执行上报
 * @author: sun977
 * @date: 2025.11.20
 * @description: 执行遥测上报与工作流列表接口
 * @func: RecordExecution、ListWorkflows
 */
package analytics

import (
	"net/http"

	anamodel "flowinsight/internal/model/analytics"
	"flowinsight/internal/model/system"
	"flowinsight/internal/pkg/logger"
	"flowinsight/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

// ExecutionHandler 执行上报处理器
type ExecutionHandler struct {
	service *analytics.Service
}

// NewExecutionHandler 创建 ExecutionHandler
func NewExecutionHandler(service *analytics.Service) *ExecutionHandler {
	return &ExecutionHandler{
		service: service,
	}
}

// RecordExecution 上报一次工作流执行
// POST /api/v1/workflows/:id/executions
func (h *ExecutionHandler) RecordExecution(c *gin.Context) {
	workflowID := c.Param("id")

	var req anamodel.RecordExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, system.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	record := &anamodel.ExecutionRecord{
		WorkflowID:   workflowID,
		ExecutionID:  req.ExecutionID,
		StartTime:    req.StartTime.UTC(),
		EndTime:      req.EndTime.UTC(),
		Success:      req.Success,
		ErrorMessage: req.ErrorMessage,
	}
	steps := make([]*anamodel.StepRecord, 0, len(req.Steps))
	for _, input := range req.Steps {
		step := &anamodel.StepRecord{
			StepID:       input.StepID,
			StepName:     input.StepName,
			StartTime:    input.StartTime.UTC(),
			Success:      input.Success,
			ErrorMessage: input.ErrorMessage,
		}
		if input.EndTime != nil {
			step.EndTime = input.EndTime.UTC()
		}
		steps = append(steps, step)
	}

	outcome := h.service.RecordExecution(c.Request.Context(), record, steps)
	if !outcome.Accepted {
		c.JSON(http.StatusUnprocessableEntity, system.APIResponse{
			Code:    http.StatusUnprocessableEntity,
			Status:  "error",
			Message: "Execution rejected",
			Data:    outcome,
			Error:   outcome.Reason,
		})
		return
	}

	logger.LogBusinessOperation("record_execution", workflowID, c.ClientIP(), requestID(c),
		"success", "执行记录已入库", map[string]interface{}{
			"execution_id": outcome.ExecutionID,
			"step_count":   outcome.StepCount,
			"replaced":     outcome.Replaced,
		})

	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Execution recorded successfully",
		Data:    outcome,
	})
}

// ListWorkflows 列出已记录的工作流概览
// GET /api/v1/workflows
func (h *ExecutionHandler) ListWorkflows(c *gin.Context) {
	summaries := h.service.ListWorkflows(c.Request.Context())
	c.JSON(http.StatusOK, system.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Success",
		Data:    summaries,
	})
}

// requestID 从上下文取请求ID，日志中间件写入
func requestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
