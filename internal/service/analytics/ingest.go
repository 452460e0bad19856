/**
 * 分析服务层:执行上报
 * @author: sun977
 * @date: 2025.11.20
 * @description: 执行遥测入库，唯一的写操作
 * @func: RecordExecution
 */
package analytics

import (
	"context"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"
)

// RecordExecution 记录一次工作流执行及其步骤
// 唯一的写操作，永不抛错，校验失败以拒绝结果返回
// 入库成功后使该工作流的派生缓存失效
func (s *Service) RecordExecution(ctx context.Context, record *analytics.ExecutionRecord, steps []*analytics.StepRecord) *analytics.RecordOutcome {
	outcome := s.store.RecordExecution(record, steps)
	if !outcome.Accepted {
		return outcome
	}

	s.invalidateWorkflow(outcome.WorkflowID)
	if s.cache.Enabled() {
		if err := s.cache.InvalidateWorkflow(ctx, outcome.WorkflowID); err != nil {
			// 缓存失效失败只记录，不影响入库结果
			logger.LogError(err, "", "SERVICE", "invalidate_analysis_cache", map[string]interface{}{
				"workflow_id": outcome.WorkflowID,
			})
		}
	}
	return outcome
}

// ListWorkflows 列出已记录的工作流概览
func (s *Service) ListWorkflows(ctx context.Context) []*analytics.WorkflowSummary {
	return s.store.ListWorkflows()
}
