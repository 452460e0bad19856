/**
 * 分析服务层:优化效果评估
 * @author: sun977
 * @date: 2025.11.20
 * @description: 对比相邻两个时间窗口的指标变化，近似评估优化效果
 * @func: EvaluateOptimizationImpact
 */
package analytics

import (
	"context"
	"time"

	"flowinsight/internal/model/analytics"
)

// EvaluateOptimizationImpact 评估优化前后的指标变化
// after 窗口为最近 afterDays 天，before 窗口为其前 beforeDays 天，
// 两窗口相邻且不重叠；runID 仅用于标注，不参与数据筛选，
// 该方法只能关联两个窗口的变化，无法证明因果
func (s *Service) EvaluateOptimizationImpact(ctx context.Context, workflowID, runID string, beforeDays, afterDays int) *analytics.ImpactReport {
	beforeDays = s.windowDays(beforeDays)
	afterDays = s.windowDays(afterDays)

	now := time.Now().UTC()
	boundary := now.AddDate(0, 0, -afterDays)
	beforeStart := boundary.AddDate(0, 0, -beforeDays)

	all := s.store.Executions(workflowID, beforeStart)
	beforeRecords := make([]*analytics.ExecutionRecord, 0, len(all))
	afterRecords := make([]*analytics.ExecutionRecord, 0, len(all))
	for _, record := range all {
		if record.StartTime.Before(boundary) {
			beforeRecords = append(beforeRecords, record)
		} else {
			afterRecords = append(afterRecords, record)
		}
	}

	before := computeMetrics(workflowID, beforeDays, beforeRecords, s.cfg.TopErrorCount)
	after := computeMetrics(workflowID, afterDays, afterRecords, s.cfg.TopErrorCount)

	report := &analytics.ImpactReport{
		WorkflowID: workflowID,
		RunID:      runID,
		BaselineAt: boundary,
		Before:     *before,
		After:      *after,
		Conclusive: before.TotalExecutions > 0 && after.TotalExecutions > 0,
	}

	if before.AvgDuration > 0 {
		report.DurationPct = (after.AvgDuration - before.AvgDuration) / before.AvgDuration * 100
	}
	report.SuccessPct = after.SuccessRate - before.SuccessRate

	// 改善判定:两项指标均不退步且至少一项进步
	if report.Conclusive {
		noRegression := report.DurationPct <= 0 && report.SuccessPct >= 0
		someGain := report.DurationPct < 0 || report.SuccessPct > 0
		report.Improved = noRegression && someGain
	}
	return report
}
