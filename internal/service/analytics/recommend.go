/**
 * 分析服务层:优化建议合成
 * @author: sun977
 * @date: 2025.11.20
 * @description: 按固定规则顺序把指标、关键路径与聚类结果合成为优先级建议
 * @func: RecommendOptimizations、GetRecommendationHistory
 */
package analytics

import (
	"context"
	"fmt"
	"time"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"

	"github.com/google/uuid"
)

// RecommendOptimizations 生成工作流优化建议
// 规则按固定顺序独立评估，互不短路(数据不足时例外)；
// 每次调用生成一次带RunID的运行并写入有界历史与审计表
func (s *Service) RecommendOptimizations(ctx context.Context, workflowID string, days int) *analytics.RecommendationRun {
	days = s.windowDays(days)

	metrics := s.GetPerformanceMetrics(ctx, workflowID, days)
	recommendations := make([]analytics.Recommendation, 0, 4)

	if metrics.TotalExecutions == 0 {
		// 规则1:窗口内无执行，数据不足，其余规则不再评估
		recommendations = append(recommendations, analytics.Recommendation{
			Type:        analytics.RecTypeDataInsufficient,
			Priority:    analytics.PriorityLow,
			Description: fmt.Sprintf("工作流 %s 在最近 %d 天内没有执行记录，无法给出优化建议", workflowID, days),
		})
		return s.finishRun(ctx, workflowID, days, recommendations)
	}

	// 规则2:成功率低于阈值
	if metrics.SuccessRate < s.cfg.ReliabilityThreshold {
		recommendations = append(recommendations, analytics.Recommendation{
			Type:     analytics.RecTypeReliability,
			Priority: analytics.PriorityHigh,
			Description: fmt.Sprintf("成功率 %.1f%% 低于阈值 %.1f%%，建议优先排查高频错误",
				metrics.SuccessRate, s.cfg.ReliabilityThreshold),
			Details: map[string]interface{}{
				"success_rate":  metrics.SuccessRate,
				"threshold":     s.cfg.ReliabilityThreshold,
				"error_count":   metrics.ErrorCount,
				"common_errors": metrics.CommonErrors,
			},
		})
	}

	// 规则3:存在非空关键路径
	criticalPath := s.IdentifyCriticalPath(ctx, workflowID, days)
	if len(criticalPath.Steps) > 0 {
		stepIDs := make([]string, len(criticalPath.Steps))
		for i, step := range criticalPath.Steps {
			stepIDs[i] = step.StepID
		}
		recommendations = append(recommendations, analytics.Recommendation{
			Type:     analytics.RecTypeCriticalPath,
			Priority: analytics.PriorityMedium,
			Description: fmt.Sprintf("关键路径共 %d 个步骤，平均总耗时 %.2f 秒，优化其上的步骤收益最大",
				len(stepIDs), criticalPath.TotalAvgDuration),
			Details: map[string]interface{}{
				"total_avg_duration": criticalPath.TotalAvgDuration,
				"heuristic":          criticalPath.Heuristic,
			},
			Steps: stepIDs,
		})
	}

	// 规则4:最大耗时显著超过平均耗时
	if metrics.MaxDuration > metrics.AvgDuration*s.cfg.VarianceRatioThreshold {
		recommendations = append(recommendations, analytics.Recommendation{
			Type:     analytics.RecTypeVariance,
			Priority: analytics.PriorityMedium,
			Description: fmt.Sprintf("最长耗时 %.2f 秒超过平均耗时 %.2f 秒的 %.1f 倍，执行耗时波动较大",
				metrics.MaxDuration, metrics.AvgDuration, s.cfg.VarianceRatioThreshold),
			Details: map[string]interface{}{
				"max_duration": metrics.MaxDuration,
				"avg_duration": metrics.AvgDuration,
				"ratio":        s.cfg.VarianceRatioThreshold,
			},
		})
	}

	// 规则5:聚类发现行为模式差异明显的执行分组
	clusters := s.ClusterExecutions(ctx, workflowID, days, s.cfg.DefaultClusterCount)
	if nontrivialClusters(clusters, s.cfg.VarianceRatioThreshold) {
		recommendations = append(recommendations, analytics.Recommendation{
			Type:     analytics.RecTypePatterns,
			Priority: analytics.PriorityLow,
			Description: fmt.Sprintf("执行呈现 %d 种行为模式，不同分组的耗时或成功率差异明显，建议对照分组特征定位诱因",
				nonEmptyGroups(clusters)),
			Details: map[string]interface{}{
				"feature_names": clusters.FeatureNames,
				"centers":       groupCenters(clusters),
			},
		})
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, analytics.Recommendation{
			Type:        analytics.RecTypeNoIssues,
			Priority:    analytics.PriorityLow,
			Description: fmt.Sprintf("工作流 %s 最近 %d 天各项指标健康，暂无优化建议", workflowID, days),
		})
	}

	return s.finishRun(ctx, workflowID, days, recommendations)
}

// finishRun 封装运行结果并写入历史与审计表
func (s *Service) finishRun(ctx context.Context, workflowID string, days int, recommendations []analytics.Recommendation) *analytics.RecommendationRun {
	run := &analytics.RecommendationRun{
		RunID:           uuid.NewString(),
		WorkflowID:      workflowID,
		Timestamp:       time.Now().UTC(),
		WindowDays:      days,
		Recommendations: recommendations,
	}

	s.appendHistory(run)

	if s.history != nil {
		if err := s.history.SaveRun(ctx, run); err != nil {
			// 审计写入失败只记录，建议结果照常返回
			logger.LogError(err, "", "SERVICE", "save_recommendation_run", map[string]interface{}{
				"run_id":      run.RunID,
				"workflow_id": workflowID,
			})
		}
	}
	return run
}

// appendHistory 写入每工作流的有界内存历史，超限时淘汰最旧的运行
func (s *Service) appendHistory(run *analytics.RecommendationRun) {
	limit := s.cfg.HistoryLimitPerWorkflow
	if limit <= 0 {
		limit = 50
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	runs := append(s.runHistory[run.WorkflowID], run)
	if len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	s.runHistory[run.WorkflowID] = runs
}

// GetRecommendationHistory 获取工作流的建议历史，最近的在前
// 内存历史为空且审计存储可用时回退到审计表
func (s *Service) GetRecommendationHistory(ctx context.Context, workflowID string, limit int) []*analytics.RecommendationRun {
	if limit <= 0 || limit > s.cfg.HistoryLimitPerWorkflow {
		limit = s.cfg.HistoryLimitPerWorkflow
	}
	if limit <= 0 {
		limit = 50
	}

	s.mutex.RLock()
	stored := s.runHistory[workflowID]
	runs := make([]*analytics.RecommendationRun, 0, len(stored))
	for i := len(stored) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, stored[i])
	}
	s.mutex.RUnlock()

	if len(runs) == 0 && s.history != nil {
		persisted, err := s.history.ListRunsByWorkflow(ctx, workflowID, limit)
		if err == nil {
			return persisted
		}
		logger.LogError(err, "", "SERVICE", "list_recommendation_history", map[string]interface{}{
			"workflow_id": workflowID,
		})
	}
	return runs
}

// nontrivialClusters 判断聚类结果是否值得形成建议
// 至少两个非空分组且分组平均耗时差异超过波动阈值才算有意义的模式
func nontrivialClusters(result *analytics.ClusterResult, ratio float64) bool {
	if result.IsEmpty() {
		return false
	}

	minAvg, maxAvg := -1.0, -1.0
	nonEmpty := 0
	for _, group := range result.Groups {
		if group.Size == 0 {
			continue
		}
		nonEmpty++
		if minAvg < 0 || group.AvgDuration < minAvg {
			minAvg = group.AvgDuration
		}
		if group.AvgDuration > maxAvg {
			maxAvg = group.AvgDuration
		}
	}
	if nonEmpty < 2 {
		return false
	}
	return maxAvg > minAvg*ratio
}

// nonEmptyGroups 统计非空分组数
func nonEmptyGroups(result *analytics.ClusterResult) int {
	count := 0
	for _, group := range result.Groups {
		if group.Size > 0 {
			count++
		}
	}
	return count
}

// groupCenters 提取各非空分组的中心向量
func groupCenters(result *analytics.ClusterResult) [][]float64 {
	centers := make([][]float64, 0, len(result.Groups))
	for _, group := range result.Groups {
		if group.Size > 0 {
			centers = append(centers, group.Center)
		}
	}
	return centers
}
