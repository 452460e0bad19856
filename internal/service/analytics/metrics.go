/**
 * 分析服务层:性能指标
 * @author: sun977
 * @date: 2025.11.20
 * @description: 时间窗口内的工作流性能指标聚合
 * @func: GetPerformanceMetrics
 */
package analytics

import (
	"context"
	"sort"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"
	redisrepo "flowinsight/internal/repo/redis"

	"github.com/montanaflynn/stats"
)

// GetPerformanceMetrics 获取时间窗口内的性能指标
// workflowID 为空时跨所有工作流聚合；窗口为空时返回规范零值结果
func (s *Service) GetPerformanceMetrics(ctx context.Context, workflowID string, days int) *analytics.PerformanceMetrics {
	days = s.windowDays(days)

	if workflowID != "" && s.cache.Enabled() {
		var cached analytics.PerformanceMetrics
		hit, err := s.cache.Get(ctx, redisrepo.MetricsKey(workflowID, days), &cached)
		if err != nil {
			logger.LogError(err, "", "SERVICE", "get_metrics_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
		if hit {
			return &cached
		}
	}

	records := s.windowedExecutions(workflowID, days)
	metrics := computeMetrics(workflowID, days, records, s.cfg.TopErrorCount)

	if workflowID != "" && s.cache.Enabled() {
		if err := s.cache.Set(ctx, redisrepo.MetricsKey(workflowID, days), metrics); err != nil {
			logger.LogError(err, "", "SERVICE", "set_metrics_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
	}
	return metrics
}

// windowedExecutions 获取窗口内的执行记录，workflowID为空时聚合全部工作流
func (s *Service) windowedExecutions(workflowID string, days int) []*analytics.ExecutionRecord {
	since := s.windowStart(days)
	if workflowID != "" {
		return s.store.Executions(workflowID, since)
	}

	records := make([]*analytics.ExecutionRecord, 0)
	for _, summary := range s.store.ListWorkflows() {
		records = append(records, s.store.Executions(summary.WorkflowID, since)...)
	}
	return records
}

// computeMetrics 对一组执行记录计算聚合指标
// 空集合返回全零结果，调用方无需单独处理"无数据"
func computeMetrics(workflowID string, days int, records []*analytics.ExecutionRecord, topErrors int) *analytics.PerformanceMetrics {
	metrics := &analytics.PerformanceMetrics{
		WorkflowID:   workflowID,
		WindowDays:   days,
		CommonErrors: []analytics.ErrorFrequency{},
	}
	if len(records) == 0 {
		return metrics
	}

	durations := make([]float64, 0, len(records))
	successCount := 0
	errorCounts := make(map[string]int)
	for _, record := range records {
		durations = append(durations, record.Duration)
		if record.Success {
			successCount++
			continue
		}
		metrics.ErrorCount++
		if record.ErrorMessage != "" {
			errorCounts[record.ErrorMessage]++
		}
	}

	metrics.TotalExecutions = len(records)
	metrics.SuccessRate = float64(successCount) / float64(len(records)) * 100

	// montanaflynn/stats 对非空输入不返回错误，失败时保持零值
	if v, err := stats.Mean(durations); err == nil {
		metrics.AvgDuration = v
	}
	if v, err := stats.Median(durations); err == nil {
		metrics.MedianDuration = v
	}
	if v, err := stats.Min(durations); err == nil {
		metrics.MinDuration = v
	}
	if v, err := stats.Max(durations); err == nil {
		metrics.MaxDuration = v
	}
	if v, err := stats.StandardDeviation(durations); err == nil {
		metrics.StdDevDuration = v
	}

	metrics.CommonErrors = topErrorFrequencies(errorCounts, topErrors)
	return metrics
}

// topErrorFrequencies 按出现次数降序取前N个错误，次数相同按信息升序保证确定性
func topErrorFrequencies(counts map[string]int, limit int) []analytics.ErrorFrequency {
	if limit <= 0 {
		limit = 3
	}

	frequencies := make([]analytics.ErrorFrequency, 0, len(counts))
	for message, count := range counts {
		frequencies = append(frequencies, analytics.ErrorFrequency{Message: message, Count: count})
	}
	sort.SliceStable(frequencies, func(i, j int) bool {
		if frequencies[i].Count == frequencies[j].Count {
			return frequencies[i].Message < frequencies[j].Message
		}
		return frequencies[i].Count > frequencies[j].Count
	})

	if len(frequencies) > limit {
		frequencies = frequencies[:limit]
	}
	return frequencies
}
