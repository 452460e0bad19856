/**
 * 模型:性能指标
 * @description: 时间窗口内的工作流聚合性能指标
 * @func: PerformanceMetrics、ErrorFrequency 结构体定义
 */
package analytics

// ErrorFrequency 错误信息及其出现次数
type ErrorFrequency struct {
	Message string `json:"message"` // 错误信息
	Count   int    `json:"count"`   // 出现次数
}

// PerformanceMetrics 时间窗口内的聚合性能指标
// 窗口内没有执行时返回全零的规范空结果，调用方无需单独处理"无数据"
type PerformanceMetrics struct {
	WorkflowID      string           `json:"workflow_id"`      // 工作流ID，跨工作流聚合时为空
	WindowDays      int              `json:"window_days"`      // 统计窗口(天)
	TotalExecutions int              `json:"total_executions"` // 执行总数
	SuccessRate     float64          `json:"success_rate"`     // 成功率(%)
	AvgDuration     float64          `json:"avg_duration"`     // 平均耗时(秒)
	MedianDuration  float64          `json:"median_duration"`  // 中位耗时(秒)
	MinDuration     float64          `json:"min_duration"`     // 最短耗时(秒)
	MaxDuration     float64          `json:"max_duration"`     // 最长耗时(秒)
	StdDevDuration  float64          `json:"stddev_duration"`  // 耗时标准差(秒)
	ErrorCount      int              `json:"error_count"`      // 失败执行数
	CommonErrors    []ErrorFrequency `json:"common_errors"`    // 高频错误(按出现次数降序)
}

// IsEmpty 判断是否为空窗口的规范零值结果
func (m *PerformanceMetrics) IsEmpty() bool {
	return m.TotalExecutions == 0
}
