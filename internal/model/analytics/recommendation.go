/**
 * 模型:优化建议
 * @description: 分析引擎产出的优化建议、建议运行记录与效果评估报告
 * @func: Recommendation、RecommendationRun、ImpactReport 结构体定义
 */
package analytics

import (
	"time"
)

// 建议类型
const (
	RecTypeReliability      = "reliability"          // 可靠性:成功率低于阈值
	RecTypeCriticalPath     = "critical_path"        // 关键路径:识别出耗时瓶颈路径
	RecTypeVariance         = "performance_variance" // 性能波动:耗时方差过大
	RecTypePatterns         = "execution_patterns"   // 执行模式:聚类发现异常分组
	RecTypeDataInsufficient = "data_insufficient"    // 数据不足:样本量不支持分析
	RecTypeNoIssues         = "no_issues"            // 无问题:各项指标健康
)

// 建议优先级
const (
	PriorityHigh   = "high"   // 高
	PriorityMedium = "medium" // 中
	PriorityLow    = "low"    // 低
)

// Recommendation 单条优化建议
type Recommendation struct {
	Type        string                 `json:"type"`              // 建议类型
	Priority    string                 `json:"priority"`          // 优先级
	Description string                 `json:"description"`       // 建议描述
	Details     map[string]interface{} `json:"details,omitempty"` // 支撑数据(指标值、阈值等)
	Steps       []string               `json:"steps,omitempty"`   // 涉及的步骤ID
}

// RecommendationRun 一次建议生成运行
// 每次生成分配唯一RunID，按工作流保留有界历史并写入审计表
type RecommendationRun struct {
	RunID           string           `json:"run_id"`          // 运行ID(UUID)
	WorkflowID      string           `json:"workflow_id"`     // 工作流ID
	Timestamp       time.Time        `json:"timestamp"`       // 生成时间(UTC)
	WindowDays      int              `json:"window_days"`     // 分析窗口(天)
	Recommendations []Recommendation `json:"recommendations"` // 建议列表，按规则顺序排列
}

// ImpactReport 优化效果评估报告
// 对比建议生成时间前后两个窗口的指标变化
type ImpactReport struct {
	WorkflowID  string             `json:"workflow_id"`  // 工作流ID
	RunID       string             `json:"run_id"`       // 被评估的建议运行ID
	BaselineAt  time.Time          `json:"baseline_at"`  // 基线时间点(建议生成时间)
	Before      PerformanceMetrics `json:"before"`       // 基线前窗口指标
	After       PerformanceMetrics `json:"after"`        // 基线后窗口指标
	DurationPct float64            `json:"duration_pct"` // 平均耗时变化率(%)，负值为改善
	SuccessPct  float64            `json:"success_pct"`  // 成功率变化(百分点)，正值为改善
	Improved    bool               `json:"improved"`     // 是否判定为改善
	Conclusive  bool               `json:"conclusive"`   // 前后窗口是否均有足够数据
}
