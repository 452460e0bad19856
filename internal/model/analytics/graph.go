/**
 * 模型:工作流图
 * @description: 由历史执行聚合出的步骤转移有向图与关键路径
 * @func: WorkflowGraph、GraphNode、GraphEdge、CriticalPath 结构体定义
 */
package analytics

import (
	"time"
)

// GraphNode 图中的一个步骤节点
type GraphNode struct {
	StepID string `json:"step_id"` // 步骤ID
	Name   string `json:"name"`    // 步骤名称(取最近一次观测到的名称)
}

// GraphEdge 步骤间的有向转移边
// Weight 为窗口内观测到该转移的次数，耗时累计的是起点步骤的耗时
type GraphEdge struct {
	From          string  `json:"from"`           // 起点步骤ID
	To            string  `json:"to"`             // 终点步骤ID
	Weight        int     `json:"weight"`         // 转移次数
	TotalDuration float64 `json:"total_duration"` // 起点步骤累计耗时(秒)
	AvgDuration   float64 `json:"avg_duration"`   // 起点步骤平均耗时(秒)
}

// WorkflowGraph 窗口内聚合的工作流步骤转移图
// 节点按步骤ID升序、边按(From,To)升序排列，保证同一输入产出确定的图
type WorkflowGraph struct {
	WorkflowID string      `json:"workflow_id"` // 工作流ID
	WindowDays int         `json:"window_days"` // 统计窗口(天)
	Nodes      []GraphNode `json:"nodes"`       // 节点列表
	Edges      []GraphEdge `json:"edges"`       // 边列表
	BuiltAt    time.Time   `json:"built_at"`    // 构建时间(UTC)
}

// IsEmpty 判断图是否为空
func (g *WorkflowGraph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// CriticalPathStep 关键路径上的一个步骤
type CriticalPathStep struct {
	StepID      string  `json:"step_id"`      // 步骤ID
	Name        string  `json:"name"`         // 步骤名称
	AvgDuration float64 `json:"avg_duration"` // 平均耗时(秒)
}

// CriticalPath 图上按平均耗时求出的最长路径
// 图含环时退化为有界贪心游走，Heuristic 置为 true
type CriticalPath struct {
	WorkflowID       string             `json:"workflow_id"`        // 工作流ID
	Steps            []CriticalPathStep `json:"steps"`              // 路径上的步骤序列
	TotalAvgDuration float64            `json:"total_avg_duration"` // 路径平均耗时总和(秒)
	Heuristic        bool               `json:"heuristic"`          // 是否为启发式(含环降级)结果
}
