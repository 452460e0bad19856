/**
 * 模型:工作流执行记录
 * @description: 工作流执行与步骤的遥测数据模型，由执行器上报，分析引擎消费
 * @func: ExecutionRecord、StepRecord 结构体定义
 */
package analytics

import (
	"time"
)

// ExecutionRecord 一次完整的工作流执行记录
// 由 (workflow_id, execution_id) 唯一标识，入库时计算派生字段 Duration
// 入库后不可变，重复上报同一执行会整体替换旧记录及其步骤
type ExecutionRecord struct {
	WorkflowID   string    `json:"workflow_id"`   // 工作流ID
	ExecutionID  string    `json:"execution_id"`  // 执行ID
	StartTime    time.Time `json:"start_time"`    // 开始时间(UTC)
	EndTime      time.Time `json:"end_time"`      // 结束时间(UTC)
	Duration     float64   `json:"duration"`      // 执行耗时(秒)，入库时派生
	Success      bool      `json:"success"`       // 是否成功
	ErrorMessage string    `json:"error_message"` // 失败时的错误信息
	StepIDs      []string  `json:"step_ids"`      // 步骤ID有序序列
}

// StepRecord 执行中的单个步骤记录
// 通过 (workflow_id, execution_id) 外键归属于唯一一条执行记录
// 执行内步骤按 StartTime 升序排列，图构建依赖该顺序
type StepRecord struct {
	WorkflowID   string    `json:"workflow_id"`   // 工作流ID
	ExecutionID  string    `json:"execution_id"`  // 所属执行ID
	StepID       string    `json:"step_id"`       // 步骤ID
	StepName     string    `json:"step_name"`     // 步骤名称
	StartTime    time.Time `json:"start_time"`    // 开始时间(UTC)
	EndTime      time.Time `json:"end_time"`      // 结束时间(UTC)，缺失时为零值
	Duration     float64   `json:"duration"`      // 步骤耗时(秒)，结束时间缺失时为0
	Success      bool      `json:"success"`       // 是否成功
	ErrorMessage string    `json:"error_message"` // 失败时的错误信息
}

// RecordOutcome 执行记录入库结果
// 记录操作永不抛错，校验失败以显式的拒绝结果返回
type RecordOutcome struct {
	Accepted    bool   `json:"accepted"`         // 是否已入库
	WorkflowID  string `json:"workflow_id"`      // 工作流ID
	ExecutionID string `json:"execution_id"`     // 执行ID
	Replaced    bool   `json:"replaced"`         // 是否替换了同键旧记录
	StepCount   int    `json:"step_count"`       // 入库的步骤数量
	Reason      string `json:"reason,omitempty"` // 拒绝原因，接受时为空
}

// WorkflowSummary 工作流概览(用于列表接口)
type WorkflowSummary struct {
	WorkflowID     string    `json:"workflow_id"`     // 工作流ID
	ExecutionCount int       `json:"execution_count"` // 已记录执行数
	LastExecution  time.Time `json:"last_execution"`  // 最近一次执行的开始时间
}
