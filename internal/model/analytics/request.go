/**
 * 模型:请求模型
 * @description: 执行上报接口的请求结构体，绑定标签负责基础校验
 * @func: RecordExecutionRequest、StepInput 结构体定义
 */
package analytics

import (
	"time"
)

// RecordExecutionRequest 执行上报请求
// workflow_id 来自路径参数，不在请求体中
type RecordExecutionRequest struct {
	ExecutionID  string      `json:"execution_id" binding:"required"` // 执行ID
	StartTime    time.Time   `json:"start_time" binding:"required"`   // 开始时间(UTC)
	EndTime      time.Time   `json:"end_time" binding:"required"`     // 结束时间(UTC)
	Success      bool        `json:"success"`                         // 是否成功
	ErrorMessage string      `json:"error_message"`                   // 失败时的错误信息
	Steps        []StepInput `json:"steps"`                           // 步骤序列，可为空
}

// StepInput 执行上报请求中的单个步骤
// EndTime 为指针类型：上游执行器可能在步骤中断时缺失结束时间，
// 此时步骤按耗时0入库而不是拒绝整个请求
type StepInput struct {
	StepID       string     `json:"step_id" binding:"required"` // 步骤ID
	StepName     string     `json:"step_name"`                  // 步骤名称，缺省时使用步骤ID
	StartTime    time.Time  `json:"start_time"`                 // 开始时间(UTC)
	EndTime      *time.Time `json:"end_time"`                   // 结束时间(UTC)，可缺失
	Success      bool       `json:"success"`                    // 是否成功
	ErrorMessage string     `json:"error_message"`              // 失败时的错误信息
}
