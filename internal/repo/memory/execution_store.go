/**
 * 分析仓库层:执行记录存储
 * @author: sun977
 * @date: 2025.11.20
 * @description: 执行记录数据交互层(内存存储,适合单实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 */
// internal/repo/memory/execution_store.go
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"flowinsight/internal/model/analytics"
)

// ExecutionStore 内存执行记录存储库
// 以 (workflowID, executionID) 为键，重复上报整体替换旧记录及其步骤
type ExecutionStore struct {
	executions map[string]map[string]*executionEntry
	mutex      sync.RWMutex
}

// executionEntry 执行条目，记录与其步骤一并存取
type executionEntry struct {
	record *analytics.ExecutionRecord
	steps  []*analytics.StepRecord
}

// NewExecutionStore 创建内存执行记录存储库实例
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{
		executions: make(map[string]map[string]*executionEntry),
	}
}

// RecordExecution 记录一次工作流执行
// 操作永不抛错，校验失败以显式的拒绝结果返回
func (s *ExecutionStore) RecordExecution(record *analytics.ExecutionRecord, steps []*analytics.StepRecord) *analytics.RecordOutcome {
	outcome := &analytics.RecordOutcome{
		WorkflowID:  record.WorkflowID,
		ExecutionID: record.ExecutionID,
	}

	// 基础校验
	if strings.TrimSpace(record.WorkflowID) == "" {
		outcome.Reason = "workflow_id is empty"
		return outcome
	}
	if strings.TrimSpace(record.ExecutionID) == "" {
		outcome.Reason = "execution_id is empty"
		return outcome
	}
	if record.EndTime.Before(record.StartTime) {
		outcome.Reason = "end_time is before start_time"
		return outcome
	}

	// 派生字段与步骤归一化在写锁外完成
	stored := *record
	stored.Duration = stored.EndTime.Sub(stored.StartTime).Seconds()
	stored.StepIDs = make([]string, 0, len(steps))

	storedSteps := make([]*analytics.StepRecord, 0, len(steps))
	for _, step := range steps {
		if strings.TrimSpace(step.StepID) == "" {
			continue // 无ID的步骤跳过，不影响整条执行入库
		}
		sc := *step
		sc.WorkflowID = stored.WorkflowID
		sc.ExecutionID = stored.ExecutionID
		if sc.StepName == "" {
			sc.StepName = sc.StepID
		}
		if !sc.EndTime.IsZero() && sc.EndTime.After(sc.StartTime) {
			sc.Duration = sc.EndTime.Sub(sc.StartTime).Seconds()
		} else {
			sc.Duration = 0
		}
		storedSteps = append(storedSteps, &sc)
	}

	// 步骤按开始时间升序，图构建依赖该顺序
	sort.SliceStable(storedSteps, func(i, j int) bool {
		return storedSteps[i].StartTime.Before(storedSteps[j].StartTime)
	})
	for _, sc := range storedSteps {
		stored.StepIDs = append(stored.StepIDs, sc.StepID)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	workflow, exists := s.executions[stored.WorkflowID]
	if !exists {
		workflow = make(map[string]*executionEntry)
		s.executions[stored.WorkflowID] = workflow
	}

	_, replaced := workflow[stored.ExecutionID]
	workflow[stored.ExecutionID] = &executionEntry{
		record: &stored,
		steps:  storedSteps,
	}

	outcome.Accepted = true
	outcome.Replaced = replaced
	outcome.StepCount = len(storedSteps)
	return outcome
}

// Executions 获取工作流在时间窗口内的执行记录
// since 为窗口起点(含)，零值表示不限制；返回副本，按开始时间升序
func (s *ExecutionStore) Executions(workflowID string, since time.Time) []*analytics.ExecutionRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	workflow, exists := s.executions[workflowID]
	if !exists {
		return []*analytics.ExecutionRecord{}
	}

	records := make([]*analytics.ExecutionRecord, 0, len(workflow))
	for _, entry := range workflow {
		if !since.IsZero() && entry.record.StartTime.Before(since) {
			continue
		}
		rc := *entry.record
		rc.StepIDs = append([]string(nil), entry.record.StepIDs...)
		records = append(records, &rc)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StartTime.Equal(records[j].StartTime) {
			return records[i].ExecutionID < records[j].ExecutionID
		}
		return records[i].StartTime.Before(records[j].StartTime)
	})
	return records
}

// Steps 获取工作流在时间窗口内的步骤记录
// 以所属执行的开始时间过滤窗口，执行间按开始时间升序，执行内保持步骤顺序
func (s *ExecutionStore) Steps(workflowID string, since time.Time) []*analytics.StepRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	workflow, exists := s.executions[workflowID]
	if !exists {
		return []*analytics.StepRecord{}
	}

	entries := make([]*executionEntry, 0, len(workflow))
	for _, entry := range workflow {
		if !since.IsZero() && entry.record.StartTime.Before(since) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].record.StartTime.Equal(entries[j].record.StartTime) {
			return entries[i].record.ExecutionID < entries[j].record.ExecutionID
		}
		return entries[i].record.StartTime.Before(entries[j].record.StartTime)
	})

	steps := make([]*analytics.StepRecord, 0)
	for _, entry := range entries {
		for _, step := range entry.steps {
			sc := *step
			steps = append(steps, &sc)
		}
	}
	return steps
}

// GetExecution 获取单条执行记录
func (s *ExecutionStore) GetExecution(workflowID, executionID string) (*analytics.ExecutionRecord, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	workflow, exists := s.executions[workflowID]
	if !exists {
		return nil, false
	}
	entry, exists := workflow[executionID]
	if !exists {
		return nil, false
	}

	rc := *entry.record
	rc.StepIDs = append([]string(nil), entry.record.StepIDs...)
	return &rc, true
}

// ListWorkflows 列出已记录的工作流概览，按工作流ID升序
func (s *ExecutionStore) ListWorkflows() []*analytics.WorkflowSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summaries := make([]*analytics.WorkflowSummary, 0, len(s.executions))
	for workflowID, workflow := range s.executions {
		summary := &analytics.WorkflowSummary{
			WorkflowID:     workflowID,
			ExecutionCount: len(workflow),
		}
		for _, entry := range workflow {
			if entry.record.StartTime.After(summary.LastExecution) {
				summary.LastExecution = entry.record.StartTime
			}
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].WorkflowID < summaries[j].WorkflowID
	})
	return summaries
}

// ExecutionCount 获取工作流已记录的执行数
func (s *ExecutionStore) ExecutionCount(workflowID string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.executions[workflowID])
}
