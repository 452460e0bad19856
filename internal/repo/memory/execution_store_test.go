package memory

import (
	"testing"
	"time"

	"flowinsight/internal/model/analytics"
)

func makeRecord(workflowID, executionID string, start time.Time, duration time.Duration, success bool, errMsg string) *analytics.ExecutionRecord {
	return &analytics.ExecutionRecord{
		WorkflowID:   workflowID,
		ExecutionID:  executionID,
		StartTime:    start,
		EndTime:      start.Add(duration),
		Success:      success,
		ErrorMessage: errMsg,
	}
}

// TestRecordExecutionValidation 测试入库校验:非法输入被拒绝且不抛错
func TestRecordExecutionValidation(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name       string
		record     *analytics.ExecutionRecord
		wantAccept bool
	}{
		{
			name:       "正常记录",
			record:     makeRecord("wf-1", "exec-1", now, time.Minute, true, ""),
			wantAccept: true,
		},
		{
			name:       "空workflow_id",
			record:     makeRecord("", "exec-1", now, time.Minute, true, ""),
			wantAccept: false,
		},
		{
			name:       "空execution_id",
			record:     makeRecord("wf-1", "  ", now, time.Minute, true, ""),
			wantAccept: false,
		},
		{
			name:       "结束早于开始",
			record:     makeRecord("wf-1", "exec-2", now, -time.Minute, true, ""),
			wantAccept: false,
		},
		{
			name:       "零耗时",
			record:     makeRecord("wf-1", "exec-3", now, 0, true, ""),
			wantAccept: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewExecutionStore()
			outcome := store.RecordExecution(tt.record, nil)
			if outcome.Accepted != tt.wantAccept {
				t.Errorf("Accepted = %v, want %v (reason: %s)", outcome.Accepted, tt.wantAccept, outcome.Reason)
			}
			if !tt.wantAccept && outcome.Reason == "" {
				t.Error("拒绝结果应携带原因")
			}
		})
	}
}

// TestRecordExecutionUpsert 测试同键重复上报整体替换旧记录
func TestRecordExecutionUpsert(t *testing.T) {
	store := NewExecutionStore()
	now := time.Now().UTC()

	first := store.RecordExecution(makeRecord("wf-1", "exec-1", now, time.Minute, false, "timeout"), []*analytics.StepRecord{
		{StepID: "a", StartTime: now, EndTime: now.Add(10 * time.Second)},
		{StepID: "b", StartTime: now.Add(10 * time.Second), EndTime: now.Add(20 * time.Second)},
	})
	if !first.Accepted || first.Replaced {
		t.Fatalf("首次上报: Accepted=%v Replaced=%v", first.Accepted, first.Replaced)
	}
	if first.StepCount != 2 {
		t.Fatalf("StepCount = %d, want 2", first.StepCount)
	}

	second := store.RecordExecution(makeRecord("wf-1", "exec-1", now, 2*time.Minute, true, ""), []*analytics.StepRecord{
		{StepID: "a", StartTime: now, EndTime: now.Add(30 * time.Second)},
	})
	if !second.Accepted || !second.Replaced {
		t.Fatalf("重复上报: Accepted=%v Replaced=%v", second.Accepted, second.Replaced)
	}

	if store.ExecutionCount("wf-1") != 1 {
		t.Errorf("ExecutionCount = %d, want 1", store.ExecutionCount("wf-1"))
	}

	record, ok := store.GetExecution("wf-1", "exec-1")
	if !ok {
		t.Fatal("GetExecution 未找到记录")
	}
	if !record.Success || record.Duration != 120 {
		t.Errorf("替换后记录: Success=%v Duration=%v", record.Success, record.Duration)
	}

	steps := store.Steps("wf-1", time.Time{})
	if len(steps) != 1 {
		t.Errorf("替换后步骤数 = %d, want 1", len(steps))
	}
}

// TestExecutionsWindowFilter 测试时间窗口过滤与排序
func TestExecutionsWindowFilter(t *testing.T) {
	store := NewExecutionStore()
	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	store.RecordExecution(makeRecord("wf-1", "old", base.AddDate(0, 0, -40), time.Minute, true, ""), nil)
	store.RecordExecution(makeRecord("wf-1", "mid", base.AddDate(0, 0, -10), time.Minute, true, ""), nil)
	store.RecordExecution(makeRecord("wf-1", "new", base.AddDate(0, 0, -1), time.Minute, true, ""), nil)

	all := store.Executions("wf-1", time.Time{})
	if len(all) != 3 {
		t.Fatalf("全量记录数 = %d, want 3", len(all))
	}
	if all[0].ExecutionID != "old" || all[2].ExecutionID != "new" {
		t.Errorf("记录未按开始时间升序: %s, %s, %s", all[0].ExecutionID, all[1].ExecutionID, all[2].ExecutionID)
	}

	windowed := store.Executions("wf-1", base.AddDate(0, 0, -30))
	if len(windowed) != 2 {
		t.Fatalf("窗口内记录数 = %d, want 2", len(windowed))
	}
	for _, record := range windowed {
		if record.ExecutionID == "old" {
			t.Error("窗口外记录不应返回")
		}
	}

	if got := store.Executions("wf-unknown", time.Time{}); len(got) != 0 {
		t.Errorf("未知工作流应返回空切片, got %d", len(got))
	}
}

// TestStepsNormalization 测试步骤归一化:名称缺省、缺失结束时间、排序
func TestStepsNormalization(t *testing.T) {
	store := NewExecutionStore()
	now := time.Now().UTC()

	outcome := store.RecordExecution(makeRecord("wf-1", "exec-1", now, time.Minute, true, ""), []*analytics.StepRecord{
		{StepID: "late", StepName: "晚步骤", StartTime: now.Add(30 * time.Second), EndTime: now.Add(40 * time.Second)},
		{StepID: "early", StartTime: now, EndTime: now.Add(5 * time.Second)},
		{StepID: "broken", StartTime: now.Add(10 * time.Second)}, // 无结束时间
		{StepID: "  ", StartTime: now},                           // 无效步骤被跳过
	})
	if outcome.StepCount != 3 {
		t.Fatalf("StepCount = %d, want 3", outcome.StepCount)
	}

	steps := store.Steps("wf-1", time.Time{})
	if len(steps) != 3 {
		t.Fatalf("步骤数 = %d, want 3", len(steps))
	}
	if steps[0].StepID != "early" || steps[2].StepID != "late" {
		t.Errorf("步骤未按开始时间升序: %s, %s, %s", steps[0].StepID, steps[1].StepID, steps[2].StepID)
	}
	if steps[0].StepName != "early" {
		t.Errorf("缺省名称应回退为步骤ID, got %s", steps[0].StepName)
	}
	if steps[1].Duration != 0 {
		t.Errorf("无结束时间的步骤耗时应为0, got %v", steps[1].Duration)
	}

	record, _ := store.GetExecution("wf-1", "exec-1")
	if len(record.StepIDs) != 3 || record.StepIDs[0] != "early" {
		t.Errorf("StepIDs 应与排序后的步骤一致: %v", record.StepIDs)
	}
}

// TestListWorkflows 测试工作流概览列表
func TestListWorkflows(t *testing.T) {
	store := NewExecutionStore()
	now := time.Now().UTC()

	store.RecordExecution(makeRecord("wf-b", "exec-1", now.Add(-time.Hour), time.Minute, true, ""), nil)
	store.RecordExecution(makeRecord("wf-a", "exec-1", now.Add(-2*time.Hour), time.Minute, true, ""), nil)
	store.RecordExecution(makeRecord("wf-a", "exec-2", now, time.Minute, false, "boom"), nil)

	summaries := store.ListWorkflows()
	if len(summaries) != 2 {
		t.Fatalf("工作流数 = %d, want 2", len(summaries))
	}
	if summaries[0].WorkflowID != "wf-a" || summaries[1].WorkflowID != "wf-b" {
		t.Errorf("概览未按工作流ID升序: %s, %s", summaries[0].WorkflowID, summaries[1].WorkflowID)
	}
	if summaries[0].ExecutionCount != 2 {
		t.Errorf("wf-a ExecutionCount = %d, want 2", summaries[0].ExecutionCount)
	}
	if !summaries[0].LastExecution.Equal(now) {
		t.Errorf("LastExecution = %v, want %v", summaries[0].LastExecution, now)
	}
}

// TestSnapshotIsolation 测试返回副本不受后续修改影响
func TestSnapshotIsolation(t *testing.T) {
	store := NewExecutionStore()
	now := time.Now().UTC()

	store.RecordExecution(makeRecord("wf-1", "exec-1", now, time.Minute, true, ""), []*analytics.StepRecord{
		{StepID: "a", StartTime: now, EndTime: now.Add(time.Second)},
	})

	records := store.Executions("wf-1", time.Time{})
	records[0].Success = false
	records[0].StepIDs[0] = "tampered"

	fresh, _ := store.GetExecution("wf-1", "exec-1")
	if !fresh.Success {
		t.Error("外部修改不应影响存储内记录")
	}
	if fresh.StepIDs[0] != "a" {
		t.Error("外部修改不应影响存储内步骤ID")
	}
}
