package analytics

import (
	"context"
	"testing"
	"time"

	"flowinsight/internal/config"
	"flowinsight/internal/model/analytics"
	"flowinsight/internal/repo/memory"
)

// newTestService 创建不依赖外部存储的分析服务
func newTestService() *Service {
	cfg := &config.AnalyticsConfig{
		DefaultWindowDays:       30,
		DefaultClusterCount:     3,
		ReliabilityThreshold:    90.0,
		VarianceRatioThreshold:  1.5,
		HistoryLimitPerWorkflow: 5,
		CriticalPathNodeLimit:   200,
		TopErrorCount:           3,
	}
	return NewService(memory.NewExecutionStore(), nil, nil, cfg)
}

// recordWithSteps 录入一条执行，步骤按给定顺序依次衔接
func recordWithSteps(s *Service, workflowID, executionID string, start time.Time, success bool, errMsg string, stepIDs []string, stepDurations []time.Duration) {
	steps := make([]*analytics.StepRecord, 0, len(stepIDs))
	cursor := start
	for i, stepID := range stepIDs {
		steps = append(steps, &analytics.StepRecord{
			StepID:    stepID,
			StartTime: cursor,
			EndTime:   cursor.Add(stepDurations[i]),
			Success:   true,
		})
		cursor = cursor.Add(stepDurations[i])
	}
	s.RecordExecution(context.Background(), &analytics.ExecutionRecord{
		WorkflowID:   workflowID,
		ExecutionID:  executionID,
		StartTime:    start,
		EndTime:      cursor,
		Success:      success,
		ErrorMessage: errMsg,
	}, steps)
}

// TestMetricsSentinel 空窗口返回全零指标
func TestMetricsSentinel(t *testing.T) {
	svc := newTestService()

	metrics := svc.GetPerformanceMetrics(context.Background(), "wf-empty", 30)
	if metrics.TotalExecutions != 0 || metrics.SuccessRate != 0 {
		t.Errorf("空窗口应返回零值: total=%d rate=%v", metrics.TotalExecutions, metrics.SuccessRate)
	}
	if metrics.AvgDuration != 0 || metrics.MaxDuration != 0 || metrics.ErrorCount != 0 {
		t.Error("空窗口的耗时与错误计数应为零")
	}
	if metrics.CommonErrors == nil || len(metrics.CommonErrors) != 0 {
		t.Errorf("空窗口的高频错误应为空切片, got %v", metrics.CommonErrors)
	}
}

// TestGraphConstruction 相邻步骤构成边，重复执行累加权重并保持平均耗时
func TestGraphConstruction(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour)

	stepIDs := []string{"A", "B", "C"}
	durations := []time.Duration{2 * time.Second, 3 * time.Second, time.Second}
	recordWithSteps(svc, "wf-1", "exec-1", start, true, "", stepIDs, durations)

	graph := svc.BuildWorkflowGraph(ctx, "wf-1", 30)
	if len(graph.Nodes) != 3 || len(graph.Edges) != 2 {
		t.Fatalf("节点/边数量 = %d/%d, want 3/2", len(graph.Nodes), len(graph.Edges))
	}
	if graph.Edges[0].From != "A" || graph.Edges[0].To != "B" || graph.Edges[0].Weight != 1 {
		t.Errorf("首条边 = %+v, want A→B weight 1", graph.Edges[0])
	}
	if graph.Edges[1].From != "B" || graph.Edges[1].To != "C" || graph.Edges[1].Weight != 1 {
		t.Errorf("第二条边 = %+v, want B→C weight 1", graph.Edges[1])
	}
	if graph.Edges[0].AvgDuration != 2 {
		t.Errorf("A→B 平均耗时 = %v, want 2 (起点步骤耗时)", graph.Edges[0].AvgDuration)
	}

	// 相同步骤序列的第二次执行:权重翻倍，平均耗时不变
	recordWithSteps(svc, "wf-1", "exec-2", start.Add(time.Minute), true, "", stepIDs, durations)
	graph = svc.BuildWorkflowGraph(ctx, "wf-1", 30)
	if graph.Edges[0].Weight != 2 || graph.Edges[1].Weight != 2 {
		t.Errorf("重复执行后权重 = %d/%d, want 2/2", graph.Edges[0].Weight, graph.Edges[1].Weight)
	}
	if graph.Edges[0].AvgDuration != 2 || graph.Edges[1].AvgDuration != 3 {
		t.Errorf("平均耗时应保持不变: %v/%v", graph.Edges[0].AvgDuration, graph.Edges[1].AvgDuration)
	}
}

// TestCriticalPathPicksSlowerPath 两条可选路径时选平均耗时和更大者而不是跳数更多者
func TestCriticalPathPicksSlowerPath(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour)

	// 快路径:S→X1→X2→E，每步1秒(多跳)
	recordWithSteps(svc, "wf-1", "exec-fast", start, true, "",
		[]string{"S", "X1", "X2", "E"},
		[]time.Duration{time.Second, time.Second, time.Second, time.Second})
	// 慢路径:S→Y→E，Y步骤10秒(少跳但更耗时)
	recordWithSteps(svc, "wf-1", "exec-slow", start.Add(time.Minute), true, "",
		[]string{"S", "Y", "E"},
		[]time.Duration{time.Second, 10 * time.Second, time.Second})

	path := svc.IdentifyCriticalPath(ctx, "wf-1", 30)
	if len(path.Steps) != 3 {
		t.Fatalf("关键路径步骤数 = %d, want 3 (S→Y→E)", len(path.Steps))
	}
	if path.Steps[1].StepID != "Y" {
		t.Errorf("关键路径应经过慢步骤 Y, got %s", path.Steps[1].StepID)
	}
	if path.TotalAvgDuration != 11 {
		t.Errorf("TotalAvgDuration = %v, want 11 (S的1秒 + Y的10秒)", path.TotalAvgDuration)
	}
	if path.Heuristic {
		t.Error("无环图不应使用启发式结果")
	}
}

// TestCriticalPathEmptyGraph 无步骤数据时返回空路径且不出错
func TestCriticalPathEmptyGraph(t *testing.T) {
	svc := newTestService()

	path := svc.IdentifyCriticalPath(context.Background(), "wf-none", 30)
	if path == nil {
		t.Fatal("空图不应返回nil")
	}
	if len(path.Steps) != 0 || path.TotalAvgDuration != 0 {
		t.Errorf("空图应返回空路径: steps=%d total=%v", len(path.Steps), path.TotalAvgDuration)
	}
}

// TestCriticalPathFullCycle 纯环图无源汇点，返回空路径
func TestCriticalPathFullCycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour)

	// A→B 与 B→A 两次执行共同构成环
	recordWithSteps(svc, "wf-1", "exec-1", start, true, "",
		[]string{"A", "B"}, []time.Duration{time.Second, time.Second})
	recordWithSteps(svc, "wf-1", "exec-2", start.Add(time.Minute), true, "",
		[]string{"B", "A"}, []time.Duration{time.Second, time.Second})

	path := svc.IdentifyCriticalPath(ctx, "wf-1", 30)
	if len(path.Steps) != 0 {
		t.Errorf("无源汇点的环图应返回空路径, got %d steps", len(path.Steps))
	}
}

// TestCriticalPathCycleFallback 中段含环但源汇点存在时降级为启发式路径
func TestCriticalPathCycleFallback(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour)

	// S→A→B→C 提供源点S与汇点C，再补 B→A 构成中段环
	recordWithSteps(svc, "wf-1", "exec-1", start, true, "",
		[]string{"S", "A", "B", "C"},
		[]time.Duration{time.Second, 2 * time.Second, 3 * time.Second, time.Second})
	recordWithSteps(svc, "wf-1", "exec-2", start.Add(time.Minute), true, "",
		[]string{"B", "A"}, []time.Duration{3 * time.Second, 2 * time.Second})

	path := svc.IdentifyCriticalPath(ctx, "wf-1", 30)
	if len(path.Steps) == 0 {
		t.Fatal("含环但有源汇点时应返回启发式路径")
	}
	if !path.Heuristic {
		t.Error("含环图的结果应标记为启发式")
	}
	if path.Steps[0].StepID != "S" {
		t.Errorf("启发式路径应从源点出发, got %s", path.Steps[0].StepID)
	}
}

// TestClusterInsufficiency 样本数少于聚类数时返回空结果
func TestClusterInsufficiency(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour)

	recordWithSteps(svc, "wf-1", "exec-1", start, true, "", nil, nil)
	recordWithSteps(svc, "wf-1", "exec-2", start.Add(time.Minute), true, "", nil, nil)

	result := svc.ClusterExecutions(ctx, "wf-1", 30, 3)
	if len(result.Labels) != 0 || len(result.ExecutionIDs) != 0 || len(result.Groups) != 0 {
		t.Errorf("样本不足应返回空结果: labels=%d ids=%d groups=%d",
			len(result.Labels), len(result.ExecutionIDs), len(result.Groups))
	}
}

// TestClusterDeterminism 固定种子下同一输入两次聚类结果一致
func TestClusterDeterminism(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-24 * time.Hour)

	for i := 0; i < 6; i++ {
		recordWithSteps(svc, "wf-1", "exec-"+string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour),
			i%2 == 0, "", []string{"Only"}, []time.Duration{time.Duration(i+1) * time.Second})
	}

	first := svc.ClusterExecutions(ctx, "wf-1", 30, 3)
	second := svc.ClusterExecutions(ctx, "wf-1", 30, 3)
	if len(first.Labels) != len(second.Labels) {
		t.Fatalf("两次聚类标签数不一致: %d vs %d", len(first.Labels), len(second.Labels))
	}
	for i := range first.Labels {
		if first.Labels[i] != second.Labels[i] {
			t.Fatalf("第%d个样本标签不一致: %d vs %d", i, first.Labels[i], second.Labels[i])
		}
	}
	if len(first.Labels) != 6 {
		t.Errorf("标签数 = %d, want 6", len(first.Labels))
	}
}

// TestRecommendationMonotonicity 健康工作流只产出no_issues，劣化后追加reliability
func TestRecommendationMonotonicity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-24 * time.Hour)

	// 全部成功、耗时一致、单步骤(无边的平凡图)
	for i := 0; i < 10; i++ {
		recordWithSteps(svc, "wf-1", "exec-ok-"+string(rune('a'+i)), start.Add(time.Duration(i)*time.Minute),
			true, "", []string{"Only"}, []time.Duration{5 * time.Second})
	}

	run := svc.RecommendOptimizations(ctx, "wf-1", 30)
	if len(run.Recommendations) != 1 || run.Recommendations[0].Type != analytics.RecTypeNoIssues {
		t.Fatalf("健康工作流应只产出no_issues, got %+v", run.Recommendations)
	}

	// 引入两条失败执行，成功率降到 10/12 ≈ 83.3%
	recordWithSteps(svc, "wf-1", "exec-bad-1", start.Add(time.Hour), false, "TimeoutError",
		[]string{"Only"}, []time.Duration{5 * time.Second})
	recordWithSteps(svc, "wf-1", "exec-bad-2", start.Add(2*time.Hour), false, "TimeoutError",
		[]string{"Only"}, []time.Duration{5 * time.Second})

	run = svc.RecommendOptimizations(ctx, "wf-1", 30)
	foundReliability := false
	for _, rec := range run.Recommendations {
		if rec.Type == analytics.RecTypeNoIssues {
			t.Error("存在问题时不应再产出no_issues")
		}
		if rec.Type == analytics.RecTypeReliability {
			foundReliability = true
			if rec.Priority != analytics.PriorityHigh {
				t.Errorf("reliability建议优先级 = %s, want high", rec.Priority)
			}
		}
	}
	if !foundReliability {
		t.Error("成功率低于阈值时应产出reliability建议")
	}
}

// TestRecommendationDataInsufficient 无执行数据时只产出data_insufficient
func TestRecommendationDataInsufficient(t *testing.T) {
	svc := newTestService()

	run := svc.RecommendOptimizations(context.Background(), "wf-empty", 30)
	if len(run.Recommendations) != 1 {
		t.Fatalf("建议条数 = %d, want 1", len(run.Recommendations))
	}
	if run.Recommendations[0].Type != analytics.RecTypeDataInsufficient {
		t.Errorf("建议类型 = %s, want data_insufficient", run.Recommendations[0].Type)
	}
	if run.RunID == "" {
		t.Error("每次运行应分配RunID")
	}
}

// TestRecommendationHistoryBounded 建议历史按配置上限淘汰最旧运行
func TestRecommendationHistoryBounded(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	runIDs := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		run := svc.RecommendOptimizations(ctx, "wf-1", 30)
		runIDs = append(runIDs, run.RunID)
	}

	history := svc.GetRecommendationHistory(ctx, "wf-1", 10)
	if len(history) != 5 {
		t.Fatalf("历史条数 = %d, want 5 (配置上限)", len(history))
	}
	// 最近的在前
	if history[0].RunID != runIDs[6] {
		t.Errorf("历史首条应为最近一次运行: got %s want %s", history[0].RunID, runIDs[6])
	}
	// 最旧的两次已被淘汰
	for _, run := range history {
		if run.RunID == runIDs[0] || run.RunID == runIDs[1] {
			t.Error("超出上限的最旧运行应被淘汰")
		}
	}
}

// TestEndToEndScenario 完整场景:10次执行8成2败，指标与建议联动
func TestEndToEndScenario(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	start := time.Now().UTC().Add(-48 * time.Hour)

	stepIDs := []string{"Ingest", "Transform", "Save"}
	durations := []time.Duration{2 * time.Second, 2 * time.Second, time.Second}
	for i := 0; i < 8; i++ {
		recordWithSteps(svc, "W1", "exec-ok-"+string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour),
			true, "", stepIDs, durations)
	}
	for i := 0; i < 2; i++ {
		recordWithSteps(svc, "W1", "exec-fail-"+string(rune('a'+i)), start.Add(time.Duration(10+i)*time.Hour),
			false, "TimeoutError", stepIDs, durations)
	}

	metrics := svc.GetPerformanceMetrics(ctx, "W1", 30)
	if metrics.TotalExecutions != 10 {
		t.Fatalf("TotalExecutions = %d, want 10", metrics.TotalExecutions)
	}
	if metrics.SuccessRate != 80.0 {
		t.Errorf("SuccessRate = %v, want 80.0", metrics.SuccessRate)
	}
	if metrics.ErrorCount != 2 {
		t.Errorf("ErrorCount = %d, want 2", metrics.ErrorCount)
	}
	if len(metrics.CommonErrors) != 1 || metrics.CommonErrors[0].Message != "TimeoutError" || metrics.CommonErrors[0].Count != 2 {
		t.Errorf("CommonErrors = %v, want [TimeoutError x2]", metrics.CommonErrors)
	}
	if metrics.AvgDuration != 5 {
		t.Errorf("AvgDuration = %v, want 5", metrics.AvgDuration)
	}

	run := svc.RecommendOptimizations(ctx, "W1", 30)
	foundReliability := false
	for _, rec := range run.Recommendations {
		if rec.Type == analytics.RecTypeReliability {
			foundReliability = true
		}
	}
	if !foundReliability {
		t.Error("成功率80%低于90%阈值，应产出reliability建议")
	}
}

// TestEvaluateOptimizationImpact 前后窗口对比的改善判定
func TestEvaluateOptimizationImpact(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	now := time.Now().UTC()

	// before窗口(30~60天前):慢且有失败
	for i := 0; i < 4; i++ {
		recordWithSteps(svc, "wf-1", "exec-before-"+string(rune('a'+i)), now.AddDate(0, 0, -45).Add(time.Duration(i)*time.Hour),
			i != 0, "TimeoutError", nil, nil)
	}
	// after窗口(最近30天):全部成功
	for i := 0; i < 4; i++ {
		recordWithSteps(svc, "wf-1", "exec-after-"+string(rune('a'+i)), now.AddDate(0, 0, -5).Add(time.Duration(i)*time.Hour),
			true, "", nil, nil)
	}

	report := svc.EvaluateOptimizationImpact(ctx, "wf-1", "run-123", 30, 30)
	if !report.Conclusive {
		t.Fatal("前后窗口均有数据时应为可判定结果")
	}
	if report.Before.TotalExecutions != 4 || report.After.TotalExecutions != 4 {
		t.Errorf("窗口划分错误: before=%d after=%d", report.Before.TotalExecutions, report.After.TotalExecutions)
	}
	if report.SuccessPct <= 0 {
		t.Errorf("成功率应提升, SuccessPct = %v", report.SuccessPct)
	}
	if !report.Improved {
		t.Error("成功率提升且耗时未退步应判定为改善")
	}
	if report.RunID != "run-123" {
		t.Errorf("RunID 仅用于标注, got %s", report.RunID)
	}

	// 空before窗口不可判定
	empty := svc.EvaluateOptimizationImpact(ctx, "wf-new", "", 30, 30)
	if empty.Conclusive || empty.Improved {
		t.Error("无数据的窗口对比应为不可判定")
	}
}

// TestCriticalPathRecommendation 多步骤工作流产出引用步骤序列的critical_path建议
// 同时验证完全同质的执行不会触发execution_patterns(平凡分组不构成模式)
func TestCriticalPathRecommendation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	base := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Hour)

	// 5次完全相同的三步执行:有关键路径，但无耗时波动、无行为分化
	stepIDs := []string{"A", "B", "C"}
	durations := []time.Duration{2 * time.Second, time.Second, 2 * time.Second}
	for i := 0; i < 5; i++ {
		recordWithSteps(svc, "wf-1", "exec-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute),
			true, "", stepIDs, durations)
	}

	run := svc.RecommendOptimizations(ctx, "wf-1", 30)
	var critical *analytics.Recommendation
	for i, rec := range run.Recommendations {
		switch rec.Type {
		case analytics.RecTypeCriticalPath:
			critical = &run.Recommendations[i]
		case analytics.RecTypePatterns:
			t.Error("同质执行不应产出execution_patterns建议")
		case analytics.RecTypeNoIssues:
			t.Error("存在关键路径时不应产出no_issues")
		}
	}
	if critical == nil {
		t.Fatal("多步骤工作流应产出critical_path建议")
	}
	if critical.Priority != analytics.PriorityMedium {
		t.Errorf("critical_path优先级 = %s, want medium", critical.Priority)
	}
	if len(critical.Steps) != 3 || critical.Steps[0] != "A" || critical.Steps[1] != "B" || critical.Steps[2] != "C" {
		t.Errorf("critical_path应引用步骤序列 [A B C], got %v", critical.Steps)
	}
}

// TestVarianceRecommendation 最大耗时显著超过平均值时产出performance_variance建议
func TestVarianceRecommendation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	base := time.Now().UTC().Add(-24 * time.Hour)

	// 9次5秒加1次50秒:平均9.5秒，50 > 9.5×1.5，波动规则触发
	for i := 0; i < 9; i++ {
		recordWithSteps(svc, "wf-1", "exec-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute),
			true, "", []string{"Only"}, []time.Duration{5 * time.Second})
	}
	recordWithSteps(svc, "wf-1", "exec-slow", base.Add(time.Hour),
		true, "", []string{"Only"}, []time.Duration{50 * time.Second})

	run := svc.RecommendOptimizations(ctx, "wf-1", 30)
	foundVariance := false
	for _, rec := range run.Recommendations {
		if rec.Type == analytics.RecTypeNoIssues {
			t.Error("耗时波动明显时不应产出no_issues")
		}
		if rec.Type == analytics.RecTypeVariance {
			foundVariance = true
			if rec.Priority != analytics.PriorityMedium {
				t.Errorf("performance_variance优先级 = %s, want medium", rec.Priority)
			}
		}
	}
	if !foundVariance {
		t.Error("最大耗时超过平均值1.5倍时应产出performance_variance建议")
	}
}

// TestPatternRecommendation 耗时呈双峰分布时产出execution_patterns建议
// 两组均值 10/20 秒:分组差异超过阈值(20 > 10×1.5)，
// 但整体最大值未超过均值的1.5倍(20 ≤ 15×1.5)，波动规则保持沉默
func TestPatternRecommendation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	base := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Hour)

	for i := 0; i < 6; i++ {
		recordWithSteps(svc, "wf-1", "exec-fast-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Second),
			true, "", []string{"Only"}, []time.Duration{10 * time.Second})
	}
	for i := 0; i < 6; i++ {
		recordWithSteps(svc, "wf-1", "exec-slow-"+string(rune('a'+i)), base.Add(time.Duration(6+i)*time.Second),
			true, "", []string{"Only"}, []time.Duration{20 * time.Second})
	}

	run := svc.RecommendOptimizations(ctx, "wf-1", 30)
	foundPatterns := false
	for _, rec := range run.Recommendations {
		switch rec.Type {
		case analytics.RecTypePatterns:
			foundPatterns = true
			if rec.Priority != analytics.PriorityLow {
				t.Errorf("execution_patterns优先级 = %s, want low", rec.Priority)
			}
		case analytics.RecTypeVariance:
			t.Error("整体波动未超阈值时不应产出performance_variance")
		case analytics.RecTypeNoIssues:
			t.Error("存在行为分化时不应产出no_issues")
		}
	}
	if !foundPatterns {
		t.Error("双峰耗时分布应产出execution_patterns建议")
	}
}

// TestCriticalPathWindowIsolation 不同窗口参数不应复用上一窗口构建的图
func TestCriticalPathWindowIsolation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	now := time.Now().UTC()

	// 10天前的慢执行只落在30天窗口内
	recordWithSteps(svc, "wf-1", "exec-old", now.AddDate(0, 0, -10), true, "",
		[]string{"A", "B"}, []time.Duration{100 * time.Second, time.Second})
	// 1天前的快执行同时落在两个窗口内
	recordWithSteps(svc, "wf-1", "exec-new", now.AddDate(0, 0, -1), true, "",
		[]string{"C", "D"}, []time.Duration{5 * time.Second, time.Second})

	wide := svc.IdentifyCriticalPath(ctx, "wf-1", 30)
	if len(wide.Steps) != 2 || wide.Steps[0].StepID != "A" {
		t.Fatalf("30天窗口应选慢路径A→B, got %+v", wide.Steps)
	}

	// 紧随其后的7天窗口查询必须重建图，而不是沿用30天的结果
	narrow := svc.IdentifyCriticalPath(ctx, "wf-1", 7)
	if len(narrow.Steps) != 2 || narrow.Steps[0].StepID != "C" {
		t.Fatalf("7天窗口应只看到C→D, got %+v", narrow.Steps)
	}
	if narrow.TotalAvgDuration != 5 {
		t.Errorf("7天窗口路径耗时 = %v, want 5", narrow.TotalAvgDuration)
	}
}

// TestWindowDaysFallback 非法窗口参数回退到配置默认值
func TestWindowDaysFallback(t *testing.T) {
	svc := newTestService()

	metrics := svc.GetPerformanceMetrics(context.Background(), "wf-1", 0)
	if metrics.WindowDays != 30 {
		t.Errorf("WindowDays = %d, want 30 (配置默认)", metrics.WindowDays)
	}
	metrics = svc.GetPerformanceMetrics(context.Background(), "wf-1", -5)
	if metrics.WindowDays != 30 {
		t.Errorf("负窗口应回退默认, got %d", metrics.WindowDays)
	}
}
