/**
 * 分析服务层:工作流图构建
 * @author: sun977
 * @date: 2025.11.20
 * @description: 由窗口内的步骤序列聚合出步骤转移有向图
 * @func: BuildWorkflowGraph
 */
package analytics

import (
	"context"
	"sort"
	"time"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"
	redisrepo "flowinsight/internal/repo/redis"
)

// edgeAccumulator 边构建期的累加器
type edgeAccumulator struct {
	weight        int
	totalDuration float64
}

// BuildWorkflowGraph 构建时间窗口内的工作流步骤转移图
// Redis缓存未命中时从存储快照全量重建，结果同时缓存为
// 该工作流最近一次构建的图；窗口内无步骤数据时返回空图，永不抛错
func (s *Service) BuildWorkflowGraph(ctx context.Context, workflowID string, days int) *analytics.WorkflowGraph {
	days = s.windowDays(days)

	if s.cache.Enabled() {
		var cached analytics.WorkflowGraph
		hit, err := s.cache.Get(ctx, redisrepo.GraphKey(workflowID, days), &cached)
		if err != nil {
			logger.LogError(err, "", "SERVICE", "get_graph_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
		if hit {
			s.mutex.Lock()
			s.graphCache[workflowID] = &cached
			s.mutex.Unlock()
			return &cached
		}
	}

	steps := s.store.Steps(workflowID, s.windowStart(days))
	graph := buildGraph(workflowID, days, steps)

	s.mutex.Lock()
	s.graphCache[workflowID] = graph
	s.mutex.Unlock()

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, redisrepo.GraphKey(workflowID, days), graph); err != nil {
			logger.LogError(err, "", "SERVICE", "set_graph_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
	}
	return graph
}

// cachedOrBuildGraph 复用最近一次构建的图，没有或窗口不同时重新构建
// 同一次分析过程中窗口一致的依赖操作(关键路径等)共享图缓存
func (s *Service) cachedOrBuildGraph(ctx context.Context, workflowID string, days int) *analytics.WorkflowGraph {
	days = s.windowDays(days)

	s.mutex.RLock()
	graph, exists := s.graphCache[workflowID]
	s.mutex.RUnlock()
	if exists && graph.WindowDays == days {
		return graph
	}
	return s.BuildWorkflowGraph(ctx, workflowID, days)
}

// buildGraph 由步骤记录构建图
// 步骤按所属执行分组，组内相邻步骤构成一条有向边，
// 边上累计的是起点步骤的耗时
func buildGraph(workflowID string, days int, steps []*analytics.StepRecord) *analytics.WorkflowGraph {
	graph := &analytics.WorkflowGraph{
		WorkflowID: workflowID,
		WindowDays: days,
		Nodes:      []analytics.GraphNode{},
		Edges:      []analytics.GraphEdge{},
		BuiltAt:    time.Now().UTC(),
	}
	if len(steps) == 0 {
		return graph
	}

	// 按执行分组，保持存储返回的组内顺序(开始时间升序)
	groups := make(map[string][]*analytics.StepRecord)
	groupOrder := make([]string, 0)
	for _, step := range steps {
		if _, exists := groups[step.ExecutionID]; !exists {
			groupOrder = append(groupOrder, step.ExecutionID)
		}
		groups[step.ExecutionID] = append(groups[step.ExecutionID], step)
	}

	nodeNames := make(map[string]string)
	edges := make(map[[2]string]*edgeAccumulator)
	for _, executionID := range groupOrder {
		group := groups[executionID]
		for i, step := range group {
			nodeNames[step.StepID] = step.StepName
			if i == 0 {
				continue
			}
			prev := group[i-1]
			key := [2]string{prev.StepID, step.StepID}
			acc, exists := edges[key]
			if !exists {
				acc = &edgeAccumulator{}
				edges[key] = acc
			}
			acc.weight++
			acc.totalDuration += prev.Duration
		}
	}

	for stepID, name := range nodeNames {
		graph.Nodes = append(graph.Nodes, analytics.GraphNode{StepID: stepID, Name: name})
	}
	sort.SliceStable(graph.Nodes, func(i, j int) bool {
		return graph.Nodes[i].StepID < graph.Nodes[j].StepID
	})

	for key, acc := range edges {
		graph.Edges = append(graph.Edges, analytics.GraphEdge{
			From:          key[0],
			To:            key[1],
			Weight:        acc.weight,
			TotalDuration: acc.totalDuration,
			AvgDuration:   acc.totalDuration / float64(acc.weight),
		})
	}
	sort.SliceStable(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].From == graph.Edges[j].From {
			return graph.Edges[i].To < graph.Edges[j].To
		}
		return graph.Edges[i].From < graph.Edges[j].From
	})

	return graph
}
