/**
 * 分析服务层:关键路径识别
 * @author: sun977
 * @date: 2025.11.20
 * @description: 在步骤转移图上求平均耗时总和最大的源汇路径
 * @func: IdentifyCriticalPath
 */
package analytics

import (
	"context"
	"math"
	"sort"

	"flowinsight/internal/model/analytics"
)

// IdentifyCriticalPath 识别工作流的性能关键路径
// 复用最近一次构建的图，没有时按窗口重建
// 图为空、无源点或无汇点时返回空路径，永不抛错
func (s *Service) IdentifyCriticalPath(ctx context.Context, workflowID string, days int) *analytics.CriticalPath {
	graph := s.cachedOrBuildGraph(ctx, workflowID, days)
	return findCriticalPath(workflowID, graph, s.cfg.CriticalPathNodeLimit)
}

// findCriticalPath 在图上求关键路径
// 无环图用拓扑序动态规划求精确最长路径(按边上平均耗时求和)，
// 含环或节点数超限时降级为有界贪心游走并标记 Heuristic
func findCriticalPath(workflowID string, graph *analytics.WorkflowGraph, nodeLimit int) *analytics.CriticalPath {
	path := &analytics.CriticalPath{
		WorkflowID: workflowID,
		Steps:      []analytics.CriticalPathStep{},
	}
	if graph.IsEmpty() {
		return path
	}

	names := make(map[string]string, len(graph.Nodes))
	for _, node := range graph.Nodes {
		names[node.StepID] = node.Name
	}

	adjacency := make(map[string][]analytics.GraphEdge)
	inDegree := make(map[string]int)
	for _, node := range graph.Nodes {
		inDegree[node.StepID] = 0
	}
	for _, edge := range graph.Edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge)
		inDegree[edge.To]++
	}

	// 源点与汇点按步骤ID升序，多候选时取字典序最小，保证确定性
	sources := make([]string, 0)
	sinks := make([]string, 0)
	for _, node := range graph.Nodes {
		if inDegree[node.StepID] == 0 {
			sources = append(sources, node.StepID)
		}
		if len(adjacency[node.StepID]) == 0 {
			sinks = append(sinks, node.StepID)
		}
	}
	if len(sources) == 0 || len(sinks) == 0 {
		return path
	}

	if nodeLimit > 0 && len(graph.Nodes) > nodeLimit {
		return greedyPath(workflowID, graph, names, adjacency, sources[0], nodeLimit)
	}

	order, acyclic := topologicalOrder(graph, adjacency)
	if !acyclic {
		return greedyPath(workflowID, graph, names, adjacency, sources[0], nodeLimit)
	}

	// 拓扑序动态规划:dist[v] 为以 v 结尾的最大平均耗时和
	dist := make(map[string]float64, len(graph.Nodes))
	pred := make(map[string]string, len(graph.Nodes))
	for _, node := range graph.Nodes {
		dist[node.StepID] = math.Inf(-1)
	}
	for _, source := range sources {
		dist[source] = 0
	}
	for _, stepID := range order {
		if math.IsInf(dist[stepID], -1) {
			continue
		}
		for _, edge := range adjacency[stepID] {
			candidate := dist[stepID] + edge.AvgDuration
			if candidate > dist[edge.To] {
				dist[edge.To] = candidate
				pred[edge.To] = stepID
			}
		}
	}

	// 在所有汇点中取耗时和最大者
	bestSink := ""
	bestDist := math.Inf(-1)
	for _, sink := range sinks {
		if dist[sink] > bestDist {
			bestDist = dist[sink]
			bestSink = sink
		}
	}
	if bestSink == "" || math.IsInf(bestDist, -1) {
		return path
	}

	// 回溯前驱重建路径
	sequence := []string{bestSink}
	for current := bestSink; ; {
		previous, exists := pred[current]
		if !exists {
			break
		}
		sequence = append(sequence, previous)
		current = previous
	}
	for i, j := 0, len(sequence)-1; i < j; i, j = i+1, j-1 {
		sequence[i], sequence[j] = sequence[j], sequence[i]
	}

	// 不足一条边的退化路径视为无关键路径
	if len(sequence) < 2 {
		return path
	}

	path.TotalAvgDuration = bestDist
	path.Steps = pathSteps(sequence, names, adjacency)
	return path
}

// greedyPath 有界贪心游走:每步选平均耗时最大的出边到未访问节点
func greedyPath(workflowID string, graph *analytics.WorkflowGraph, names map[string]string, adjacency map[string][]analytics.GraphEdge, start string, nodeLimit int) *analytics.CriticalPath {
	if nodeLimit <= 0 {
		nodeLimit = len(graph.Nodes)
	}

	visited := map[string]bool{start: true}
	sequence := []string{start}
	total := 0.0
	current := start
	for len(sequence) < nodeLimit {
		var best *analytics.GraphEdge
		for i := range adjacency[current] {
			edge := &adjacency[current][i]
			if visited[edge.To] {
				continue
			}
			if best == nil || edge.AvgDuration > best.AvgDuration ||
				(edge.AvgDuration == best.AvgDuration && edge.To < best.To) {
				best = edge
			}
		}
		if best == nil {
			break
		}
		visited[best.To] = true
		sequence = append(sequence, best.To)
		total += best.AvgDuration
		current = best.To
	}

	if len(sequence) < 2 {
		return &analytics.CriticalPath{
			WorkflowID: workflowID,
			Steps:      []analytics.CriticalPathStep{},
			Heuristic:  true,
		}
	}

	return &analytics.CriticalPath{
		WorkflowID:       workflowID,
		Steps:            pathSteps(sequence, names, adjacency),
		TotalAvgDuration: total,
		Heuristic:        true,
	}
}

// topologicalOrder Kahn拓扑排序，同层节点按步骤ID升序出队
// 返回的第二个值表示图是否无环
func topologicalOrder(graph *analytics.WorkflowGraph, adjacency map[string][]analytics.GraphEdge) ([]string, bool) {
	inDegree := make(map[string]int, len(graph.Nodes))
	for _, node := range graph.Nodes {
		inDegree[node.StepID] = 0
	}
	for _, edge := range graph.Edges {
		inDegree[edge.To]++
	}

	queue := make([]string, 0)
	for _, node := range graph.Nodes {
		if inDegree[node.StepID] == 0 {
			queue = append(queue, node.StepID)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(graph.Nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		ready := make([]string, 0)
		for _, edge := range adjacency[current] {
			inDegree[edge.To]--
			if inDegree[edge.To] == 0 {
				ready = append(ready, edge.To)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	return order, len(order) == len(graph.Nodes)
}

// pathSteps 将步骤ID序列展开为带平均耗时的路径步骤
// 每个步骤的耗时取其指向下一步骤的出边上的平均耗时，末步为0
func pathSteps(sequence []string, names map[string]string, adjacency map[string][]analytics.GraphEdge) []analytics.CriticalPathStep {
	steps := make([]analytics.CriticalPathStep, 0, len(sequence))
	for i, stepID := range sequence {
		step := analytics.CriticalPathStep{
			StepID: stepID,
			Name:   names[stepID],
		}
		if i+1 < len(sequence) {
			for _, edge := range adjacency[stepID] {
				if edge.To == sequence[i+1] {
					step.AvgDuration = edge.AvgDuration
					break
				}
			}
		}
		steps = append(steps, step)
	}
	return steps
}
