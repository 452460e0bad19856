/**
 * 分析服务层:执行聚类
 * @author: sun977
 * @date: 2025.11.20
 * @description: 对窗口内的执行按行为特征做K均值聚类
 * @func: ClusterExecutions
 */
package analytics

import (
	"context"
	"math"
	"math/rand"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"
	redisrepo "flowinsight/internal/repo/redis"
)

// 聚类随机种子固定，保证同一输入产出可复现的结果
const clusterSeed = 42

// 迭代上限，K均值在小样本上远早于此收敛
const maxKMeansIterations = 100

// clusterFeatureNames 特征向量各维含义
var clusterFeatureNames = []string{"duration", "success", "hour_of_day", "day_of_week"}

// ClusterExecutions 对窗口内的执行做K均值聚类
// 特征向量为 (耗时, 成功0/1, 开始时刻小时, 开始时刻星期)
// 样本数少于聚类数时返回空结果，永不抛错
func (s *Service) ClusterExecutions(ctx context.Context, workflowID string, days, clusterCount int) *analytics.ClusterResult {
	days = s.windowDays(days)
	if clusterCount <= 0 {
		clusterCount = s.cfg.DefaultClusterCount
	}

	if s.cache.Enabled() {
		var cached analytics.ClusterResult
		hit, err := s.cache.Get(ctx, redisrepo.ClusterKey(workflowID, days, clusterCount), &cached)
		if err != nil {
			logger.LogError(err, "", "SERVICE", "get_cluster_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
		if hit {
			return &cached
		}
	}

	records := s.store.Executions(workflowID, s.windowStart(days))
	result := clusterRecords(workflowID, days, clusterCount, records)

	if s.cache.Enabled() && !result.IsEmpty() {
		if err := s.cache.Set(ctx, redisrepo.ClusterKey(workflowID, days, clusterCount), result); err != nil {
			logger.LogError(err, "", "SERVICE", "set_cluster_cache", map[string]interface{}{
				"workflow_id": workflowID,
			})
		}
	}
	return result
}

// clusterRecords 对执行记录做聚类
func clusterRecords(workflowID string, days, clusterCount int, records []*analytics.ExecutionRecord) *analytics.ClusterResult {
	result := &analytics.ClusterResult{
		WorkflowID:   workflowID,
		WindowDays:   days,
		ClusterCount: clusterCount,
		FeatureNames: clusterFeatureNames,
		Labels:       []int{},
		ExecutionIDs: []string{},
		Groups:       []analytics.ClusterGroup{},
	}
	if len(records) < clusterCount {
		return result
	}

	features := make([][]float64, len(records))
	for i, record := range records {
		start := record.StartTime.UTC()
		success := 0.0
		if record.Success {
			success = 1.0
		}
		features[i] = []float64{
			record.Duration,
			success,
			float64(start.Hour()),
			float64(start.Weekday()),
		}
	}

	labels, centers := kMeans(features, clusterCount)

	result.Labels = labels
	result.ExecutionIDs = make([]string, len(records))
	for i, record := range records {
		result.ExecutionIDs[i] = record.ExecutionID
	}
	result.Groups = buildGroups(records, labels, centers)
	return result
}

// kMeans 固定种子的K均值
// 初始中心从样本中随机抽取k个互不相同的下标，之后交替执行
// 分配与更新直到标签稳定或达到迭代上限；空簇保留旧中心
func kMeans(features [][]float64, k int) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(clusterSeed))

	// 初始中心:随机抽取k个不同样本
	chosen := make(map[int]bool, k)
	centers := make([][]float64, 0, k)
	for len(centers) < k {
		idx := rng.Intn(len(features))
		if chosen[idx] {
			continue
		}
		chosen[idx] = true
		centers = append(centers, append([]float64(nil), features[idx]...))
	}

	labels := make([]int, len(features))
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false

		// 分配:每个样本归入最近的中心
		for i, feature := range features {
			best := 0
			bestDist := math.Inf(1)
			for c, center := range centers {
				d := squaredDistance(feature, center)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// 更新:中心移动到成员均值
		dims := len(features[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, feature := range features {
			counts[labels[i]]++
			for d, v := range feature {
				sums[labels[i]][d] += v
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue // 空簇保留旧中心
			}
			for d := range centers[c] {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return labels, centers
}

// squaredDistance 欧氏距离平方
func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// buildGroups 按聚类编号汇总成员信息
func buildGroups(records []*analytics.ExecutionRecord, labels []int, centers [][]float64) []analytics.ClusterGroup {
	groups := make([]analytics.ClusterGroup, len(centers))
	for c := range groups {
		groups[c] = analytics.ClusterGroup{
			Label:        c,
			Center:       centers[c],
			ExecutionIDs: []string{},
		}
	}

	successCounts := make([]int, len(centers))
	durationSums := make([]float64, len(centers))
	for i, record := range records {
		label := labels[i]
		groups[label].Size++
		groups[label].ExecutionIDs = append(groups[label].ExecutionIDs, record.ExecutionID)
		durationSums[label] += record.Duration
		if record.Success {
			successCounts[label]++
		}
	}

	for c := range groups {
		if groups[c].Size == 0 {
			continue
		}
		groups[c].AvgDuration = durationSums[c] / float64(groups[c].Size)
		groups[c].SuccessRate = float64(successCounts[c]) / float64(groups[c].Size) * 100
	}
	return groups
}
