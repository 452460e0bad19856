/**
 * 分析服务层:工作流分析与优化引擎
 * @author: sun977
 * @date: 2025.11.20
 * @description: 基于执行历史的图构建、关键路径、聚类与优化建议
 * @func: Service 结构体与公共入口
 */
package analytics

import (
	"sync"
	"time"

	"flowinsight/internal/config"
	"flowinsight/internal/model/analytics"
	"flowinsight/internal/repo/memory"
	"flowinsight/internal/repo/mysql/history"
	redisrepo "flowinsight/internal/repo/redis"
)

// Service 分析服务
// 读方法均为当前存储内容与参数的纯函数，唯一的跨调用状态是
// 最近一次构建的图缓存与每个工作流的有界建议历史
type Service struct {
	store   *memory.ExecutionStore
	history *history.RecommendationRunRepository
	cache   *redisrepo.AnalysisCache
	cfg     *config.AnalyticsConfig

	graphCache map[string]*analytics.WorkflowGraph
	runHistory map[string][]*analytics.RecommendationRun
	mutex      sync.RWMutex
}

// NewService 创建分析服务实例
// historyRepo 与 cache 允许为 nil，对应能力自动降级
func NewService(store *memory.ExecutionStore, historyRepo *history.RecommendationRunRepository, cache *redisrepo.AnalysisCache, cfg *config.AnalyticsConfig) *Service {
	return &Service{
		store:      store,
		history:    historyRepo,
		cache:      cache,
		cfg:        cfg,
		graphCache: make(map[string]*analytics.WorkflowGraph),
		runHistory: make(map[string][]*analytics.RecommendationRun),
	}
}

// Store 暴露底层执行存储(供上报接口使用)
func (s *Service) Store() *memory.ExecutionStore {
	return s.store
}

// windowDays 归一化时间窗口参数，非法值回退到配置默认
func (s *Service) windowDays(days int) int {
	if days <= 0 {
		return s.cfg.DefaultWindowDays
	}
	return days
}

// windowStart 计算窗口起点
func (s *Service) windowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// invalidateWorkflow 新执行入库后使该工作流的派生缓存失效
func (s *Service) invalidateWorkflow(workflowID string) {
	s.mutex.Lock()
	delete(s.graphCache, workflowID)
	s.mutex.Unlock()
}
