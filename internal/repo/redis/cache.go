/**
 * 分析仓库层:分析结果缓存
 * @author: sun977
 * @date: 2025.11.20
 * @description: 分析结果缓存交互层(Redis存储,适合多实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 * @note: client 为 nil 时缓存整体降级为未命中，分析服务不感知差异
 */
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AnalysisCache 分析结果缓存库
// 图、指标、聚类等计算结果以JSON形式缓存，键按工作流与窗口区分
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisCache 创建分析结果缓存实例
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		client: client,
		ttl:    ttl,
	}
}

// Enabled 缓存是否可用
func (c *AnalysisCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get 获取缓存结果并反序列化到 dest，未命中返回 false
func (c *AnalysisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.client.Get(ctx, c.cacheKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cached analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return true, nil
}

// Set 序列化并写入缓存结果
func (c *AnalysisCache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	if err := c.client.Set(ctx, c.cacheKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis result: %w", err)
	}
	return nil
}

// InvalidateWorkflow 使某工作流的全部缓存失效
// 新执行入库后调用，保证分析结果不会长期滞后
func (c *AnalysisCache) InvalidateWorkflow(ctx context.Context, workflowID string) error {
	if !c.Enabled() {
		return nil
	}

	pattern := c.cacheKey(fmt.Sprintf("*:workflow:%s:*", workflowID))
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// MetricsKey 性能指标缓存键
func MetricsKey(workflowID string, windowDays int) string {
	return fmt.Sprintf("metrics:workflow:%s:window:%d", workflowID, windowDays)
}

// GraphKey 工作流图缓存键
func GraphKey(workflowID string, windowDays int) string {
	return fmt.Sprintf("graph:workflow:%s:window:%d", workflowID, windowDays)
}

// ClusterKey 聚类结果缓存键
func ClusterKey(workflowID string, windowDays, clusterCount int) string {
	return fmt.Sprintf("cluster:workflow:%s:window:%d:k:%d", workflowID, windowDays, clusterCount)
}

// cacheKey 生成带命名空间的完整缓存键
func (c *AnalysisCache) cacheKey(key string) string {
	return "analysis:" + key
}
