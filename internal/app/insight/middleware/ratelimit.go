/**
 * 中间件:限流器中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义限流器中间件
 * @func:
 *   - GinRateLimitMiddleware 默认限流器中间件[根据客户端IP进行限流]
 */
package middleware

import (
	"net/http"
	"sync"
	"time"

	"flowinsight/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.RWMutex
	rate    int           // 每秒生成的令牌数
	burst   int           // 桶的容量
	cleanup time.Duration // 清理间隔
}

// TokenBucket 令牌桶
type TokenBucket struct {
	tokens   int       // 当前令牌数
	capacity int       // 桶容量
	rate     int       // 令牌生成速率（每秒）
	lastTime time.Time // 上次更新时间
	mutex    sync.Mutex
}

// NewTokenBucketLimiter 创建新的令牌桶限流器
func NewTokenBucketLimiter(rate, burst int, cleanup time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets: make(map[string]*TokenBucket),
		rate:    rate,
		burst:   burst,
		cleanup: cleanup,
	}

	// 启动清理协程
	go limiter.cleanupExpiredBuckets()

	return limiter
}

// Allow 检查是否允许请求
func (tbl *TokenBucketLimiter) Allow(key string) bool {
	tbl.mutex.Lock()
	bucket, exists := tbl.buckets[key]
	if !exists {
		bucket = &TokenBucket{
			tokens:   tbl.burst,
			capacity: tbl.burst,
			rate:     tbl.rate,
			lastTime: time.Now(),
		}
		tbl.buckets[key] = bucket
	}
	tbl.mutex.Unlock()

	return bucket.consume()
}

// Reset 重置指定key的限流状态
func (tbl *TokenBucketLimiter) Reset(key string) {
	tbl.mutex.Lock()
	delete(tbl.buckets, key)
	tbl.mutex.Unlock()
}

// consume 消费一个令牌
func (tb *TokenBucket) consume() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastTime).Seconds()

	// 只按整数个令牌补充，不足一个令牌的时间留到下次累积
	newTokens := int(elapsed * float64(tb.rate))
	if newTokens > 0 {
		tb.tokens += newTokens
		if tb.tokens >= tb.capacity {
			tb.tokens = tb.capacity
			tb.lastTime = now
		} else {
			// 计时起点只推进已补充令牌对应的时间
			tb.lastTime = tb.lastTime.Add(time.Duration(float64(newTokens) / float64(tb.rate) * float64(time.Second)))
		}
	}

	// 尝试消费一个令牌
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// cleanupExpiredBuckets 清理过期的令牌桶
func (tbl *TokenBucketLimiter) cleanupExpiredBuckets() {
	ticker := time.NewTicker(tbl.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		tbl.mutex.Lock()
		now := time.Now()
		for key, bucket := range tbl.buckets {
			bucket.mutex.Lock()
			// 如果桶超过清理间隔时间没有使用，则删除
			if now.Sub(bucket.lastTime) > tbl.cleanup {
				delete(tbl.buckets, key)
			}
			bucket.mutex.Unlock()
		}
		tbl.mutex.Unlock()
	}
}

// GinRateLimitMiddleware 默认限流中间件
// 使用配置文件中的限流策略，按客户端IP限流
func (m *MiddlewareManager) GinRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否启用限流
		if !m.securityConfig.RateLimit.Enabled {
			c.Next()
			return
		}

		// 检查是否跳过限流
		if m.shouldSkipRateLimit(c.Request.URL.Path) {
			c.Next()
			return
		}

		// 获取客户端IP作为限流key
		clientIP := utils.GetClientIP(c)

		// 检查是否允许请求
		if !m.getRateLimiter().Allow(clientIP) {
			statusCode := m.securityConfig.RateLimit.StatusCode
			if statusCode == 0 {
				statusCode = http.StatusTooManyRequests
			}
			c.JSON(statusCode, gin.H{
				"error":   "Rate limit exceeded",
				"message": m.securityConfig.RateLimit.Message,
				"code":    "RATE_LIMIT_EXCEEDED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimiter 懒加载创建限流器
func (m *MiddlewareManager) getRateLimiter() RateLimiter {
	m.rateLimiterOnce.Do(func() {
		rate := m.securityConfig.RateLimit.RequestsPerSecond
		if rate <= 0 {
			rate = 100
		}
		burst := m.securityConfig.RateLimit.BurstSize
		if burst <= 0 {
			burst = rate * 2
		}
		m.rateLimiter = NewTokenBucketLimiter(rate, burst, 10*time.Minute)
	})
	return m.rateLimiter
}

// shouldSkipRateLimit 判断路径是否跳过限流
func (m *MiddlewareManager) shouldSkipRateLimit(path string) bool {
	for _, skip := range m.securityConfig.RateLimit.SkipPaths {
		if skip == path {
			return true
		}
	}
	return false
}
