/**
 * 中间件:日志相关中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义日志中间件
 * @func:
 *   - GinRequestIDMiddleware 请求ID中间件,为每个请求生成唯一ID,便于日志追踪
 *   - GinLoggingMiddleware Gin日志中间件[同时把客户端IP存储到Gin上下文和标准上下文,供后续使用]
 */
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"flowinsight/internal/pkg/logger"
	"flowinsight/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GinRequestIDMiddleware 请求ID中间件
// 为每个请求生成唯一ID，便于日志追踪和问题排查
func (m *MiddlewareManager) GinRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否已有请求ID（可能来自负载均衡器或代理）
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// 设置请求ID到Gin上下文和标准上下文
		c.Set("request_id", requestID)
		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		// 设置响应头
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 提取并格式化客户端IP
		clientIP := utils.GetClientIP(c)

		// 存储到Gin上下文
		c.Set("client_ip", clientIP)

		// 存储到标准上下文，service 层及以下使用标准上下文取值
		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyClientIP, clientIP)
		c.Request = c.Request.WithContext(ctx)

		// 处理请求
		c.Next()

		if m.shouldSkipLogging(c.Request.URL.Path) {
			return
		}

		requestID := c.GetString("request_id")

		// 记录访问日志
		logger.LogAccessRequest(c, start, requestID)

		// 慢请求告警
		threshold := m.securityConfig.Logging.SlowRequestThreshold
		if threshold > 0 && time.Since(start) > threshold {
			logger.LogSystemEvent("http", "slow_request",
				fmt.Sprintf("%s %s took %dms", c.Request.Method, c.Request.URL.Path, time.Since(start).Milliseconds()),
				logrus.WarnLevel, map[string]interface{}{
					"request_id": requestID,
					"client_ip":  clientIP,
				})
		}

		// 如果是错误状态码，记录错误日志
		statusCode := c.Writer.Status()
		if statusCode >= 400 {
			errorMsg := http.StatusText(statusCode)
			if errors := c.Errors; len(errors) > 0 {
				errorMsg = errors.String()
			}
			logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), requestID, "http", c.Request.Method, map[string]interface{}{
				"url":         c.Request.URL.String(),
				"status_code": statusCode,
				"client_ip":   clientIP,
			})
		}
	}
}

// shouldSkipLogging 判断路径是否跳过访问日志
func (m *MiddlewareManager) shouldSkipLogging(path string) bool {
	if !m.securityConfig.Logging.EnableRequestLog {
		return true
	}
	for _, skip := range m.securityConfig.Logging.SkipPaths {
		if skip == path {
			return true
		}
	}
	return false
}
