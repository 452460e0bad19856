/**
 * 中间件:认证中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义API密钥认证中间件
 * @func:
 *   - GinAPIKeyAuthMiddleware API密钥认证中间件[采集器与仪表盘共用,用户体系由外部网关负责]
 */
package middleware

import (
	"crypto/subtle"
	"net/http"

	"flowinsight/internal/model/system"
	"flowinsight/internal/pkg/logger"
	"flowinsight/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinAPIKeyAuthMiddleware API密钥认证中间件
// 校验请求头中的API密钥，未启用时直接放行
// 使用方式: group.Use(middlewareManager.GinAPIKeyAuthMiddleware())
func (m *MiddlewareManager) GinAPIKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := m.securityConfig.Auth
		if !auth.Enabled {
			c.Next()
			return
		}

		if m.shouldSkipAuth(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := auth.APIKeyHeader
		if header == "" {
			header = "X-API-Key"
		}

		provided := c.GetHeader(header)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(auth.APIKey)) != 1 {
			logger.LogBusinessOperation("api_key_auth", "", utils.GetClientIP(c), c.GetString("request_id"),
				"failed", "API密钥校验失败", map[string]interface{}{
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})

			c.JSON(http.StatusUnauthorized, system.APIResponse{
				Code:    http.StatusUnauthorized,
				Status:  "error",
				Message: "Invalid or missing API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// shouldSkipAuth 判断路径是否跳过认证
func (m *MiddlewareManager) shouldSkipAuth(path string) bool {
	for _, skip := range m.securityConfig.Auth.SkipPaths {
		if skip == path {
			return true
		}
	}
	return false
}
