/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 通用的工具包
 * @func:
 */

package utils

import (
	"context"
)

// ContextKey 类型用于标准上下文键的定义，避免使用裸字符串造成键冲突
type ContextKey string

// ContextKeyClientIP 标准上下文中存储客户端IP的统一键
const ContextKeyClientIP ContextKey = "client_ip"

// ContextKeyRequestID 标准上下文中存储请求ID的统一键
const ContextKeyRequestID ContextKey = "request_id"

// GetClientIPFromContext 从标准上下文读取客户端IP（统一键）
// 来源：日志中间件写入标准上下文
// 如果不存在或类型不匹配，返回空字符串
func GetClientIPFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyClientIP)
	if ip, ok := v.(string); ok {
		return ip
	}
	return ""
}

// GetRequestIDFromContext 从标准上下文读取请求ID（统一键）
// 来源：请求ID中间件写入标准上下文
func GetRequestIDFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyRequestID)
	if id, ok := v.(string); ok {
		return id
	}
	return ""
}
