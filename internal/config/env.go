package config

import (
	"github.com/spf13/viper"
)

// bindEnvironmentVariables 绑定环境变量
// 环境变量优先于配置文件中的同名配置项
func bindEnvironmentVariables(v *viper.Viper) {
	// 服务器配置
	v.BindEnv("server.host", "FLOWINSIGHT_SERVER_HOST")
	v.BindEnv("server.port", "FLOWINSIGHT_SERVER_PORT")
	v.BindEnv("server.mode", "FLOWINSIGHT_SERVER_MODE")

	// 数据库配置
	v.BindEnv("database.mysql.enabled", "FLOWINSIGHT_MYSQL_ENABLED")
	v.BindEnv("database.mysql.host", "FLOWINSIGHT_MYSQL_HOST")
	v.BindEnv("database.mysql.port", "FLOWINSIGHT_MYSQL_PORT")
	v.BindEnv("database.mysql.username", "FLOWINSIGHT_MYSQL_USERNAME")
	v.BindEnv("database.mysql.password", "FLOWINSIGHT_MYSQL_PASSWORD")
	v.BindEnv("database.mysql.database", "FLOWINSIGHT_MYSQL_DATABASE")

	v.BindEnv("database.redis.enabled", "FLOWINSIGHT_REDIS_ENABLED")
	v.BindEnv("database.redis.host", "FLOWINSIGHT_REDIS_HOST")
	v.BindEnv("database.redis.port", "FLOWINSIGHT_REDIS_PORT")
	v.BindEnv("database.redis.password", "FLOWINSIGHT_REDIS_PASSWORD")
	v.BindEnv("database.redis.database", "FLOWINSIGHT_REDIS_DATABASE")

	// 认证配置
	v.BindEnv("security.auth.enabled", "FLOWINSIGHT_AUTH_ENABLED")
	v.BindEnv("security.auth.api_key", "FLOWINSIGHT_AUTH_API_KEY")
	v.BindEnv("security.auth.api_key_header", "FLOWINSIGHT_AUTH_API_KEY_HEADER")

	// 安全配置
	v.BindEnv("security.cors.allow_origins", "FLOWINSIGHT_CORS_ALLOW_ORIGINS")

	// 分析引擎配置
	v.BindEnv("analytics.default_window_days", "FLOWINSIGHT_ANALYTICS_WINDOW_DAYS")
	v.BindEnv("analytics.default_cluster_count", "FLOWINSIGHT_ANALYTICS_CLUSTER_COUNT")
	v.BindEnv("analytics.reliability_threshold", "FLOWINSIGHT_ANALYTICS_RELIABILITY_THRESHOLD")
	v.BindEnv("analytics.history_limit_per_workflow", "FLOWINSIGHT_ANALYTICS_HISTORY_LIMIT")

	// 定时任务配置
	v.BindEnv("scheduler.enabled", "FLOWINSIGHT_SCHEDULER_ENABLED")
	v.BindEnv("scheduler.refresh_cron", "FLOWINSIGHT_SCHEDULER_REFRESH_CRON")

	// 应用配置
	v.BindEnv("app.environment", "FLOWINSIGHT_APP_ENVIRONMENT")
	v.BindEnv("app.debug", "FLOWINSIGHT_APP_DEBUG")
}
