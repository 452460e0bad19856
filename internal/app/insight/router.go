package insight

import (
	"net/http"

	"flowinsight/internal/app/insight/middleware"
	"flowinsight/internal/config"
	analyticsHandler "flowinsight/internal/handler/analytics"
	"flowinsight/internal/pkg/logger"
	"flowinsight/internal/repo/memory"
	"flowinsight/internal/repo/mysql/history"
	redisrepo "flowinsight/internal/repo/redis"
	analyticsService "flowinsight/internal/service/analytics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	engine            *gin.Engine
	middlewareManager *middleware.MiddlewareManager
	executionHandler  *analyticsHandler.ExecutionHandler
	metricsHandler    *analyticsHandler.MetricsHandler
	optimizerHandler  *analyticsHandler.OptimizerHandler
	service           *analyticsService.Service
	db                *gorm.DB
	redisClient       *redis.Client
}

// NewRouter 创建路由管理器实例
// db 与 redisClient 允许为 nil，审计持久化与结果缓存按需降级
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Router {
	// 初始化仓库层(纯数据访问)
	store := memory.NewExecutionStore()
	var historyRepo *history.RecommendationRunRepository
	if db != nil {
		historyRepo = history.NewRecommendationRunRepository(db)
	}
	var cache *redisrepo.AnalysisCache
	if redisClient != nil {
		cache = redisrepo.NewAnalysisCache(redisClient, cfg.Analytics.CacheTTL)
	}

	// 初始化分析服务(服务装填仓库)
	service := analyticsService.NewService(store, historyRepo, cache, &cfg.Analytics)

	// 初始化中间件管理器
	middlewareManager := middleware.NewMiddlewareManager(&cfg.Security)

	// 初始化处理器(控制器是服务集合,先初始化服务,然后服务装填成控制器)
	executionHandler := analyticsHandler.NewExecutionHandler(service)
	metricsHandler := analyticsHandler.NewMetricsHandler(service)
	optimizerHandler := analyticsHandler.NewOptimizerHandler(service)

	// 创建Gin引擎
	gin.SetMode(ginMode(cfg.Server.Mode))
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine:            engine,
		middlewareManager: middlewareManager,
		executionHandler:  executionHandler,
		metricsHandler:    metricsHandler,
		optimizerHandler:  optimizerHandler,
		service:           service,
		db:                db,
		redisClient:       redisClient,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	// 设置全局中间件
	r.engine.Use(r.middlewareManager.GinRequestIDMiddleware())
	r.engine.Use(r.middlewareManager.GinCORSMiddleware())
	r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
	r.engine.Use(r.middlewareManager.GinLoggingMiddleware()) // 日志中间件注册
	r.engine.Use(r.middlewareManager.GinRateLimitMiddleware())

	// API版本路由组
	// /api/v1
	api := r.engine.Group("/api")
	v1 := api.Group("/v1")

	// 分析路由（需要API密钥认证）
	r.setupAnalyticsRoutes(v1)

	// 健康检查路由
	r.setupHealthRoutes(api)
}

// setupAnalyticsRoutes 设置分析接口路由
func (r *Router) setupAnalyticsRoutes(v1 *gin.RouterGroup) {
	v1.Use(r.middlewareManager.GinAPIKeyAuthMiddleware())

	// 跨工作流聚合指标
	v1.GET("/metrics", r.metricsHandler.GetGlobalMetrics) // 全局性能指标

	workflows := v1.Group("/workflows")
	{
		workflows.GET("", r.executionHandler.ListWorkflows) // 工作流概览列表

		// 执行上报(唯一的写接口)
		workflows.POST("/:id/executions", r.executionHandler.RecordExecution)

		// 分析查询
		workflows.GET("/:id/metrics", r.metricsHandler.GetWorkflowMetrics)       // 性能指标
		workflows.GET("/:id/graph", r.optimizerHandler.GetGraph)                 // 步骤转移图
		workflows.GET("/:id/critical-path", r.optimizerHandler.GetCriticalPath)  // 关键路径
		workflows.GET("/:id/clusters", r.optimizerHandler.GetClusters)           // 执行聚类
		workflows.POST("/:id/recommendations", r.optimizerHandler.Recommend)     // 生成优化建议
		workflows.GET("/:id/recommendations/history", r.optimizerHandler.GetHistory) // 建议历史
		workflows.GET("/:id/impact", r.optimizerHandler.EvaluateImpact)          // 优化效果评估
	}
}

// setupHealthRoutes 设置健康检查路由
func (r *Router) setupHealthRoutes(api *gin.RouterGroup) {
	// 健康检查
	api.GET("/health", r.healthCheck)
	// 就绪检查
	api.GET("/ready", r.readinessCheck)
	// 存活检查
	api.GET("/live", r.livenessCheck)
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetService 获取分析服务实例(定时任务使用)
func (r *Router) GetService() *analyticsService.Service {
	return r.service
}

// 健康检查处理器
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": logger.NowFormatted(),
	})
}

func (r *Router) readinessCheck(c *gin.Context) {
	// 检查可选依赖(MySQL、Redis)是否就绪，未启用的依赖不参与判定
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "not ready",
				"component": "mysql",
				"timestamp": logger.NowFormatted(),
			})
			return
		}
	}
	if r.redisClient != nil {
		if err := r.redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "not ready",
				"component": "redis",
				"timestamp": logger.NowFormatted(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": logger.NowFormatted(),
	})
}

func (r *Router) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": logger.NowFormatted(),
	})
}

// ginMode 配置运行模式映射到Gin模式
func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
