package insight

import (
	"fmt"

	"flowinsight/internal/config"
	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/database"
	"flowinsight/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// App 应用程序结构体
type App struct {
	config      *config.Config
	router      *Router
	scheduler   *Scheduler
	db          *gorm.DB
	redisClient *redis.Client
}

// NewApp 创建新的应用程序实例
// 加载配置、初始化日志与可选存储，完成路由与定时任务装配
func NewApp() (*App, error) {
	// 加载配置
	cfg, err := config.LoadConfig("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化日志
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// 初始化可选的MySQL审计存储
	var db *gorm.DB
	if cfg.Database.MySQL.Enabled {
		db, err = database.NewMySQLConnection(&cfg.Database.MySQL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		// 迁移审计表
		if err := db.AutoMigrate(&analytics.RecommendationRunRecord{}); err != nil {
			return nil, fmt.Errorf("failed to migrate audit tables: %w", err)
		}
	}

	// 初始化可选的Redis缓存
	var redisClient *redis.Client
	if cfg.Database.Redis.Enabled {
		redisClient, err = database.NewRedisConnection(&cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
	}

	// 初始化路由器
	router := NewRouter(cfg, db, redisClient)
	router.SetupRoutes()

	// 初始化定时任务
	scheduler := NewScheduler(router.GetService(), &cfg.Scheduler)

	return &App{
		config:      cfg,
		router:      router,
		scheduler:   scheduler,
		db:          db,
		redisClient: redisClient,
	}, nil
}

// GetConfig 获取配置实例
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *Router {
	return a.router
}

// Start 启动应用程序的后台组件
func (a *App) Start() error {
	if err := a.scheduler.Start(); err != nil {
		return err
	}
	return nil
}

// Stop 停止应用程序，释放存储连接
func (a *App) Stop() error {
	a.scheduler.Stop()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			return err
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}
