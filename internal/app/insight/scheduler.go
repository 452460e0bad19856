/**
 * 应用层:定时分析任务
 * @author: sun977
 * @date: 2025.11.20
 * @description: 周期性为所有已记录的工作流刷新优化建议
 * @func: Scheduler 结构体与 Start/Stop
 */
package insight

import (
	"context"
	"fmt"

	"flowinsight/internal/config"
	"flowinsight/internal/pkg/logger"
	analyticsService "flowinsight/internal/service/analytics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler 定时分析任务调度器
// 按配置的cron表达式为每个已记录的工作流生成优化建议，
// 保证建议历史与审计表即使无人查询也持续更新
type Scheduler struct {
	cron    *cron.Cron
	service *analyticsService.Service
	cfg     *config.SchedulerConfig
}

// NewScheduler 创建定时任务调度器
func NewScheduler(service *analyticsService.Service, cfg *config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		cfg:     cfg,
	}
}

// Start 注册并启动定时任务，未启用时直接返回
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		return nil
	}

	spec := s.cfg.RefreshCron
	if spec == "" {
		spec = "0 * * * *"
	}

	if _, err := s.cron.AddFunc(spec, s.refreshRecommendations); err != nil {
		return fmt.Errorf("failed to register recommendation refresh job: %w", err)
	}

	s.cron.Start()
	logger.LogSystemEvent("scheduler", "started",
		fmt.Sprintf("recommendation refresh scheduled with cron %q", spec),
		logrus.InfoLevel, nil)
	return nil
}

// Stop 停止调度器，等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.LogSystemEvent("scheduler", "stopped", "recommendation refresh scheduler stopped",
		logrus.InfoLevel, nil)
}

// refreshRecommendations 为所有已记录的工作流生成一轮建议
func (s *Scheduler) refreshRecommendations() {
	ctx := context.Background()
	summaries := s.service.ListWorkflows(ctx)
	for _, summary := range summaries {
		run := s.service.RecommendOptimizations(ctx, summary.WorkflowID, s.cfg.WindowDays)
		logger.LogSystemEvent("scheduler", "recommendations_refreshed",
			fmt.Sprintf("workflow %s: %d recommendations", summary.WorkflowID, len(run.Recommendations)),
			logrus.DebugLevel, map[string]interface{}{
				"run_id": run.RunID,
			})
	}
}
