/**
 * 分析仓库层:建议审计数据访问
 * @author: sun977
 * @date: 2025.11.20
 * @description: 建议运行审计表交互层(MySQL存储)
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"flowinsight/internal/model/analytics"
	"flowinsight/internal/pkg/logger"

	"gorm.io/gorm"
)

// RecommendationRunRepository 建议运行审计仓库
type RecommendationRunRepository struct {
	db *gorm.DB
}

// NewRecommendationRunRepository 创建 RecommendationRunRepository 实例
func NewRecommendationRunRepository(db *gorm.DB) *RecommendationRunRepository {
	return &RecommendationRunRepository{db: db}
}

// SaveRun 持久化一次建议生成运行
func (r *RecommendationRunRepository) SaveRun(ctx context.Context, run *analytics.RecommendationRun) error {
	if run == nil {
		return errors.New("run is nil")
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}

	record := &analytics.RecommendationRunRecord{
		RunID:       run.RunID,
		WorkflowID:  run.WorkflowID,
		GeneratedAt: run.Timestamp,
		WindowDays:  run.WindowDays,
		RecCount:    len(run.Recommendations),
		Payload:     string(payload),
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.LogError(err, "", "REPO", "save_recommendation_run", map[string]interface{}{
			"run_id":      run.RunID,
			"workflow_id": run.WorkflowID,
		})
		return err
	}
	return nil
}

// GetRunByID 按运行ID获取运行快照
func (r *RecommendationRunRepository) GetRunByID(ctx context.Context, runID string) (*analytics.RecommendationRun, error) {
	var record analytics.RecommendationRunRecord
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", "REPO", "get_recommendation_run", map[string]interface{}{
			"run_id": runID,
		})
		return nil, err
	}
	return decodeRun(&record)
}

// ListRunsByWorkflow 按工作流列出最近的运行，按生成时间降序
func (r *RecommendationRunRepository) ListRunsByWorkflow(ctx context.Context, workflowID string, limit int) ([]*analytics.RecommendationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []analytics.RecommendationRunRecord
	err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("generated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		logger.LogError(err, "", "REPO", "list_recommendation_runs", map[string]interface{}{
			"workflow_id": workflowID,
		})
		return nil, err
	}

	runs := make([]*analytics.RecommendationRun, 0, len(records))
	for i := range records {
		run, err := decodeRun(&records[i])
		if err != nil {
			continue // 损坏的快照跳过，不影响其余历史
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// DeleteRunsBefore 删除某时间点之前的运行记录，返回删除条数
func (r *RecommendationRunRepository) DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("generated_at < ?", before).
		Delete(&analytics.RecommendationRunRecord{})
	if result.Error != nil {
		logger.LogError(result.Error, "", "REPO", "delete_recommendation_runs", map[string]interface{}{
			"before": before,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// decodeRun 从审计记录还原运行快照
func decodeRun(record *analytics.RecommendationRunRecord) (*analytics.RecommendationRun, error) {
	var run analytics.RecommendationRun
	if err := json.Unmarshal([]byte(record.Payload), &run); err != nil {
		return nil, err
	}
	return &run, nil
}
