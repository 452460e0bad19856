/**
 * 模型:建议审计记录
 * @description: 建议生成运行的数据库审计模型，payload 存储完整运行快照
 * @func: RecommendationRunRecord 结构体定义
 */
package analytics

import (
	"time"

	model "flowinsight/internal/model/basemodel"
)

// RecommendationRunRecord 建议运行审计表模型
// 内存中的有界历史掉电即失，审计表保证建议可追溯
type RecommendationRunRecord struct {
	model.BaseModel
	RunID       string    `json:"run_id" gorm:"type:varchar(64);uniqueIndex;not null;comment:运行ID"`       // 运行ID(UUID)
	WorkflowID  string    `json:"workflow_id" gorm:"type:varchar(128);index;not null;comment:工作流ID"`      // 工作流ID
	GeneratedAt time.Time `json:"generated_at" gorm:"not null;comment:生成时间"`                              // 生成时间(UTC)
	WindowDays  int       `json:"window_days" gorm:"not null;default:30;comment:分析窗口天数"`                  // 分析窗口(天)
	RecCount    int       `json:"rec_count" gorm:"not null;default:0;comment:建议条数"`                       // 建议条数
	Payload     string    `json:"payload" gorm:"type:json;comment:运行完整快照(JSON)"`                          // 运行完整快照(JSON)
}

// TableName 指定表名
func (RecommendationRunRecord) TableName() string {
	return "recommendation_runs"
}
