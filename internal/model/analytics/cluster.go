/**
 * 模型:执行聚类
 * @description: 执行特征向量的K均值聚类结果
 * @func: ClusterResult、ClusterGroup 结构体定义
 */
package analytics

// ClusterGroup 单个聚类的汇总信息
type ClusterGroup struct {
	Label        int       `json:"label"`         // 聚类编号
	Size         int       `json:"size"`          // 成员数量
	Center       []float64 `json:"center"`        // 聚类中心(特征空间坐标)
	ExecutionIDs []string  `json:"execution_ids"` // 成员执行ID
	AvgDuration  float64   `json:"avg_duration"`  // 成员平均耗时(秒)
	SuccessRate  float64   `json:"success_rate"`  // 成员成功率(%)
}

// ClusterResult 窗口内执行记录的聚类结果
// 样本数少于聚类数时返回空结果而不是报错
type ClusterResult struct {
	WorkflowID   string         `json:"workflow_id"`   // 工作流ID
	WindowDays   int            `json:"window_days"`   // 统计窗口(天)
	ClusterCount int            `json:"cluster_count"` // 请求的聚类数
	FeatureNames []string       `json:"feature_names"` // 特征向量各维含义
	Labels       []int          `json:"labels"`        // 样本所属聚类编号，与 ExecutionIDs 对齐
	ExecutionIDs []string       `json:"execution_ids"` // 样本执行ID，按开始时间升序
	Groups       []ClusterGroup `json:"groups"`        // 各聚类汇总，按编号升序
}

// IsEmpty 判断是否为样本不足的空结果
func (r *ClusterResult) IsEmpty() bool {
	return len(r.Labels) == 0
}
