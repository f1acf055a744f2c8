package salary

import (
	"encoding/json"
	"fmt"
	"os"
)

// 回归器类型
const (
	RegressorGBDT   = "gbdt"
	RegressorLinear = "linear"
)

// Scaler 标准化参数
type Scaler struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Scale 标准化, std为0时退化为只减均值
func (s Scaler) Scale(v float64) float64 {
	if s.Std == 0 {
		return v - s.Mean
	}
	return (v - s.Mean) / s.Std
}

// Inverse 反标准化
func (s Scaler) Inverse(v float64) float64 {
	if s.Std == 0 {
		return v + s.Mean
	}
	return v*s.Std + s.Mean
}

// TreeNode 回归树节点, 以数组下标表示左右子树
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree 单棵回归树
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict 从根节点走到叶子
func (t Tree) Predict(features []float64) float64 {
	idx := 0
	for idx >= 0 && idx < len(t.Nodes) {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0
}

// Regressor 薪资回归器, 支持梯度提升树和线性两种形式
type Regressor struct {
	Type         string    `json:"type"`
	Init         float64   `json:"init,omitempty"`
	LearningRate float64   `json:"learning_rate,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

// Predict 对标准化后的特征向量做回归, 输出为标准化的目标值
func (r Regressor) Predict(features []float64) float64 {
	switch r.Type {
	case RegressorGBDT:
		sum := 0.0
		for _, tree := range r.Trees {
			sum += tree.Predict(features)
		}
		lr := r.LearningRate
		if lr == 0 {
			lr = 1.0
		}
		return r.Init + lr*sum
	default:
		pred := r.Intercept
		for i, coef := range r.Coefficients {
			if i < len(features) {
				pred += coef * features[i]
			}
		}
		return pred
	}
}

// Model 从训练环境导出的薪资模型制品
// 包含学历/职位类别编码表、特征与目标的标准化参数和回归器本体
type Model struct {
	EduImportance map[string]float64 `json:"edu_importance"`
	JobImportance map[string]float64 `json:"job_importance"`
	FeatureScaler Scaler             `json:"feature_scaler"`
	TargetScaler  Scaler             `json:"target_scaler"`
	Regressor     Regressor          `json:"regressor"`
}

// LoadModel 从JSON制品文件加载模型
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取薪资模型制品失败: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("解析薪资模型制品失败: %w", err)
	}
	if len(model.EduImportance) == 0 || len(model.JobImportance) == 0 {
		return nil, fmt.Errorf("薪资模型制品缺少编码表: %s", path)
	}
	return &model, nil
}

// EncodeEducation 学历桶编码, 未知桶按0处理
func (m *Model) EncodeEducation(bucket string) float64 {
	return m.EduImportance[bucket]
}

// EncodeJobCategory 职位类别编码, 未知类别按1处理
func (m *Model) EncodeJobCategory(category string) float64 {
	if v, ok := m.JobImportance[category]; ok {
		return v
	}
	return 1
}

// PredictAnnual 编码→标准化→回归→反标准化, 输出年薪
func (m *Model) PredictAnnual(eduBucket, jobCategory string, yearsExperience float64) float64 {
	features := []float64{
		m.EncodeEducation(eduBucket),
		m.EncodeJobCategory(jobCategory),
		m.FeatureScaler.Scale(yearsExperience),
	}
	return m.TargetScaler.Inverse(m.Regressor.Predict(features))
}
