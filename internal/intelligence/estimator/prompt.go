// Package estimator asks a generative model for a service-life estimate of a
// material under given working conditions.
package estimator

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Request describes the working conditions to estimate.
type Request struct {
	MaterialType string  `json:"materialType"`
	Environment  string  `json:"environment"`
	Temperature  float64 `json:"temperature"`
	Load         float64 `json:"load"`
}

// Estimate is the model answer.
type Estimate struct {
	Lifespan          float64 `json:"lifespan"`
	Efficiency        float64 `json:"efficiency"`
	RiskAnalysis      string  `json:"riskAnalysis"`
	MaintenanceAdvice string  `json:"maintenanceAdvice"`
}

// MaterialTypes and Environments are the options offered by the prediction form.
var (
	MaterialTypes = []string{"高强度合金钢", "耐磨铝合金", "工程塑料", "陶瓷涂层"}
	Environments  = []string{"干燥常温环境", "潮湿腐蚀环境", "高粉尘磨粒环境", "交变载荷环境"}
)

// Validate trims the text fields and rejects empty ones. Free-form values
// outside the option lists are accepted.
func (r *Request) Validate() error {
	r.MaterialType = strings.TrimSpace(r.MaterialType)
	r.Environment = strings.TrimSpace(r.Environment)
	if r.MaterialType == "" {
		return errors.InvalidParam("materialType is required")
	}
	if r.Environment == "" {
		return errors.InvalidParam("environment is required")
	}
	return nil
}

const promptText = `作为农机材料专家，请根据以下工况预测材料性能：
材料类型: {{.MaterialType}}
环境条件: {{.Environment}}
工作温度: {{num .Temperature}}°C
负载: {{num .Load}} kN

请基于物理模型逻辑进行估算，并以JSON格式返回以下数据：
1. lifespan (预期寿命，单位小时，数字)
2. efficiency (预期工作效率保持率，0-100，数字)
3. riskAnalysis (风险分析，简短文本)
4. maintenanceAdvice (维护建议，简短文本)
`

var promptTemplate = template.Must(template.New("estimate").Funcs(template.FuncMap{
	"num": formatNumber,
}).Parse(promptText))

// BuildPrompt renders the expert prompt for req.
func BuildPrompt(req Request) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, req); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "render prediction prompt")
	}
	return buf.String(), nil
}
