package catalog

// ExperimentType is the test discipline of an experiment record.
type ExperimentType string

const (
	ExperimentMechanical  ExperimentType = "力学测试"
	ExperimentDurability  ExperimentType = "耐久性测试"
	ExperimentEnvironment ExperimentType = "环境测试"
	ExperimentPhysical    ExperimentType = "物理性能"
)

// ExperimentTypes lists the experiment types in display order.
var ExperimentTypes = []ExperimentType{ExperimentMechanical, ExperimentDurability, ExperimentEnvironment, ExperimentPhysical}

// ExperimentStatus is the progress of an experiment.
type ExperimentStatus string

const (
	StatusCompleted  ExperimentStatus = "Completed"
	StatusProcessing ExperimentStatus = "Processing"
	StatusPending    ExperimentStatus = "Pending"
)

// Valid reports whether s is a known status.
func (s ExperimentStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusProcessing, StatusPending:
		return true
	}
	return false
}

// ChartConfig names the series keys and axis labels of an experiment chart.
type ChartConfig struct {
	XKey   string `json:"xKey" yaml:"x_key"`
	YKey   string `json:"yKey" yaml:"y_key"`
	XLabel string `json:"xLabel" yaml:"x_label"`
	YLabel string `json:"yLabel" yaml:"y_label"`
}

// Experiment is a lab test record.
type Experiment struct {
	ID           string           `json:"id" yaml:"id"`
	TestCode     string           `json:"testCode" yaml:"test_code"`
	Title        string           `json:"title" yaml:"title"`
	Type         ExperimentType   `json:"type" yaml:"type"`
	MaterialName string           `json:"materialName" yaml:"material_name"`
	Date         string           `json:"date" yaml:"date"`
	Status       ExperimentStatus `json:"status" yaml:"status"`
	Standard     string           `json:"standard" yaml:"standard"`
	Operator     string           `json:"operator" yaml:"operator"`
	Conditions   AttributeGroup   `json:"conditions" yaml:"conditions"`
	Results      AttributeGroup   `json:"results" yaml:"results"`

	ChartType   string                   `json:"chartType,omitempty" yaml:"chart_type"`
	ChartData   []map[string]interface{} `json:"chartData,omitempty" yaml:"chart_data"`
	ChartConfig *ChartConfig             `json:"chartConfig,omitempty" yaml:"chart_config"`

	ImageURL string `json:"imageUrl,omitempty" yaml:"image_url"`
}
