package catalog

// Trend is the direction badge of a simulation result metric.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// ResultMetric is one precomputed figure shown on a simulation card.
type ResultMetric struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Unit  string `json:"unit" yaml:"unit"`
	Trend Trend  `json:"trend,omitempty" yaml:"trend"`
}

// SimulationModel is a precomputed simulation case. Nothing is simulated at runtime.
type SimulationModel struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"description"`
	Thumbnail     string         `json:"thumbnail" yaml:"thumbnail"`
	VideoURL      string         `json:"videoUrl,omitempty" yaml:"video_url"`
	Specs         AttributeGroup `json:"specs" yaml:"specs"`
	ResultMetrics []ResultMetric `json:"resultMetrics,omitempty" yaml:"result_metrics"`
}

// CaseStudy is an application story.
type CaseStudy struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Summary  string   `json:"summary" yaml:"summary"`
	Content  string   `json:"content,omitempty" yaml:"content"`
	Date     string   `json:"date" yaml:"date"`
	ImageURL string   `json:"imageUrl" yaml:"image_url"`
	Tags     []string `json:"tags" yaml:"tags"`
}
