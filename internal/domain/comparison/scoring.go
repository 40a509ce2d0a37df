package comparison

import (
	"math"
	"regexp"
	"strconv"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
)

// MaxScore is the score of the best material on an axis.
const MaxScore = 100

var magnitudePattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ExtractMagnitude returns the first unsigned decimal number embedded in s,
// or 0 when s holds none. Units are ignored and a range such as "38-92"
// yields its first bound.
func ExtractMagnitude(s string) float64 {
	m := magnitudePattern.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// MetricSpec names one radar axis: the attribute key inside a group, and its
// display label. LowerIsBetter is carried through to the output but does not
// change the score.
type MetricSpec struct {
	Group         catalog.GroupName `json:"group"`
	Key           string            `json:"key"`
	Label         string            `json:"label"`
	LowerIsBetter bool              `json:"lowerIsBetter,omitempty"`
}

// DefaultMetrics are the radar axes of the material comparison view.
var DefaultMetrics = []MetricSpec{
	{Group: catalog.GroupMechanical, Key: "屈服强度", Label: "屈服强度"},
	{Group: catalog.GroupMechanical, Key: "抗拉强度", Label: "抗拉强度"},
	{Group: catalog.GroupMechanical, Key: "断后伸长率", Label: "塑性(伸长率)"},
	{Group: catalog.GroupMechanical, Key: "冲击功", Label: "韧性(冲击功)"},
	{Group: catalog.GroupPhysical, Key: "密度", Label: "密度(轻量化)", LowerIsBetter: true},
}

// ScorePoint is one radar axis: the per-material scores and the raw
// magnitudes they were derived from, both keyed by material id.
type ScorePoint struct {
	Label      string             `json:"label"`
	Metric     MetricSpec         `json:"metric"`
	Max        float64            `json:"max"`
	Scores     map[string]int     `json:"scores"`
	Magnitudes map[string]float64 `json:"magnitudes"`
}

// RadarSeries is the ordered list of axes, aligned with the metrics requested.
// MaterialIDs records the selection order the scores were computed for.
type RadarSeries struct {
	MaterialIDs []string     `json:"materialIds"`
	Points      []ScorePoint `json:"points"`
}

// Empty reports whether the series was computed for no materials.
func (r RadarSeries) Empty() bool { return len(r.MaterialIDs) == 0 }

// magnitude extracts the value of metric from m; an absent group or key is 0.
func magnitude(m *catalog.Material, metric MetricSpec) float64 {
	v, ok := m.Group(metric.Group).Get(metric.Key)
	if !ok {
		return 0
	}
	return ExtractMagnitude(v)
}

// ComputeScores normalizes each metric against its maximum over materials
// and maps every material to an integer score in [0, MaxScore]. A metric no
// material reports keeps its axis with every score at 0. Inputs are not
// modified and the result depends only on its arguments.
func ComputeScores(materials []*catalog.Material, metrics []MetricSpec) RadarSeries {
	series := RadarSeries{
		MaterialIDs: make([]string, 0, len(materials)),
		Points:      make([]ScorePoint, 0, len(metrics)),
	}
	if len(materials) == 0 {
		return series
	}
	for _, m := range materials {
		series.MaterialIDs = append(series.MaterialIDs, m.ID)
	}

	for _, metric := range metrics {
		p := ScorePoint{
			Label:      metric.Label,
			Metric:     metric,
			Scores:     make(map[string]int, len(materials)),
			Magnitudes: make(map[string]float64, len(materials)),
		}
		if p.Label == "" {
			p.Label = metric.Key
		}

		maxV := 0.0
		for _, m := range materials {
			v := magnitude(m, metric)
			p.Magnitudes[m.ID] = v
			if v > maxV {
				maxV = v
			}
		}
		if maxV == 0 {
			maxV = 1
		}
		p.Max = maxV

		for _, m := range materials {
			p.Scores[m.ID] = score(p.Magnitudes[m.ID], maxV)
		}
		series.Points = append(series.Points, p)
	}
	return series
}

// score rounds half away from zero, which is half-up for the non-negative
// magnitudes the extractor yields.
func score(v, maxV float64) int {
	if v == 0 {
		return 0
	}
	s := int(math.Round(v / maxV * MaxScore))
	if s < 0 {
		return 0
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
