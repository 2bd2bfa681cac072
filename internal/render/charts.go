package render

import (
	"encoding/json"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/report"
)

// Chart is one rendered chart. Options is the ECharts option object; Labels
// holds the preformatted value label of every point, per series, which the
// page script installs as label formatters.
type Chart struct {
	ID      string
	Section string
	Title   string
	Kind    report.ChartKind
	Height  int
	Error   string
	Options map[string]any
	Labels  [][]string
}

func (c Chart) Failed() bool {
	return c.Error != ""
}

// Payload is the JSON stored on the chart container for the page script.
func (c Chart) Payload() (string, error) {
	data, err := json.Marshal(struct {
		Kind    report.ChartKind `json:"kind"`
		Options map[string]any   `json:"options"`
		Labels  [][]string       `json:"labels"`
	}{c.Kind, c.Options, c.Labels})
	if err != nil {
		return "", fmt.Errorf("marshal chart %s: %w", c.ID, err)
	}
	return string(data), nil
}

// NewChart builds the ECharts options for spec. A failed spec yields a
// Chart carrying only its error.
func NewChart(spec report.ChartSpec) Chart {
	c := Chart{
		ID:      spec.ID,
		Section: spec.Section,
		Title:   spec.Title,
		Kind:    spec.Kind,
		Height:  heightFor(spec),
		Error:   spec.Error,
	}
	if spec.Failed() {
		return c
	}

	for _, s := range spec.Series {
		c.Labels = append(c.Labels, s.Labels)
	}

	switch spec.Kind {
	case report.ChartLine:
		line := lineChart(spec)
		line.Validate()
		c.Options = line.JSON()
	case report.ChartPie:
		pie := pieChart(spec)
		pie.Validate()
		c.Options = pie.JSON()
	case report.ChartBar, report.ChartHorizontalBar:
		bar := barChart(spec)
		bar.Validate()
		c.Options = bar.JSON()
	default:
		c.Error = fmt.Sprintf("unsupported chart kind %q", spec.Kind)
	}
	return c
}

func heightFor(spec report.ChartSpec) int {
	if spec.Kind != report.ChartHorizontalBar {
		return chartHeight
	}
	return max(chartHeight, len(spec.Categories)*rowHeight+rowChartPadding)
}

func globalOptions(spec report.ChartSpec) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         spec.ID,
			Height:          fmt.Sprintf("%dpx", heightFor(spec)),
			BackgroundColor: ChartBackground,
		}),
		charts.WithColorsOpts(opts.Colors(Palette)),
		charts.WithTitleOpts(opts.Title{
			Title: spec.Title,
			Left:  "center",
			TitleStyle: &opts.TextStyle{
				Color:    TextColor,
				FontSize: TitleFontSize,
			},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: tooltipTrigger(spec.Kind),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(len(spec.Series) > 1 || spec.Kind == report.ChartPie),
			Top:       "30",
			TextStyle: &opts.TextStyle{Color: TextColor},
		}),
	}
}

func tooltipTrigger(kind report.ChartKind) string {
	if kind == report.ChartPie {
		return "item"
	}
	return "axis"
}

func axisOptions(spec report.ChartSpec) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{
			Name:         spec.CategoryLabel,
			NameLocation: "center",
			NameGap:      30,
			AxisLabel:    &opts.AxisLabel{Color: TextColor},
			SplitLine:    &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      spec.ValueLabel,
			AxisLabel: &opts.AxisLabel{Color: TextColor},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: GridLineColor},
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:         "40",
			Right:        "60",
			Top:          "70",
			Bottom:       "50",
			ContainLabel: opts.Bool(true),
		}),
	}
}

func valueLabel(position string) charts.SeriesOpts {
	return charts.WithLabelOpts(opts.Label{
		Show:     opts.Bool(true),
		Position: position,
		Color:    TextColor,
	})
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func lineChart(spec report.ChartSpec) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOptions(spec), axisOptions(spec)...)...)
	line.SetXAxis(spec.Categories)

	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range floats(s.Values) {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data,
			valueLabel("top"),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)
	}
	return line
}

func barChart(spec report.ChartSpec) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOptions(spec), axisOptions(spec)...)...)
	bar.SetXAxis(spec.Categories)

	position := "top"
	if spec.Kind == report.ChartHorizontalBar {
		position = "right"
	}
	for _, s := range spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range floats(s.Values) {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data, valueLabel(position))
	}

	if spec.Kind == report.ChartHorizontalBar {
		bar.XYReversal()
	}
	return bar
}

func pieChart(spec report.ChartSpec) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(spec)...)

	for _, s := range spec.Series {
		data := make([]opts.PieData, len(s.Values))
		for i, v := range floats(s.Values) {
			data[i] = opts.PieData{Name: spec.Categories[i], Value: v}
		}
		pie.AddSeries(s.Name, data,
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Color:     TextColor,
				Formatter: "{b}: {d}%",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "65%"},
				Center: []string{"50%", "58%"},
			}),
		)
	}
	return pie
}
