// Package report turns derived aggregates into declarative chart and card
// descriptions. It has no rendering dependency.
package report

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
)

type ChartKind string

const (
	ChartLine          ChartKind = "line"
	ChartHorizontalBar ChartKind = "horizontal-bar"
	ChartBar           ChartKind = "bar"
	ChartPie           ChartKind = "pie"
)

type LabelPosition string

const (
	LabelNone    LabelPosition = ""
	LabelOutside LabelPosition = "outside"
	LabelTop     LabelPosition = "top"
)

type ValueFormat string

const (
	FormatCurrency ValueFormat = "currency"
	FormatInteger  ValueFormat = "integer"
	FormatPlain    ValueFormat = "plain"
)

const (
	CurrencySymbol = "R$"
	// OpenText marks a card whose value has no computation rule yet.
	OpenText        = "Em aberto"
	UnavailableText = "indisponível"
)

func (f ValueFormat) Format(v decimal.Decimal) string {
	switch f {
	case FormatCurrency:
		return CurrencySymbol + " " + humanize.FormatFloat("#,###.##", v.Round(2).InexactFloat64())
	case FormatInteger:
		return humanize.Comma(v.Round(0).IntPart())
	default:
		return v.String()
	}
}

type Series struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
	Labels []string          `json:"labels"`
}

func newSeries(name string, values []decimal.Decimal, format ValueFormat) Series {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = format.Format(v)
	}
	return Series{Name: name, Values: values, Labels: labels}
}

// ChartSpec describes one chart: its data binding and the few visual
// choices that depend on the data (kind, label placement, truncation).
// A non-empty Error means the chart could not be derived and is shown as a
// placeholder.
type ChartSpec struct {
	ID            string        `json:"id"`
	Section       string        `json:"section,omitempty"`
	Title         string        `json:"title"`
	Kind          ChartKind     `json:"kind"`
	CategoryLabel string        `json:"category_label"`
	ValueLabel    string        `json:"value_label"`
	Categories    []string      `json:"categories"`
	Series        []Series      `json:"series"`
	Format        ValueFormat   `json:"format"`
	Labels        LabelPosition `json:"label_position,omitempty"`
	TopN          int           `json:"top_n,omitempty"`
	Error         string        `json:"error,omitempty"`
}

func (c ChartSpec) Failed() bool {
	return c.Error != ""
}

// CardSpec is one summary tile. Open marks a value that is deliberately not
// computed, which is distinct from zero.
type CardSpec struct {
	Title  string          `json:"title"`
	Value  decimal.Decimal `json:"value"`
	Format ValueFormat     `json:"format"`
	Open   bool            `json:"open"`
	Error  string          `json:"error,omitempty"`
}

func (c CardSpec) Display() string {
	switch {
	case c.Open:
		return OpenText
	case c.Error != "":
		return UnavailableText
	default:
		return c.Format.Format(c.Value)
	}
}

func (c CardSpec) MarshalJSON() ([]byte, error) {
	type card CardSpec
	return json.Marshal(struct {
		card
		Display string `json:"display"`
	}{card(c), c.Display()})
}

type Report struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Source      string      `json:"source"`
	Records     int         `json:"records"`
	Cards       []CardSpec  `json:"cards"`
	Charts      []ChartSpec `json:"charts"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Failures counts charts rendered as error placeholders.
func (r Report) Failures() int {
	n := 0
	for _, c := range r.Charts {
		if c.Failed() {
			n++
		}
	}
	return n
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
