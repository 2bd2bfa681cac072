// Package render turns report descriptions into ECharts option payloads and
// page view models. Styling lives here and nowhere else.
package render

const (
	PageBackground  = "#0CABA8"
	CardBackground  = "#08393B"
	SeriesColor     = "#F5E960"
	SecondaryColor  = "#F55D3E"
	TextColor       = "#FFFFFF"
	GridLineColor   = "rgba(255,255,255,0.3)"
	ChartBackground = "transparent"
	TitleFontSize   = 18
)

// Palette colours multi-series charts and pie slices in order.
var Palette = []string{SeriesColor, SecondaryColor, "#FFFFFF", "#3C91E6", "#A1E44D", "#FA824C", "#C6D8D3"}

const (
	chartHeight     = 420
	rowHeight       = 28
	rowChartPadding = 120
)
