// Package templates holds the HTML components of the dashboard pages.
// The components live in the .templ files; run `templ generate` after
// editing them.
package templates

import (
	"fmt"

	"github.com/a-h/templ"

	"sales-dashboard/internal/render"
)

const (
	echartsSrc  = "https://cdn.jsdelivr.net/npm/echarts@5.5.1/dist/echarts.min.js"
	datastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"

	CardsID  = "cards"
	ChartsID = "charts"
	StatusID = "status"
)

// Link is one entry of the dashboard switcher.
type Link struct {
	ID    string
	Title string
}

// Chart renders one chart container, or an error placeholder in its slot
// when the chart could not be built.
func Chart(c render.Chart) templ.Component {
	if c.Failed() {
		return ChartError(c.Title, c.Error)
	}
	payload, err := c.Payload()
	if err != nil {
		return ChartError(c.Title, err.Error())
	}
	return chartCard(c, payload)
}

func navClass(l Link, active string) string {
	if l.ID == active {
		return "nav-link active"
	}
	return "nav-link"
}

func dashboardURL(id string) templ.SafeURL {
	return templ.URL("/dashboards/" + id)
}

func refreshAction(id string) string {
	return fmt.Sprintf("@get('/sse/dashboards/%s/refresh')", id)
}

func statusText(p render.Page) string {
	return fmt.Sprintf("%s: %d registros, gerado em %s", p.Source, p.Records, p.GeneratedAt.Format("02/01/2006 15:04:05"))
}

func cardClass(c render.Card) string {
	switch {
	case c.Open:
		return "card open"
	case c.Failed:
		return "card failed"
	}
	return "card"
}

func chartStyle(c render.Chart) string {
	return fmt.Sprintf("height:%dpx", c.Height)
}
