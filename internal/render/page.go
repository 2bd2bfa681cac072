package render

import (
	"time"

	"sales-dashboard/internal/report"
)

type Card struct {
	Title   string
	Display string
	Open    bool
	Failed  bool
}

// Section groups consecutive charts under one heading. Charts without a
// section heading share an untitled section.
type Section struct {
	Title  string
	Charts []Chart
}

// Page is everything the dashboard template needs for one report.
type Page struct {
	ID          string
	Title       string
	Source      string
	Records     int
	Cards       []Card
	Sections    []Section
	GeneratedAt time.Time
}

func (p Page) Charts() []Chart {
	var out []Chart
	for _, s := range p.Sections {
		out = append(out, s.Charts...)
	}
	return out
}

func NewPage(r report.Report) Page {
	p := Page{
		ID:          r.ID,
		Title:       r.Title,
		Source:      r.Source,
		Records:     r.Records,
		GeneratedAt: r.GeneratedAt,
	}

	for _, c := range r.Cards {
		p.Cards = append(p.Cards, Card{
			Title:   c.Title,
			Display: c.Display(),
			Open:    c.Open,
			Failed:  c.Error != "",
		})
	}

	for _, spec := range r.Charts {
		chart := NewChart(spec)
		if n := len(p.Sections); n > 0 && p.Sections[n-1].Title == spec.Section {
			p.Sections[n-1].Charts = append(p.Sections[n-1].Charts, chart)
			continue
		}
		p.Sections = append(p.Sections, Section{Title: spec.Section, Charts: []Chart{chart}})
	}
	return p
}
