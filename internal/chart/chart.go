// Package chart turns aggregated study statistics into embeddable HTML
// charts.
package chart

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/dukerupert/studytracker/internal/stats"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

// DefaultAssetsHost serves echarts.min.js.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Data is the aggregation output the dashboard charts are drawn from.
type Data struct {
	Subjects []stats.SubjectTotal
	Daily    []stats.DailyTotal
	Matrix   stats.Matrix
}

// Charts holds rendered HTML fragments, each a container element followed
// by its init script.
type Charts struct {
	HoursBySubject  template.HTML
	HoursOverTime   template.HTML
	ActivityHeatmap template.HTML
}

// Empty reports whether nothing was rendered.
func (c Charts) Empty() bool {
	return c.HoursBySubject == "" && c.HoursOverTime == "" && c.ActivityHeatmap == ""
}

// Renderer draws the dashboard charts.
type Renderer interface {
	Render(Data) (Charts, error)
	ScriptURL() string
}

// EChartsRenderer renders with Apache ECharts via go-echarts.
type EChartsRenderer struct {
	assetsHost string
}

func NewEChartsRenderer(assetsHost string) *EChartsRenderer {
	if assetsHost == "" {
		assetsHost = DefaultAssetsHost
	}
	return &EChartsRenderer{assetsHost: assetsHost}
}

// ScriptURL is the ECharts library the fragments expect on the page.
func (r *EChartsRenderer) ScriptURL() string {
	return r.assetsHost + "echarts.min.js"
}

// Render returns empty Charts when there is nothing to plot.
func (r *EChartsRenderer) Render(d Data) (Charts, error) {
	if len(d.Subjects) == 0 {
		return Charts{}, nil
	}
	return Charts{
		HoursBySubject:  snippet(r.bar(d.Subjects)),
		HoursOverTime:   snippet(r.line(d.Daily)),
		ActivityHeatmap: snippet(r.heatmap(d.Matrix)),
	}, nil
}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func snippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + guardScript(s.Script))
}

// guardScript escapes every "</" and "<!--" between the opening and closing
// script tags. Chart options carry subject names verbatim, and go-echarts
// does not HTML-escape them, so a subject containing "</script>" would
// otherwise end the block. Inside JS strings "<\/" still reads as "</".
func guardScript(script string) string {
	start := strings.Index(script, ">")
	end := strings.LastIndex(script, "</script>")
	if start < 0 || end <= start {
		return script
	}
	body := script[start+1 : end]
	body = strings.ReplaceAll(body, "</", `<\/`)
	body = strings.ReplaceAll(body, "<!--", `<\!--`)
	return script[:start+1] + body + script[end:]
}

func (r *EChartsRenderer) init(id string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID:    id,
		AssetsHost: r.assetsHost,
		Width:      "100%",
		Height:     "360px",
	})
}

func (r *EChartsRenderer) bar(totals []stats.SubjectTotal) *charts.Bar {
	subjects := make([]string, 0, len(totals))
	items := make([]opts.BarData, 0, len(totals))
	for _, t := range totals {
		subjects = append(subjects, t.Subject)
		items = append(items, opts.BarData{Value: round2(t.Hours)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.init("hours-by-subject"),
		charts.WithTitleOpts(opts.Title{Title: "Total Hours by Subject"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Subject"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
	)
	bar.SetXAxis(subjects).AddSeries("Hours", items)
	return bar
}

func (r *EChartsRenderer) line(daily []stats.DailyTotal) *charts.Line {
	dates := make([]string, 0, len(daily))
	items := make([]opts.LineData, 0, len(daily))
	for _, d := range daily {
		dates = append(dates, d.Date.Format("2006-01-02"))
		items = append(items, opts.LineData{Value: round2(d.Hours)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		r.init("hours-over-time"),
		charts.WithTitleOpts(opts.Title{Title: "Study Hours Over Time"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
	)
	line.SetXAxis(dates).AddSeries("Hours", items)
	return line
}

func (r *EChartsRenderer) heatmap(m stats.Matrix) *charts.HeatMap {
	weeks := make([]string, 0, len(m.Weeks))
	for _, w := range m.Weeks {
		weeks = append(weeks, strconv.Itoa(w))
	}
	days := make([]string, 0, len(m.Days))
	for _, d := range m.Days {
		days = append(days, d.String())
	}

	var items []opts.HeatMapData
	for row := range m.Cells {
		for col, v := range m.Cells[row] {
			items = append(items, opts.HeatMapData{Value: [3]any{col, row, round2(v)}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		r.init("activity-heatmap"),
		charts.WithTitleOpts(opts.Title{Title: "Study Activity Heatmap"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Week of Year", Data: weeks}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Day of Week", Data: days}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:  0,
			Max:  float32(m.Max()),
			Text: []string{"Hours"},
		}),
	)
	hm.SetXAxis(weeks).AddSeries("Hours", items)
	return hm
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}
