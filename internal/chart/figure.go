// Package chart builds Plotly-compatible figures for price histories and
// forecasts. Every builder is a pure function of its arguments.
package chart

import (
	"fmt"
	"time"

	"StockForecast/internal/model"
)

const dateLayout = "2006-01-02"

// Figure is the JSON document Plotly.newPlot consumes.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Line *Line     `json:"line,omitempty"`
}

type Line struct {
	Dash string `json:"dash,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Text `json:"title"`
}

type Layout struct {
	Title *Text `json:"title,omitempty"`
	XAxis *Axis `json:"xaxis,omitempty"`
	YAxis *Axis `json:"yaxis,omitempty"`
}

// Empty returns a figure with no traces.
func Empty() *Figure {
	return &Figure{Data: []Trace{}}
}

func priceLayout(title string) Layout {
	return Layout{
		Title: &Text{Text: title},
		XAxis: &Axis{Title: Text{Text: "Date"}},
		YAxis: &Axis{Title: Text{Text: "Price (USD)"}},
	}
}

func line(name string, dates []time.Time, prices []float64, dash string) Trace {
	x := make([]string, len(dates))
	for i, d := range dates {
		x[i] = d.Format(dateLayout)
	}
	t := Trace{Type: "scatter", Mode: "lines", Name: name, X: x, Y: prices}
	if dash != "" {
		t.Line = &Line{Dash: dash}
	}
	return t
}

func observationLine(name string, obs []model.Observation) Trace {
	dates := make([]time.Time, len(obs))
	for i, o := range obs {
		dates[i] = o.Date
	}
	return line(name, dates, model.Closes(obs), "")
}

// HistoryFigure plots the closing prices of series as a solid line.
func HistoryFigure(series *model.PriceSeries) *Figure {
	return &Figure{
		Data:   []Trace{observationLine("Close Price", series.Observations)},
		Layout: priceLayout(fmt.Sprintf("%s Stock Price", series.Symbol)),
	}
}

// ForecastFigure plots the history as a solid line and the forecast as a
// dashed overlay.
func ForecastFigure(series *model.PriceSeries, res *model.ForecastResult) *Figure {
	return &Figure{
		Data: []Trace{
			observationLine("Historical Close Price", series.Observations),
			line("Forecasted Price", res.Dates, res.Prices, "dash"),
		},
		Layout: priceLayout(fmt.Sprintf("%s Stock Price Forecast", series.Symbol)),
	}
}
