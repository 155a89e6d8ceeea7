// Package chart builds a Chart.js line-chart config from a forecast series and
// the current chart style. It does no drawing itself.
package chart

import (
	"github.com/i474232898/weather-lookup/internal/theme"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	Title        = "3-day average temperature"
	DatasetLabel = "Average temperature (°C)"
	YAxisTitle   = "Temperature (°C)"
)

type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	Tension     float64   `json:"tension"`
}

type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              Scales  `json:"scales"`
}

type Plugins struct {
	Legend Legend    `json:"legend"`
	Title  TitleSpec `json:"title"`
}

type Legend struct {
	Position string      `json:"position"`
	Labels   ColorOption `json:"labels"`
}

type TitleSpec struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color"`
}

type ColorOption struct {
	Color string `json:"color"`
}

type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	Title  *TitleSpec  `json:"title,omitempty"`
	Ticks  ColorOption `json:"ticks"`
	Grid   ColorOption `json:"grid"`
	Border ColorOption `json:"border"`
}

// Build returns the chart config for series drawn with style. An empty series
// yields a config with no datasets; callers render nothing in that case.
func Build(series weather.ForecastSeries, style theme.StyleParameters) Config {
	cfg := Config{
		Type: "line",
		Data: Data{
			Labels:   series.Labels(),
			Datasets: []Dataset{},
		},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins: Plugins{
				Legend: Legend{Position: "top", Labels: ColorOption{Color: style.TextColor}},
				Title:  TitleSpec{Display: true, Text: Title, Color: style.TextColor},
			},
			Scales: Scales{
				X: axis(style, nil),
				Y: axis(style, &TitleSpec{Display: true, Text: YAxisTitle, Color: style.TextColor}),
			},
		},
	}

	if len(series) > 0 {
		cfg.Data.Datasets = append(cfg.Data.Datasets, Dataset{
			Label:       DatasetLabel,
			Data:        series.Temperatures(),
			BorderColor: style.LineColor,
			Tension:     0.1,
		})
	}
	return cfg
}

func axis(style theme.StyleParameters, title *TitleSpec) Axis {
	return Axis{
		Title:  title,
		Ticks:  ColorOption{Color: style.TextColor},
		Grid:   ColorOption{Color: style.GridColor},
		Border: ColorOption{Color: style.BorderColor},
	}
}
