package weather

import (
	"strings"
	"time"
)

// QueryKey identifies a place the way the user typed it.
// The core does not normalize case or formatting.
type QueryKey string

// Blank reports whether the key is empty after trimming whitespace.
func (k QueryKey) Blank() bool {
	return strings.TrimSpace(string(k)) == ""
}

// CurrentConditions is the current-weather view rendered by the presentation layer.
// Empty fields mean "unset" and are not rendered.
type CurrentConditions struct {
	Country       string `json:"country"`
	PlaceName     string `json:"placeName"`
	TemperatureC  string `json:"temperatureC"`
	ConditionText string `json:"conditionText"`
	IconRef       string `json:"iconRef"`
}

// IsZero reports whether no field has been set yet.
func (c CurrentConditions) IsZero() bool {
	return c == CurrentConditions{}
}

// ForecastPoint is one day of the short-range trend.
type ForecastPoint struct {
	Date     time.Time `json:"date"` // UTC midnight
	AvgTempC float64   `json:"avgTempC"`
}

// ForecastSeries is ordered chronologically, exactly as the provider returned it.
type ForecastSeries []ForecastPoint

// Labels returns the M/D labels used on the chart x axis.
func (s ForecastSeries) Labels() []string {
	labels := make([]string, 0, len(s))
	for _, p := range s {
		labels = append(labels, p.Date.Format("1/2"))
	}
	return labels
}

// Temperatures returns the average temperatures in series order.
func (s ForecastSeries) Temperatures() []float64 {
	temps := make([]float64, 0, len(s))
	for _, p := range s {
		temps = append(temps, p.AvgTempC)
	}
	return temps
}

// Clone returns a copy that does not share backing storage with s.
func (s ForecastSeries) Clone() ForecastSeries {
	if s == nil {
		return nil
	}
	out := make(ForecastSeries, len(s))
	copy(out, s)
	return out
}

// Report is a structurally valid provider response: current conditions plus
// the raw forecast day records that still need to go through TransformForecast.
type Report struct {
	Conditions   CurrentConditions
	ForecastDays []ForecastDay
}

// ForecastDay is a raw provider day record (forecast.forecastday[]).
type ForecastDay struct {
	Date string         `json:"date"`
	Day  *ForecastDaily `json:"day"`
}

// ForecastDaily holds the per-day aggregates we consume.
type ForecastDaily struct {
	AvgTempC *float64 `json:"avgtemp_c"`
}
