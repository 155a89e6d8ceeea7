package query

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Status tags the current State.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is what the presentation layer renders. Conditions and Forecast
// always hold the last good result, also while Loading or Failed, so a failed
// query never blanks what is on screen.
type State struct {
	Status     Status                    `json:"status"`
	Key        weather.QueryKey          `json:"key,omitempty"`
	Conditions weather.CurrentConditions `json:"conditions"`
	Forecast   weather.ForecastSeries    `json:"forecast"`
	Reason     string                    `json:"reason,omitempty"`
	Token      uint64                    `json:"token"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

func (s State) clone() State {
	s.Forecast = s.Forecast.Clone()
	return s
}

// Result is a committed successful query.
type Result struct {
	Key        weather.QueryKey          `json:"key"`
	Conditions weather.CurrentConditions `json:"conditions"`
	Forecast   weather.ForecastSeries    `json:"forecast"`
	FetchedAt  time.Time                 `json:"fetchedAt"`
}

func (r Result) clone() Result {
	r.Forecast = r.Forecast.Clone()
	return r
}
