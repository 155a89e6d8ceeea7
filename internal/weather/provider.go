package weather

import (
	"context"
	"errors"
	"fmt"
)

// Provider abstracts the weather data source (WeatherAPI.com in production).
// Fetch returns current conditions and the short-range forecast for key.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, key QueryKey) (Report, error)
}

// ErrMalformedForecast is returned when a forecast day record is structurally absent.
var ErrMalformedForecast = errors.New("malformed forecast day")

// ProviderError is a logical failure reported by the provider inside an
// otherwise well-formed response (e.g. an unknown place name).
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
	}
	return "provider error: " + e.Message
}

// TransportError covers everything between us and a decoded response:
// network failures, unexpected status codes and unparsable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
