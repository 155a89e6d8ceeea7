package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-lookup/internal/metrics"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	// DefaultWeatherAPIBaseURL is the public WeatherAPI.com endpoint.
	DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

	// MaxForecastDays is the free plan's maximum lookahead.
	MaxForecastDays = 3
)

var errMissingSection = errors.New("response is missing location or current section")

// WeatherAPISettings tunes the WeatherAPI.com provider. Zero values pick defaults.
type WeatherAPISettings struct {
	BaseURL       string
	Days          int
	MaxRetries    int
	RatePerSecond float64 // 0 disables client-side rate limiting
}

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, settings WeatherAPISettings) *WeatherAPIProvider {
	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}
	days := settings.Days
	if days <= 0 || days > MaxForecastDays {
		days = MaxForecastDays
	}
	retries := settings.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var limiter *rate.Limiter
	if settings.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.RatePerSecond), 1)
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		days:    days,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      retries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: limiter,
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// forecastPayload mirrors the parts of forecast.json we read. Location and
// Current are pointers so a structurally incomplete body can be told apart
// from one carrying empty strings.
type forecastPayload struct {
	Location *struct {
		Country string `json:"country"`
		Name    string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     json.Number `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
	Forecast *struct {
		ForecastDay []weather.ForecastDay `json:"forecastday"`
	} `json:"forecast"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, key weather.QueryKey) (weather.Report, error) {
	if p.apiKey == "" {
		return weather.Report{}, &weather.TransportError{Op: "weatherapi", Err: fmt.Errorf("api key is not configured")}
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", string(key))
		values.Set("days", strconv.Itoa(p.days))
		values.Set("aqi", "no")

		u := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	start := time.Now()
	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	metrics.ProviderLatency.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(p.name, "transport_error").Inc()
		return weather.Report{}, &weather.TransportError{Op: "fetch forecast", Err: err}
	}

	report, err := decodeForecast(resp)
	switch {
	case err == nil:
		metrics.ProviderCallsTotal.WithLabelValues(p.name, "ok").Inc()
	case isProviderError(err):
		metrics.ProviderCallsTotal.WithLabelValues(p.name, "provider_error").Inc()
	default:
		metrics.ProviderCallsTotal.WithLabelValues(p.name, "transport_error").Inc()
	}
	return report, err
}

func decodeForecast(resp *rawResponse) (weather.Report, error) {
	var payload forecastPayload
	decodeErr := json.Unmarshal(resp.Body, &payload)

	// WeatherAPI reports logical failures as {"error": {...}}, usually with a 4xx status.
	if decodeErr == nil && payload.Error != nil {
		return weather.Report{}, &weather.ProviderError{Code: payload.Error.Code, Message: payload.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Report{}, &weather.TransportError{Op: "fetch forecast", Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}
	if decodeErr != nil {
		return weather.Report{}, &weather.TransportError{Op: "decode forecast", Err: decodeErr}
	}
	if payload.Location == nil || payload.Current == nil {
		return weather.Report{}, &weather.TransportError{Op: "decode forecast", Err: errMissingSection}
	}

	report := weather.Report{
		Conditions: weather.CurrentConditions{
			Country:       payload.Location.Country,
			PlaceName:     payload.Location.Name,
			TemperatureC:  payload.Current.TempC.String(),
			ConditionText: payload.Current.Condition.Text,
			IconRef:       payload.Current.Condition.Icon,
		},
	}
	if payload.Forecast != nil {
		report.ForecastDays = payload.Forecast.ForecastDay
	}
	return report, nil
}

func isProviderError(err error) bool {
	var pe *weather.ProviderError
	return errors.As(err, &pe)
}
