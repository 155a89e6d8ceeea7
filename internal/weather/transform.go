package weather

import (
	"fmt"
	"time"
)

const forecastDateLayout = "2006-01-02"

// TransformForecast maps provider day records 1:1, in input order, to a
// ForecastSeries. Temperatures are copied as-is; the provider is queried in metric.
func TransformForecast(days []ForecastDay) (ForecastSeries, error) {
	series := make(ForecastSeries, 0, len(days))
	for i, d := range days {
		if d.Day == nil || d.Day.AvgTempC == nil {
			return nil, fmt.Errorf("%w: index %d has no day.avgtemp_c", ErrMalformedForecast, i)
		}
		date, err := time.Parse(forecastDateLayout, d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: index %d date %q: %v", ErrMalformedForecast, i, d.Date, err)
		}
		series = append(series, ForecastPoint{
			Date:     date.UTC(),
			AvgTempC: *d.Day.AvgTempC,
		})
	}
	return series, nil
}
