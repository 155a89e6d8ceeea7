package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func temp(v float64) *float64 { return &v }

func TestTransformForecast(t *testing.T) {
	days := []ForecastDay{
		{Date: "2024-05-01", Day: &ForecastDaily{AvgTempC: temp(20.5)}},
		{Date: "2024-05-02", Day: &ForecastDaily{AvgTempC: temp(21.0)}},
	}

	got, err := TransformForecast(days)
	require.NoError(t, err)

	want := ForecastSeries{
		{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), AvgTempC: 20.5},
		{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), AvgTempC: 21.0},
	}
	assert.Equal(t, want, got)

	// Same input, same output, regardless of what ran before.
	_, _ = TransformForecast([]ForecastDay{{Date: "2030-01-01", Day: &ForecastDaily{AvgTempC: temp(-3)}}})
	again, err := TransformForecast(days)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestTransformForecast_KeepsInputOrder(t *testing.T) {
	days := []ForecastDay{
		{Date: "2024-05-03", Day: &ForecastDaily{AvgTempC: temp(18)}},
		{Date: "2024-05-01", Day: &ForecastDaily{AvgTempC: temp(22)}},
	}

	got, err := TransformForecast(days)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Date.Day())
	assert.Equal(t, 1, got[1].Date.Day())
}

func TestTransformForecast_Empty(t *testing.T) {
	got, err := TransformForecast(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransformForecast_Malformed(t *testing.T) {
	tests := []struct {
		name string
		days []ForecastDay
	}{
		{name: "missing day", days: []ForecastDay{{Date: "2024-05-01"}}},
		{name: "missing avgtemp", days: []ForecastDay{{Date: "2024-05-01", Day: &ForecastDaily{}}}},
		{name: "bad date", days: []ForecastDay{{Date: "May 1st", Day: &ForecastDaily{AvgTempC: temp(1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformForecast(tt.days)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedForecast))
		})
	}
}

func TestForecastSeries_Labels(t *testing.T) {
	s := ForecastSeries{
		{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), AvgTempC: 20.5},
		{Date: time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), AvgTempC: 3},
	}
	assert.Equal(t, []string{"5/1", "12/24"}, s.Labels())
	assert.Equal(t, []float64{20.5, 3}, s.Temperatures())
}

func TestQueryKey_Blank(t *testing.T) {
	assert.True(t, QueryKey("   ").Blank())
	assert.True(t, QueryKey("").Blank())
	assert.False(t, QueryKey(" Tokyo ").Blank())
}
