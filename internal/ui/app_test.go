package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/theme"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type submitRecorder struct {
	keys []string
}

func (s *submitRecorder) submit(key string) tea.Cmd {
	s.keys = append(s.keys, key)
	return func() tea.Msg { return nil }
}

func newTestApp(history []string) (App, *submitRecorder, *theme.Signal) {
	rec := &submitRecorder{}
	signal := theme.NewSignal(false)
	bridge := theme.NewBridge(signal, nil)
	bridge.Start()
	return NewApp(rec.submit, ToggleWith(signal, bridge), bridge.Params(), history), rec, signal
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok)
	return next
}

func typeText(t *testing.T, a App, s string) App {
	t.Helper()
	return update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func successState() query.State {
	return query.State{
		Status: query.StatusSuccess,
		Key:    "Tokyo",
		Conditions: weather.CurrentConditions{
			Country:       "Japan",
			PlaceName:     "Tokyo",
			TemperatureC:  "22",
			ConditionText: "Clear",
		},
		Forecast: weather.ForecastSeries{
			{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), AvgTempC: 20.5},
			{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), AvgTempC: 21.0},
		},
	}
}

func TestApp_EnterSubmitsTypedKey(t *testing.T) {
	a, rec, _ := newTestApp(nil)

	a = typeText(t, a, "Tokyo")
	assert.Equal(t, "Tokyo", a.Input())

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = m.(App)
	assert.NotNil(t, cmd)
	assert.Equal(t, []string{"Tokyo"}, rec.keys)
	assert.True(t, a.Loading())
}

func TestApp_EnterIgnoresBlankInput(t *testing.T) {
	a, rec, _ := newTestApp(nil)

	a = typeText(t, a, "   ")
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = m.(App)

	assert.Nil(t, cmd)
	assert.Empty(t, rec.keys)
	assert.False(t, a.Loading())
}

func TestApp_QueryDone(t *testing.T) {
	a, _, _ := newTestApp(nil)
	a = typeText(t, a, "Tokyo")
	a = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	a = update(t, a, InputCleared{})
	a = update(t, a, QueryDone{State: successState(), History: []string{"Tokyo"}})

	assert.False(t, a.Loading())
	assert.Empty(t, a.Input())
	assert.Equal(t, query.StatusSuccess, a.State().Status)

	view := a.View()
	assert.Contains(t, view, "Tokyo, Japan")
	assert.Contains(t, view, "22°C")
	assert.Contains(t, view, "Clear")
	assert.Contains(t, view, "5/1")
	assert.Contains(t, view, "Recent searches")
}

func TestApp_FailureKeepsResultAndShowsBanner(t *testing.T) {
	a, _, _ := newTestApp(nil)
	a = update(t, a, QueryDone{State: successState()})

	failed := successState()
	failed.Status = query.StatusFailed
	failed.Key = "Atlantis"
	failed.Reason = "No matching location found."
	a = update(t, a, QueryDone{State: failed, Err: errors.New("boom")})

	assert.Equal(t, "No matching location found.", a.Banner())
	assert.Contains(t, a.View(), "Tokyo, Japan")
}

func TestApp_SupersededResultIgnored(t *testing.T) {
	a, _, _ := newTestApp(nil)
	a = update(t, a, QueryDone{State: successState()})

	stale := query.State{Status: query.StatusSuccess, Key: "Stale"}
	a = update(t, a, QueryDone{State: stale, Err: query.ErrSuperseded})
	assert.Equal(t, weather.QueryKey("Tokyo"), a.State().Key)
}

func TestApp_TabCyclesHistory(t *testing.T) {
	a, rec, _ := newTestApp([]string{"Tokyo", "Paris"})

	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Tokyo", a.Input())
	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Paris", a.Input())
	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Tokyo", a.Input())

	_ = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"Tokyo"}, rec.keys)
}

func TestApp_ToggleTheme(t *testing.T) {
	a, _, signal := newTestApp(nil)
	assert.Contains(t, a.View(), "DARK MODE")

	a = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, signal.Dark())
	assert.True(t, a.style.Dark)
	assert.Contains(t, a.View(), "LIGHT MODE")
}

func TestApp_NotifierMessages(t *testing.T) {
	a, _, _ := newTestApp(nil)

	var msgs []tea.Msg
	n := Notifier(func(m tea.Msg) { msgs = append(msgs, m) })
	n.LoadingChanged(true)
	n.StateChanged(successState())
	n.LoadingChanged(false)
	n.InputCleared()
	require.Len(t, msgs, 4)

	for _, m := range msgs {
		a = update(t, a, m)
	}
	assert.False(t, a.Loading())
	assert.Equal(t, "Tokyo", a.State().Conditions.PlaceName)
}

func TestApp_EscQuits(t *testing.T) {
	a, _, _ := newTestApp(nil)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRenderChart_Empty(t *testing.T) {
	a, _, _ := newTestApp(nil)
	view := a.View()
	assert.False(t, strings.Contains(view, "°C"), "no chart or conditions before the first result")
}
