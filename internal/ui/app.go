package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-lookup/internal/chart"
	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/theme"
)

// Submitter is the part of query.Controller the TUI drives.
type Submitter interface {
	Submit(ctx context.Context, key string) (query.State, error)
	History() []string
}

// SubmitWith returns the submit command factory for q.
func SubmitWith(q Submitter) func(key string) tea.Cmd {
	return func(key string) tea.Cmd {
		return func() tea.Msg {
			st, err := q.Submit(context.Background(), key)
			return QueryDone{State: st, History: q.History(), Err: err}
		}
	}
}

// ToggleWith flips signal and returns the style the bridge derived from it.
func ToggleWith(signal *theme.Signal, bridge *theme.Bridge) func() theme.StyleParameters {
	return func() theme.StyleParameters {
		signal.Toggle()
		return bridge.Params()
	}
}

// App is the root Bubble Tea model. It does not own the controller; it
// receives results via messages.
type App struct {
	submit      func(key string) tea.Cmd
	toggleTheme func() theme.StyleParameters

	input   textinput.Model
	spinner spinner.Model

	state      query.State
	history    []string
	histCursor int
	loading    bool
	banner     string
	style      theme.StyleParameters
	styles     palette
	width      int
}

// NewApp creates the model. submit builds the command for one query,
// toggleTheme flips the theme and returns the new style.
func NewApp(submit func(key string) tea.Cmd, toggleTheme func() theme.StyleParameters, style theme.StyleParameters, history []string) App {
	ti := textinput.New()
	ti.Placeholder = "Enter a city"
	ti.CharLimit = 100
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return App{
		submit:      submit,
		toggleTheme: toggleTheme,
		input:       ti,
		spinner:     sp,
		state:       query.State{Status: query.StatusIdle},
		history:     history,
		histCursor:  -1,
		style:       style,
		styles:      newPalette(style),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case QueryDone:
		switch {
		case errors.Is(msg.Err, query.ErrSuperseded):
			return a, nil
		case errors.Is(msg.Err, query.ErrEmptyQuery):
			a.loading = false
			return a, nil
		}
		a.loading = false
		a.applyState(msg.State)
		if msg.History != nil {
			a.history = msg.History
		}
		return a, nil

	case StateChanged:
		a.applyState(msg.State)
		return a, nil

	case LoadingChanged:
		a.loading = msg.Loading
		return a, nil

	case InputCleared:
		a.input.Reset()
		a.histCursor = -1
		return a, nil

	case StyleChanged:
		a.setStyle(msg.Style)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return a, tea.Quit

	case "enter":
		key := a.input.Value()
		if strings.TrimSpace(key) == "" || a.submit == nil {
			return a, nil
		}
		a.loading = true
		return a, a.submit(key)

	case "tab":
		if len(a.history) > 0 {
			a.histCursor = (a.histCursor + 1) % len(a.history)
			a.input.SetValue(a.history[a.histCursor])
			a.input.CursorEnd()
		}
		return a, nil

	case "ctrl+t":
		if a.toggleTheme != nil {
			a.setStyle(a.toggleTheme())
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) applyState(st query.State) {
	a.state = st
	switch st.Status {
	case query.StatusFailed:
		a.banner = st.Reason
	case query.StatusSuccess:
		a.banner = ""
	}
}

func (a *App) setStyle(p theme.StyleParameters) {
	a.style = p
	a.styles = newPalette(p)
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Weather lookup"))
	b.WriteString(HelpText.Render("  [ctrl+t] " + theme.ToggleLabel(a.style.Dark)))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")

	if a.loading {
		b.WriteString(a.spinner.View() + " Loading...\n")
	}
	if a.banner != "" {
		b.WriteString(ErrorBanner.Render(a.banner) + "\n")
	}

	if res := a.renderConditions(); res != "" {
		b.WriteString("\n" + res + "\n")
	}
	if c := renderChart(chart.Build(a.state.Forecast, a.style), a.styles); c != "" {
		b.WriteString("\n" + c + "\n")
	}

	if len(a.history) > 0 {
		b.WriteString("\n" + a.styles.text.Render("Recent searches") + "\n")
		for i, h := range a.history {
			if i == a.histCursor {
				b.WriteString("  " + HistorySelected.Render(h) + "\n")
			} else {
				b.WriteString("  " + h + "\n")
			}
		}
	}

	b.WriteString("\n" + HelpText.Render("[enter] search  [tab] recent  [esc] quit"))
	return b.String()
}

// renderConditions prints the current conditions, skipping empty fields.
func (a App) renderConditions() string {
	c := a.state.Conditions
	var lines []string

	var place []string
	for _, s := range []string{c.PlaceName, c.Country} {
		if s != "" {
			place = append(place, s)
		}
	}
	if len(place) > 0 {
		lines = append(lines, a.styles.text.Bold(true).Render(strings.Join(place, ", ")))
	}
	if c.TemperatureC != "" {
		lines = append(lines, fmt.Sprintf("%s°C", c.TemperatureC))
	}
	if c.ConditionText != "" {
		lines = append(lines, c.ConditionText)
	}
	if c.IconRef != "" {
		lines = append(lines, HelpText.Render(c.IconRef))
	}
	return strings.Join(lines, "\n")
}

// State returns the rendered query state (for testing).
func (a App) State() query.State {
	return a.state
}

// Loading reports whether the spinner is shown (for testing).
func (a App) Loading() bool {
	return a.loading
}

// Input returns the text input's value (for testing).
func (a App) Input() string {
	return a.input.Value()
}

// Banner returns the failure message on screen, if any (for testing).
func (a App) Banner() string {
	return a.banner
}
