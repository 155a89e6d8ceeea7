package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/theme"
)

// QueryDone is sent when a submission started from the input resolves.
type QueryDone struct {
	State   query.State
	History []string
	Err     error
}

// StateChanged carries a controller state pushed by the notifier, e.g. from
// a background refresh.
type StateChanged struct {
	State query.State
}

// LoadingChanged mirrors the controller's loading indicator.
type LoadingChanged struct {
	Loading bool
}

// InputCleared asks the view to empty the text input.
type InputCleared struct{}

// StyleChanged carries a recomputed chart style.
type StyleChanged struct {
	Style theme.StyleParameters
}

// Notifier forwards controller events into a running program. send is
// usually (*tea.Program).Send.
func Notifier(send func(tea.Msg)) query.Notifier {
	return query.NotifierFuncs{
		OnState:        func(s query.State) { send(StateChanged{State: s}) },
		OnLoading:      func(l bool) { send(LoadingChanged{Loading: l}) },
		OnInputCleared: func() { send(InputCleared{}) },
	}
}
