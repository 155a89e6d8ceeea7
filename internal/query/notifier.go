package query

// Notifier receives the controller's output events. Methods are called
// synchronously from Submit and must not call Submit themselves.
type Notifier interface {
	StateChanged(State)
	LoadingChanged(loading bool)
	InputCleared()
}

// NotifierFuncs adapts plain funcs to Notifier; nil fields are skipped.
type NotifierFuncs struct {
	OnState        func(State)
	OnLoading      func(bool)
	OnInputCleared func()
}

func (n NotifierFuncs) StateChanged(s State) {
	if n.OnState != nil {
		n.OnState(s)
	}
}

func (n NotifierFuncs) LoadingChanged(loading bool) {
	if n.OnLoading != nil {
		n.OnLoading(loading)
	}
}

func (n NotifierFuncs) InputCleared() {
	if n.OnInputCleared != nil {
		n.OnInputCleared()
	}
}
