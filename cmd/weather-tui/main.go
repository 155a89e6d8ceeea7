package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/history"
	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/theme"
	"github.com/i474232898/weather-lookup/internal/ui"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// cli holds flags that override the environment for one TUI session.
type cli struct {
	Dark    bool   `help:"Start in the dark theme."`
	Store   string `help:"History backend (memory, sqlite, redis)."`
	DB      string `help:"SQLite database path when --store=sqlite." type:"path"`
	LogFile string `help:"Write logs to this file." default:"weather-tui.log" type:"path"`
	Query   string `arg:"" optional:"" help:"Look this place up on start."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("weather-tui"),
		kong.Description("Look up current weather and a 3-day forecast in the terminal."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.InitFile(flags.LogFile, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "open log file:", err)
		os.Exit(1)
	}
	defer logging.Close()

	if flags.Store != "" {
		cfg.StoreBackend = flags.Store
	}
	if flags.DB != "" {
		cfg.SQLitePath = flags.DB
	}

	if err := run(cfg, flags); err != nil {
		logging.Error("tui exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, flags cli) error {
	ctx := context.Background()

	kv, err := store.Open(ctx, store.Options{
		Backend:    cfg.StoreBackend,
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	ledger := history.New(kv)
	ledger.Load(ctx)

	provider := providers.NewWeatherAPIProvider(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.WeatherAPIKey, providers.WeatherAPISettings{
		BaseURL:       cfg.WeatherAPIBaseURL,
		Days:          cfg.ForecastDays,
		MaxRetries:    cfg.ProviderMaxRetries,
		RatePerSecond: cfg.ProviderRatePerSecond,
	})

	themeSignal := theme.NewSignal(cfg.ThemeDark || flags.Dark)
	bridge := theme.NewBridge(themeSignal, nil)
	bridge.Start()
	defer bridge.Close()

	// The program needs the controller and the controller's notifier needs the
	// program, so events go through a forwarding closure.
	var program *tea.Program
	send := func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}
	controller := query.New(provider, ledger,
		query.WithTimeout(cfg.QueryTimeout),
		query.WithNotifier(ui.Notifier(send)),
	)

	// OnChange fires inside Update on ctrl+t; Send must not run on the event loop.
	stopStyle := bridge.OnChange(func(p theme.StyleParameters) {
		go send(ui.StyleChanged{Style: p})
	})
	defer stopStyle()

	app := ui.NewApp(ui.SubmitWith(controller), ui.ToggleWith(themeSignal, bridge), bridge.Params(), ledger.Entries())
	program = tea.NewProgram(app, tea.WithAltScreen())

	sched := scheduler.New(controller, cfg.RefreshInterval, cfg.QueryTimeout)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	if flags.Query != "" {
		go func() {
			st, err := controller.Submit(ctx, flags.Query)
			send(ui.QueryDone{State: st, History: controller.History(), Err: err})
		}()
	}

	_, err = program.Run()
	return err
}
