package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
	"github.com/tartampluch/go-growth/internal/server"
	"github.com/zalando/go-keyring"
)

// BackendFactory builds the growth backend client for a base URL and token.
type BackendFactory func(baseURL, token string) engine.Backend

// GrowthApp encapsulates the UI state, preferences, and background logic.
type GrowthApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server     *server.GrowthServer
	Fetcher    engine.VCardFetcher
	NewBackend BackendFactory
	Clock      engine.Clock // Injected clock for testability

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayChartItem    *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	// engine is rebuilt lazily after the backend settings change.
	engineMu sync.Mutex
	engine   *engine.Engine

	// Children State
	ChildrenMut    sync.RWMutex
	Children       []engine.ChildProfile
	childrenWindow fyne.Window
	chartView      *chartView // guarded by ChildrenMut
}

// NewGrowthApp constructs the application and wires dependencies.
func NewGrowthApp(a fyne.App, ctx context.Context, srv *server.GrowthServer, fetcher engine.VCardFetcher, newBackend BackendFactory) *GrowthApp {
	if a.Icon() == nil {
		a.SetIcon(theme.GridIcon())
	}

	return &GrowthApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		NewBackend:         newBackend,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
		Children:           make([]engine.ChildProfile, 0),
	}
}

// Run launches the application services and the main UI loop.
func (app *GrowthApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *GrowthApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *GrowthApp) setupTrayMenu() {
	// The status item opens the children list.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowChildrenWindow()
	})

	app.TrayChartItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuChart), func() {
		app.ShowChartWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performSync(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayChartItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *GrowthApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayChartItem.Label = app.GetMsg(config.TKeyMenuChart)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// backgroundWorker manages the periodic synchronization schedule.
func (app *GrowthApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	getInterval := func() time.Duration {
		val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
		if val <= 0 {
			val = config.DefaultRefreshMin
		}
		return time.Duration(val) * time.Minute
	}

	currentDuration := getInterval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := getInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				ticker.Reset(currentDuration)
			}

		case <-ticker.C:
			app.performSync(false)
		}
	}
}

// performSync reloads the children directory and republishes the check-up
// calendar.
func (app *GrowthApp) performSync(manual bool) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	planner := &engine.CheckupPlanner{
		Clock:         app.Clock,
		Directory:     &engine.Directory{Fetcher: app.Fetcher},
		FormatSummary: app.buildSummaryFormatter(),
	}
	// Without a backend the plan falls back to the current age.
	if backend := app.backend(); backend != nil {
		planner.Measurements = backend
	}

	icsData, children, _, err := planner.RunSync(app.Ctx, app.loadSyncConfig())
	if err != nil {
		slog.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleSyncError, app.GetMsg(config.TKeyNotifError)))
		}
		app.updateTrayStatus(-1)
		return
	}

	app.ChildrenMut.Lock()
	app.Children = children
	view := app.chartView
	app.ChildrenMut.Unlock()

	app.Server.UpdateCalendar(icsData)
	app.updateTrayStatus(len(children))

	if view != nil {
		fyne.Do(view.reloadChildren)
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// updateTrayStatus shows the number of children in the top menu item.
func (app *GrowthApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.localize(&i18n.LocalizeConfig{MessageID: config.TKeyTrayStatusZero},
			fmt.Sprintf(config.FallbackTrayDefault, 0))
	default:
		label = app.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyTrayStatus,
			TemplateData: map[string]interface{}{"Count": count},
			PluralCount:  count,
		}, fmt.Sprintf(config.FallbackTrayDefault, count))
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// snapshotChildren returns a copy of the last loaded directory.
func (app *GrowthApp) snapshotChildren() []engine.ChildProfile {
	app.ChildrenMut.RLock()
	defer app.ChildrenMut.RUnlock()
	out := make([]engine.ChildProfile, len(app.Children))
	copy(out, app.Children)
	return out
}

// loadSyncConfig assembles the directory configuration from preferences and Keyring.
func (app *GrowthApp) loadSyncConfig() engine.SyncConfig {
	cfg := engine.SyncConfig{
		Mode:      app.Preferences.String(config.PrefSourceMode),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	if app.Preferences.Bool(config.PrefReminderEnabled) {
		val := app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)
		unit := app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays)
		dir := app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore)

		sign := config.ISOPeriodPrefix
		if dir == config.DirBefore {
			sign = config.ISONegativePrefix
		}

		switch unit {
		case config.UnitHours:
			cfg.ReminderTrigger = fmt.Sprintf("%s%d%s", sign, val, config.ISOHour)
		case config.UnitMinutes:
			cfg.ReminderTrigger = fmt.Sprintf("%s%d%s", sign, val, config.ISOMinute)
		default:
			cfg.ReminderTrigger = fmt.Sprintf("%s%d%s", sign, val, config.ISODay)
		}
	}

	return cfg
}

// backend builds a client from the backend preferences, or returns nil when
// no API URL is configured.
func (app *GrowthApp) backend() engine.Backend {
	baseURL := app.Preferences.String(config.PrefAPIURL)
	if baseURL == "" || app.NewBackend == nil {
		return nil
	}

	token, err := keyring.Get(config.KeyringService, config.KeyringTokenUser)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, config.KeyringTokenUser,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)
	}
	return app.NewBackend(baseURL, token)
}

// currentEngine returns the chart engine, creating it on first use.
func (app *GrowthApp) currentEngine() *engine.Engine {
	app.engineMu.Lock()
	defer app.engineMu.Unlock()

	if app.engine == nil {
		backend := app.backend()
		if backend == nil {
			return nil
		}
		app.engine = engine.NewEngine(backend, app.Clock)
		app.engine.SetLabels(app.SeriesLabel)
	}
	return app.engine
}

// resetEngine drops the engine so the next chart load uses new settings.
func (app *GrowthApp) resetEngine() {
	app.engineMu.Lock()
	defer app.engineMu.Unlock()
	if app.engine != nil {
		app.engine.Invalidate()
	}
	app.engine = nil
}

// buildSummaryFormatter returns a closure that localizes the event summary.
func (app *GrowthApp) buildSummaryFormatter() func(name string, dueAgeInDays int) string {
	return func(name string, dueAgeInDays int) string {
		return app.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummary,
			TemplateData: map[string]interface{}{"Name": name, "Age": dueAgeInDays},
		}, fmt.Sprintf(config.FallbackSummary, name))
	}
}
