package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
	"github.com/tartampluch/go-growth/internal/server"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.VCardFetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockClock controls time. Timers only fire through Fire.
type MockClock struct {
	CurrentTime time.Time

	mu     sync.Mutex
	timers []*mockTimer
}

type mockTimer struct {
	f       func()
	stopped bool
}

func (t *mockTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

func (m *MockClock) AfterFunc(_ time.Duration, f func()) engine.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{f: f}
	m.timers = append(m.timers, t)
	return t
}

// Fire runs every pending timer.
func (m *MockClock) Fire() {
	m.mu.Lock()
	pending := m.timers
	m.timers = nil
	m.mu.Unlock()
	for _, t := range pending {
		if !t.stopped {
			t.f()
		}
	}
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}
func (m *MockTray) Run()                                 {}
func (m *MockTray) Quit()                                {}

// stubBackend serves fixed growth data. Reference statistics grow linearly
// with age so every grid age has a point.
type stubBackend struct {
	records []engine.MeasurementRecord
	vip     bool
}

func (s *stubBackend) FetchMeasurements(context.Context, string) ([]engine.MeasurementRecord, error) {
	return s.records, nil
}

func (s *stubBackend) FetchReferencePoint(_ context.Context, _ engine.Gender, age int, _ engine.Metric) (*engine.ReferencePoint, error) {
	median := 50 + float64(age)/30
	return &engine.ReferencePoint{AgeInDays: age, Median: median, SD3Neg: median - 6, SD3Pos: median + 6}, nil
}

func (s *stubBackend) FetchPrediction(context.Context, string, int) (*engine.Prediction, error) {
	return nil, nil
}

func (s *stubBackend) FetchEntitlement(context.Context, string) (engine.Entitlement, error) {
	return engine.Entitlement{IsVIP: s.vip}, nil
}

func f64(v float64) *float64 { return &v }

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// setupTestApp initializes a headless Fyne app with mocked dependencies.
func setupTestApp(t *testing.T) (*GrowthApp, *MockFetcher, *MockTray) {
	keyring.MockInit()
	a := test.NewApp()

	// Port "0" binds any free port.
	srv := server.NewGrowthServer("0")
	fetcher := new(MockFetcher)
	mockTray := &MockTray{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewGrowthApp(a, ctx, srv, fetcher, nil)
	app.Tray = mockTray
	app.Clock = &MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}

	// Run() is skipped in tests.
	app.SetupI18n()

	return app, fetcher, mockTray
}

// withBackend configures the app to use b for every backend call.
func withBackend(app *GrowthApp, b engine.Backend) {
	app.Preferences.SetString(config.PrefAPIURL, "https://api.example.test")
	app.NewBackend = func(string, string) engine.Backend { return b }
	app.resetEngine()
}

func setLanguage(app *GrowthApp, lang string) {
	app.Preferences.SetString(config.PrefLanguage, lang)
	app.UpdateLocalizer()
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _, _ := setupTestApp(t)

	setLanguage(app, "en")
	assert.Equal(t, "Settings...", app.GetMsg(config.TKeyMenuSettings))
	assert.Equal(t, "Actual", app.SeriesLabel(engine.SeriesActual))

	setLanguage(app, "vi")
	assert.Equal(t, "Cài đặt...", app.GetMsg(config.TKeyMenuSettings))
	assert.Equal(t, "Thực tế", app.SeriesLabel(engine.SeriesActual))
}

func TestLocalization_DefaultsToVietnamese(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Preferences.RemoveValue(config.PrefLanguage)
	app.UpdateLocalizer()

	assert.Equal(t, "Cài đặt...", app.GetMsg(config.TKeyMenuSettings))
}

func TestLocalization_MissingKey(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
	assert.Equal(t, engine.DefaultLabels(engine.SeriesKind(99)), app.SeriesLabel(engine.SeriesKind(99)))
}

func TestLocalization_SummaryFormatter(t *testing.T) {
	app, _, _ := setupTestApp(t)
	setLanguage(app, "en")

	res := app.buildSummaryFormatter()("Alice", 390)
	assert.Contains(t, res, "Alice")
	assert.Contains(t, res, "390")

	// Without a localizer the fallback keeps the name.
	app.Localizer = nil
	res = app.buildSummaryFormatter()("Bob", 30)
	assert.Equal(t, fmt.Sprintf(config.FallbackSummary, "Bob"), res)
}

func TestLocalization_Helpers(t *testing.T) {
	app, _, _ := setupTestApp(t)
	setLanguage(app, "en")

	assert.Equal(t, "Girl", app.GenderText(engine.GenderFemale))
	assert.Equal(t, app.GetMsg(config.TKeyGenderMale), app.GenderText(engine.Gender("other")))
	assert.Equal(t, app.GetMsg(config.TKeyAxisYears), app.AxisTitle(engine.UnitYears))
	assert.Equal(t, app.GetMsg(config.TKeyAxisDays), app.AxisTitle(engine.UnitDays))
	assert.Equal(t, "Predictions are available to VIP accounts.", app.AdvisoryText(engine.AdvisoryNotVIP))
	assert.Equal(t, app.GetMsg(config.TKeyMetricBMI), app.MetricTitle(engine.MetricBMI))

	tip := app.TooltipText(
		engine.Series{Label: "Actual"},
		engine.SeriesPoint{AgeLabel: "120", Value: 61.34})
	assert.Equal(t, "Actual: 120 → 61.3", tip)
}

func TestLocalization_UpdatesEngineLabels(t *testing.T) {
	app, _, _ := setupTestApp(t)
	withBackend(app, &stubBackend{records: []engine.MeasurementRecord{
		{AgeInDays: 100, Height: f64(60)},
	}})
	setLanguage(app, "en")

	datasets, err := app.LoadCharts(app.Ctx, engine.ChildProfile{ID: "c1", Name: "Lan"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Actual", datasets[engine.MetricHeight].Series[0].Label)

	setLanguage(app, "vi")
	datasets, err = app.LoadCharts(app.Ctx, engine.ChildProfile{ID: "c1", Name: "Lan"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Thực tế", datasets[engine.MetricHeight].Series[0].Label)
}

// -----------------------------------------------------------------------------
// Configuration & Preferences Tests
// -----------------------------------------------------------------------------

func TestConfiguration_Mapping(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "https://secure.example.com")
	app.Preferences.SetString(config.PrefUsername, "admin")
	require.NoError(t, keyring.Set(config.KeyringService, "admin", "s3cret"))

	app.Preferences.SetBool(config.PrefReminderEnabled, true)
	app.Preferences.SetInt(config.PrefReminderValue, 2)
	app.Preferences.SetString(config.PrefReminderUnit, config.UnitDays)
	app.Preferences.SetString(config.PrefReminderDir, config.DirBefore)

	cfg := app.loadSyncConfig()

	assert.Equal(t, config.SourceModeWeb, cfg.Mode)
	assert.Equal(t, "https://secure.example.com", cfg.WebURL)
	assert.Equal(t, "admin", cfg.WebUser)
	assert.Equal(t, "s3cret", cfg.WebPass)
	assert.Equal(t, fmt.Sprintf("%s%d%s", config.ISONegativePrefix, 2, config.ISODay), cfg.ReminderTrigger)
}

func TestConfiguration_Backend(t *testing.T) {
	app, _, _ := setupTestApp(t)

	var gotURL, gotToken string
	app.NewBackend = func(baseURL, token string) engine.Backend {
		gotURL, gotToken = baseURL, token
		return &stubBackend{}
	}

	assert.Nil(t, app.backend(), "No API URL means no backend")
	assert.Nil(t, app.currentEngine())

	app.Preferences.SetString(config.PrefAPIURL, "https://api.example.test")
	require.NoError(t, keyring.Set(config.KeyringService, config.KeyringTokenUser, "tok"))

	eng := app.currentEngine()
	require.NotNil(t, eng)
	assert.Equal(t, "https://api.example.test", gotURL)
	assert.Equal(t, "tok", gotToken)
	assert.Same(t, eng, app.currentEngine(), "Engine is reused until reset")

	app.resetEngine()
	assert.NotSame(t, eng, app.currentEngine())
}

func TestConfiguration_WorkerSignal(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.watchPreferences()

	signalReceived := make(chan bool)
	go func() {
		select {
		case key := <-app.configChan:
			signalReceived <- key == config.PrefInterval
		case <-time.After(500 * time.Millisecond):
			signalReceived <- false
		}
	}()

	app.Preferences.SetInt(config.PrefInterval, 120)

	assert.True(t, <-signalReceived, "Changing interval should notify background worker")
}

// -----------------------------------------------------------------------------
// Sync Logic Integration Tests
// -----------------------------------------------------------------------------

func TestPerformSync_Success(t *testing.T) {
	app, fetcher, mockTray := setupTestApp(t)
	app.setupTrayMenu()
	setLanguage(app, "en")

	vcard := "BEGIN:VCARD\nVERSION:4.0\nUID:child-1\nFN:Minh Anh\nGENDER:F\nBDAY:20240601\nEND:VCARD\n"
	fetcher.On("Fetch", mock.Anything, "http://test.local", mock.Anything, mock.Anything).
		Return(io.NopCloser(bytes.NewBufferString(vcard)), nil)

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "http://test.local")

	app.performSync(true)

	fetcher.AssertExpectations(t)

	require.NotNil(t, mockTray.Menu)
	assert.Equal(t, "1 child", app.TrayStatusItem.Label)

	children := app.snapshotChildren()
	require.Len(t, children, 1)
	assert.Equal(t, "child-1", children[0].ID)
	assert.Equal(t, "Minh Anh", children[0].Name)
	assert.Equal(t, engine.GenderFemale, children[0].Gender)
}

func TestPerformSync_Failure(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)
	app.setupTrayMenu()

	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "http://test.local")

	app.performSync(true)

	fetcher.AssertExpectations(t)
	assert.Equal(t, config.FallbackTrayError, app.TrayStatusItem.Label)
	assert.Empty(t, app.snapshotChildren())
}

func TestTrayStatusUpdate_Logic(t *testing.T) {
	app, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()
	setLanguage(app, "en")

	app.updateTrayStatus(-1)
	assert.Equal(t, config.FallbackTrayError, app.TrayStatusItem.Label)

	app.updateTrayStatus(0)
	assert.Equal(t, "No children yet", app.TrayStatusItem.Label)

	app.updateTrayStatus(10)
	assert.Equal(t, "10 children", app.TrayStatusItem.Label)

	assert.NotNil(t, mockTray.Menu)
}

func TestRefreshTrayMenu_Relabels(t *testing.T) {
	app, _, _ := setupTestApp(t)
	setLanguage(app, "vi")
	app.setupTrayMenu()

	setLanguage(app, "en")
	app.RefreshTrayMenu()

	assert.Equal(t, "Settings...", app.TraySettingsItem.Label)
	assert.Equal(t, app.GetMsg(config.TKeyMenuChart), app.TrayChartItem.Label)
}
