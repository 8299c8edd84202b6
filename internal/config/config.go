package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Growth/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Growth"
	AppID             = "com.github.tartampluch.go-growth"
	KeyringService    = "com.github.tartampluch.go-growth"
	KeyringTokenUser  = "api-token"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagEnvHelp      = "env-help"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescEnvHelp  = "List the supported environment variables and exit"
	EnvUsageHeader   = "Environment overrides:"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Growth Engine: Horizons & Reference Grid
// -----------------------------------------------------------------------------

const (
	// LongHorizonThresholdDays separates the monthly (short) regime from the
	// yearly (long) regime. Ages strictly above it are "long horizon".
	LongHorizonThresholdDays = 720

	ShortHorizonDays = 30
	LongHorizonDays  = 360

	// Reference grid: every ReferenceGridStepDays from ReferenceGridStartDays
	// to ReferenceGridEndDays inclusive (144 ages).
	ReferenceGridStartDays = 30
	ReferenceGridStepDays  = 30
	ReferenceGridEndDays   = 4320
	DaysPerMonth           = 30

	// Short regime window: ±ShortWindowDays around the latest age, widened
	// once by ShortWindowExpandDays on each side when it holds fewer than
	// MinReferencePoints points.
	ShortWindowDays       = 30
	ShortWindowExpandDays = 60

	// Long regime: targets are multiples of LongTargetStepDays, candidates
	// come from ±LongFallbackRadiusDays, and selected points stay at least
	// MinReferenceSpacingDays apart.
	LongTargetStepDays      = 360
	LongFallbackRadiusDays  = 720
	MinReferenceSpacingDays = 180

	// Gate thresholds.
	MinReferencePoints = 2
	MinActualPoints    = 2

	// ActualDisplayPoints caps the "actual" series to the most recent points.
	ActualDisplayPoints = 3

	// DaysPerYear converts ages for the years axis (one decimal).
	DaysPerYear        = 365.0
	YearLabelPrecision = 1

	// DefaultPredictionHorizonDays is requested from the prediction service.
	// It covers both regimes; the aligner picks the relevant point.
	DefaultPredictionHorizonDays = LongHorizonDays

	// ReferenceFetchConcurrency bounds the reference grid fan-out.
	ReferenceFetchConcurrency = 32
)

// -----------------------------------------------------------------------------
// Chart Geometry & Interaction
// -----------------------------------------------------------------------------

const (
	// HitTolerancePx is the maximum pointer distance (exclusive) for a hit.
	// It is a fixed pixel value and does not scale with the chart.
	HitTolerancePx = 20.0

	// Tooltip clamp margins.
	TooltipMarginX      = 10.0
	TooltipMarginTop    = 20.0
	TooltipBottomOffset = 80.0
	TooltipGap          = 10.0
	TooltipWidth        = 150.0
	TooltipHeight       = 48.0

	// TooltipDismissDelay hides the tooltip after a hit; every new hit restarts it.
	TooltipDismissDelay = 2 * time.Second

	// Responsive padding: a fraction of the chart size, never below the floor.
	PaddingLeftRatio    = 0.10
	PaddingRightRatio   = 0.05
	PaddingTopRatio     = 0.08
	PaddingBottomRatio  = 0.12
	PaddingLeftFloor    = 40.0
	PaddingRightFloor   = 16.0
	PaddingTopFloor     = 16.0
	PaddingBottomFloor  = 28.0
	ChartMinWidth       = 320
	ChartMinHeight      = 240
	ChartPointRadius    = 3
	ChartStrokeWidth    = 2
	ChartDashLengthPx   = 6.0
	ChartDashGapPx      = 4.0
	ChartAxisTickCount  = 5
	ChartAxisLabelSize  = 10
	ChartTooltipTextPad = 6
)

// -----------------------------------------------------------------------------
// Series Colors & Default Labels
// -----------------------------------------------------------------------------

const (
	ColorActual     = "#2196F3"
	ColorPrediction = "#FF9800"
	ColorStandard   = "#E91E63"
	ColorMin        = "#4CAF50"
	ColorMax        = "#F44336"

	// Default (Vietnamese) series labels, used when no localizer is injected.
	LabelActual     = "Thực tế"
	LabelPrediction = "Dự đoán"
	LabelStandard   = "Tiêu chuẩn"
	LabelMin        = "Min"
	LabelMax        = "Max"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	ChartWindowWidth    = 900
	ChartWindowHeight   = 620

	// Preference Keys
	PrefAPIURL          = "api_url"
	PrefAccountID       = "account_id"
	PrefCardDAVURL      = "carddav_url"
	PrefUsername        = "username"
	PrefLanguage        = "language"
	PrefInterval        = "refresh_interval_min"
	PrefServerPort      = "server_port"
	PrefSourceMode      = "source_mode"
	PrefLocalPath       = "local_path"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefReminderUnit    = "reminder_unit"
	PrefReminderDir     = "reminder_direction"
	PrefLastRun         = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"vi", "en"}

// -----------------------------------------------------------------------------
// UI Children Window Constants
// -----------------------------------------------------------------------------

const (
	ChildrenWinWidth  = 560
	ChildrenWinHeight = 400

	// Table Column IDs
	ColIDName   = 0
	ColIDBirth  = 1
	ColIDAge    = 2
	ColIDGender = 3
	ColCount    = 4

	// Table Layout
	ColWidthName   = 220
	ColWidthBirth  = 120
	ColWidthAge    = 100
	ColWidthGender = 90

	DateFormatDisplay = "2006-01-02"
	TablePlaceholder  = "Cell Content"
	LogMsgOpenWin     = "Opening Children Window"
	LogMsgOpenChart   = "Opening Chart Window"
	LogMsgSorted      = "Children sorted"

	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinChart       = "win_chart_title"
	TKeyWinChildren    = "win_children_title"
	TKeyMenuChart      = "menu_chart"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayStatus     = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero = "tray_status_zero" // Explicit key for 0
	TKeyNotifStart     = "notif_sync_start"
	TKeyNotifSuccess   = "notif_sync_success"
	TKeyNotifError     = "notif_err_sync"
	TKeyModeCardDAV    = "mode_carddav"
	TKeyModeLocal      = "mode_local"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyHelpInterval   = "help_interval"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblBackend     = "lbl_backend"
	TKeyLblAPIURL      = "lbl_api_url"
	TKeyHelpAPIURL     = "help_api_url"
	TKeyLblAccount     = "lbl_account"
	TKeyLblToken       = "lbl_token"
	TKeyLblEnableRem   = "lbl_enable_reminders"
	TKeyUnitDays       = "unit_days"
	TKeyUnitHours      = "unit_hours"
	TKeyUnitMinutes    = "unit_minutes"
	TKeyUnitYears      = "unit_years"
	TKeyDirBefore      = "dir_before"
	TKeyDirAfter       = "dir_after"
	TKeyLblNotif       = "lbl_notifications"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyBtnRefresh     = "btn_refresh"
	TKeyLblFooter      = "lbl_footer"
	TKeyBtnBrowse      = "btn_browse"
	TKeyLblURL         = "lbl_url"
	TKeyHelpURL        = "help_carddav_url"
	TKeyLblUser        = "lbl_user"
	TKeyLblPass        = "lbl_pass"
	TKeyLblSource      = "lbl_source"
	TKeyLblStartDay    = "lbl_start_of_day"
	TKeyLblChild       = "lbl_child"
	TKeyEvtSummary     = "event_summary" // Requires Name, Age

	// Metric tabs
	TKeyMetricHeight = "metric_height"
	TKeyMetricWeight = "metric_weight"
	TKeyMetricHead   = "metric_head_circumference"
	TKeyMetricBMI    = "metric_bmi"

	// Series labels
	TKeySeriesActual     = "series_actual"
	TKeySeriesPrediction = "series_prediction"
	TKeySeriesStandard   = "series_standard"
	TKeySeriesMin        = "series_min"
	TKeySeriesMax        = "series_max"

	// Axis & tooltip
	TKeyAxisDays    = "axis_days"
	TKeyAxisYears   = "axis_years"
	TKeyTooltipText = "tooltip_text" // Requires Series, Age, Value

	// Advisories
	TKeyAdvNotVIP       = "advisory_not_vip"
	TKeyAdvInsufficRef  = "advisory_insufficient_reference"
	TKeyAdvInsufficData = "advisory_insufficient_actual"

	// Column Headers
	TKeyColName   = "col_name"
	TKeyColBirth  = "col_birth"
	TKeyColAge    = "col_age"
	TKeyColGender = "col_gender"
	TKeyFormatDate = "format_date_short"
	TKeyGenderMale   = "gender_male"
	TKeyGenderFemale = "gender_female"

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18181"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "vi"
	DefaultGender        = "male"
	DefaultReminderValue = 1
	UIDSalt              = "go-growth-v1-" // Salt for deterministic UID generation
	DisabledInterval     = 0
	MaxNumericDigits     = 5
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Growth//Engine//EN"
	ICalCalName   = "Growth check-ups"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gogrowth"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// vCard gender values (RFC 6350 sex component)
	VCardSexMale   = "M"
	VCardSexFemale = "F"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	// Local server routes
	RouteCalendar  = "/calendar.ics"
	RouteChartHTML = "/charts/{childID}/{metric}"
	RouteChartJSON = "/api/charts/{childID}/{metric}"
	RouteMetrics   = "/metrics"
	RouteParamChild  = "childID"
	RouteParamMetric = "metric"

	// Backend API paths (relative to the configured base URL)
	APIPathMeasurements = "/children/%s/measurements"
	APIPathReference    = "/reference-curves"
	APIPathPrediction   = "/children/%s/predictions/latest"
	APIPathEntitlement  = "/accounts/%s/entitlement"
	APIQueryGender      = "gender"
	APIQueryAge         = "ageInDays"
	APIQueryMetric      = "metric"
	APIQueryHorizon     = "horizonDays"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderAuthorization   = "Authorization"
	HeaderRequestID       = "X-Request-ID"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextHTML        = "text/html; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	BearerPrefix        = "Bearer "

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrAPIURLEmpty      = "configuration error: backend URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrBackendMissing   = "internal error: backend is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrUnexpectedStatus = "server returned unexpected status"
	ErrDecodeResponse   = "failed to decode response body"
	ErrCreateRequest    = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrRenderChart      = "failed to render chart"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrLocNotInit       = "localizer not initialized"
	ErrUnknownMetric    = "unknown metric"
	ErrSuperseded       = "load superseded by a newer selection"
	ErrEnvLoad          = "failed to read environment overrides"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNoChart      = "No chart available for this child and metric."
	HTTPMsgBadMetric    = "Unknown metric."
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary     = "Growth check-up: %s"
	FallbackTrayError   = "Go Growth: Sync Error"
	FallbackTrayDefault = "Go Growth (%d children)"
	FallbackTrayLabel   = "Go Growth"
	FallbackName        = "Unknown"
	FallbackTooltip     = "%s: %s → %.1f"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"

	MsgPortBusy         = "Port %s is busy or unavailable."
	MsgSyncStarted      = "Synchronization started..."
	MsgSyncFailed       = "Synchronization failed. Check logs."
	MsgSyncReq          = "Sync requested"
	MsgWorkerStart      = "Background worker started"
	MsgWorkerStop       = "Worker stopping due to context cancellation"
	MsgUpdateSync       = "Updating sync interval"
	MsgAppStop          = "Application stopped gracefully"
	MsgCtxCancel        = "Context cancelled, shutting down UI"
	MsgSkippedCard      = "Skipping malformed vCard"
	MsgSkippedDate      = "Skipping invalid date format"
	MsgDirectoryLoaded  = "Child directory loaded"
	MsgGenSuccess       = "Check-up calendar generation successful"
	MsgAppStarting      = "Starting application"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Calendar cache updated"
	MsgChartsPublished  = "Chart datasets published"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgPassFail         = "Secret retrieval failed (might be empty)"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgLoadStarted      = "Growth snapshot load started"
	MsgLoadFinished     = "Growth snapshot load finished"
	MsgLoadCached       = "Growth snapshot served from session cache"
	MsgLoadSuperseded   = "Discarding superseded growth snapshot"
	MsgUpstreamFailed   = "Upstream fetch failed, treating as absent"
	MsgReferenceSampled = "Reference grid sampled"
	MsgWindowFallback   = "Reference window fallback engaged"
	MsgGateDecision     = "Prediction gate evaluated"
	MsgCacheInvalidated = "Session cache invalidated"
	MsgEnvOverride      = "Environment override applied"
	MsgChartLoadFailed  = "Chart load failed, showing empty charts"
	MsgSettingsOpen     = "Opening settings window"
	MsgSettingsFocus    = "Settings window already open, requesting focus"
	MsgSettingsSaved    = "Preferences saved"
	MsgIntervalOff      = "Auto-refresh disabled via settings"
	MsgReminderOff      = "Reminders disabled via settings (value is empty)"
	ErrKeyringSave      = "failed to save secret to keyring"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"
	LogKeyChild     = "child_id"
	LogKeyGender    = "gender"
	LogKeyMetric    = "metric"
	LogKeySource    = "source"
	LogKeyRequestID = "request_id"
	LogKeyLatestAge = "latest_age_days"
	LogKeyRegime    = "regime"
	LogKeyPoints    = "points"
	LogKeyAllowed   = "allowed"
	LogKeyTicket    = "ticket"
	LogKeyDropped   = "dropped"
	LogKeyCards     = "total_cards"
	LogKeyChildren  = "children_found"
	LogKeyCheckups  = "checkups"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompUIChart   = "ui_chart"
	CompEngine    = "engine"
	CompSampler   = "sampler"
	CompSelector  = "selector"
	CompBackend   = "backend"
	CompDirectory = "directory"
	CompCalendar  = "calendar"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
	CompConfig    = "config"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
