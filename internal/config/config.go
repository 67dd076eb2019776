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
var UserAgent = "BirthdayDesk/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "BirthdayDesk"
	AppID             = "com.github.birthdaydesk.birthdaydesk"
	KeyringService    = "com.github.birthdaydesk.birthdaydesk"
	KeyringSourceUser = "roster-source"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.json"
	EnvFileName       = ".env"
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
	// Used for sensitive files like logs and settings.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache and config directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion        = "version"
	FlagDebug          = "debug"
	FlagPort           = "port"
	FlagRosterPath     = "roster"
	FlagRosterURL      = "roster-url"
	FlagLang           = "lang"
	FlagDescVersion    = "Show application version and exit"
	FlagDescDebug      = "Enable debug logging to stdout"
	FlagDescPort       = "Port to serve the API on (localhost only)"
	FlagDescRosterPath = "Path to a local roster file (.json, .vcf)"
	FlagDescRosterURL  = "URL of a remote roster (JSON or vCard)"
	FlagDescLang       = "Language for event summaries"
	MsgVersionOutput   = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings Keys (persisted key-value store)
// -----------------------------------------------------------------------------

const (
	SettingLanguage         = "language"
	SettingServerPort       = "server_port"
	SettingSourceMode       = "source_mode"
	SettingSourceFormat     = "source_format"
	SettingSourcePath       = "source_path"
	SettingSourceURL        = "source_url"
	SettingSourceUser       = "source_user"
	SettingLeapDayPolicy    = "leap_day_policy"
	SettingReminderEnabled  = "reminder_enabled"
	SettingReminderTrigger  = "reminder_trigger"
	SettingNotifDaysBefore  = "notification_days_before"
	SettingDisplayWeekStart = "display_week_start"
	SettingDisplayTheme     = "display_theme"
)

// SupportedLanguages defines the list of available summary languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeLocal    = "local"
	SourceModeWeb      = "web"
	SourceModeEmbedded = "embedded"

	SourceFormatJSON  = "json"
	SourceFormatVCard = "vcard"

	DefaultPort            = "18080"
	DefaultLanguage        = "en"
	DefaultLeapYear        = 2000 // Leap year fallback for dates like --02-29
	DefaultCelebrationTime = "10:00"
	DefaultUpcomingWindow  = 30 // days
	DefaultUpcomingLimit   = 4
	ThisWeekWindow         = 7 // days

	LeapDayPolicyMarch1 = "march1"
	LeapDayPolicyFeb28  = "feb28"

	UIDSalt = "birthdaydesk-v1-" // Salt for deterministic UID generation

	MillisecondsPerDay = 86_400_000
	MonthGridCells     = 42 // 6 rows x 7 columns for calendar rendering
	DaysPerWeek        = 7
	HoursPerDay        = 24
	MonthsPerYear      = 12
)

// -----------------------------------------------------------------------------
// Filter Sentinels & Sort Keys
// -----------------------------------------------------------------------------

const (
	FilterAllDepartments = "All Departments"
	FilterAllTypes       = "All Types"
	FilterAllStatus      = "All Status"

	SortKeyName       = "name"
	SortKeyBirthday   = "birthday"
	SortKeyDepartment = "department"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//BirthdayDesk//Engine//EN"
	ICalCalName   = "Staff Celebrations"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "birthdaydesk"

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

	// vCard Fields consumed by the roster importer
	VCardBDAY  = "BDAY"
	VCardFN    = "FN"
	VCardN     = "N"
	VCardORG   = "ORG"
	VCardTITLE = "TITLE"
	VCardNOTE  = "NOTE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing birth dates
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Display layouts
	TimeFormatHHMM    = "15:04"
	DateFormatMonthD  = "Jan 2"
	TimeFormatDisplay = "3:04 PM"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtJSON  = ".json"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtXLSX  = ".xlsx"

	// Export artifacts are named after the reference date.
	ExportJSONPattern = "celebrations-%s" + ExtJSON
	ExportXLSXPattern = "staff-directory-%s" + ExtXLSX
	JSONIndent        = "  "
	EmptyJSONArray    = "[]"

	XLSXSheetName = "Staff Directory"

	// Settings storage
	TmpSuffix = ".tmp"
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
	// A staff roster is a few KB of JSON or vCards; 8MB leaves headroom for
	// inlined photos while cutting off runaway streams.
	MaxHTTPResponseSize = 8 * 1024 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Routes & Query Parameters
// -----------------------------------------------------------------------------

const (
	RouteHealth        = "/healthz"
	RouteFeed          = "/feed.ics"
	RouteDashboard     = "/api/dashboard"
	RouteUpcoming      = "/api/upcoming"
	RouteCalendarDay   = "/api/calendar/day"
	RouteCalendarWeek  = "/api/calendar/week"
	RouteCalendarMonth = "/api/calendar/month"
	RouteCalendarYear  = "/api/calendar/year"
	RouteStaff         = "/api/staff"
	RouteToday         = "/api/today"
	RouteExportJSON    = "/api/export/json"
	RouteExportXLSX    = "/api/export/xlsx"
	RouteCakeStatus    = "/api/staff/:id/cake"

	ParamID = "id"

	QueryDate       = "date"
	QueryDepartment = "department"
	QueryType       = "type"
	QueryStatus     = "status"
	QuerySearch     = "search"
	QuerySort       = "sort"
	QueryWindow     = "window"
	QueryLimit      = "limit"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
	HeaderRetryAfter         = "Retry-After"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderUserAgent          = "User-Agent"
	HeaderAccept             = "Accept"
	HeaderIfNoneMatch        = "If-None-Match"
	HeaderIfModifiedSince    = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	// AcceptRoster covers both payload formats a roster source may serve.
	AcceptRoster        = "application/json, text/vcard"
	MimeXLSX            = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	// FormatAttachment expects a filename argument.
	FormatAttachment = `attachment; filename="%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty    = "configuration error: local roster path is empty"
	ErrWebURLEmpty       = "configuration error: roster URL is empty"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrModeUnsupport     = "configuration error: unsupported source mode"
	ErrFormatUnsupport   = "configuration error: unsupported roster format"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrPortInvalid       = "server port is out of range"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrRosterDecode      = "failed to decode roster data"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrExportEncode      = "failed to encode export payload"
	ErrWorkbookBuild     = "failed to build workbook"
	ErrDateParse         = "unable to parse date"
	ErrRefDateInvalid    = "invalid reference date"
	ErrFilterInvalid     = "invalid filter value"
	ErrWindowInvalid     = "invalid window value"
	ErrLimitInvalid      = "invalid limit value"
	ErrMonthInvalid      = "month must be between 1 and 12"
	ErrLeapPolicyInvalid = "invalid leap day policy"
	ErrRecordNotFound    = "staff record not found"
	ErrCakeStatusInvalid = "invalid cake status"
	ErrSettingsLoad      = "failed to load settings file"
	ErrSettingsSave      = "failed to save settings file"
	ErrKeyringAccess     = "failed to access system keyring"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrConfigDir         = "could not determine user config dir"
	ErrCreateDir         = "could not create app directory"
	ErrAppFailed         = "application failed unexpectedly"
	ErrLocalesAccess     = "failed to access embedded locales"
	ErrLocaleLoad        = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgLoading     = "Roster loading, please try again shortly."
	HTTPMsgInternalErr = "Internal Server Error"

	JSONKeyError   = "error"
	JSONKeyStatus  = "status"
	JSONKeyMessage = "message"
	JSONValueOK    = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackName       = "Unknown"
	FallbackDepartment = "Unknown"
	FallbackSummary    = "Birthday: %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	// This prevents clients from flagging the feed as invalid.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgRosterLoading  = "Roster load started"
	MsgRosterLoaded   = "Roster load successful"
	MsgSkippedDate    = "Skipping invalid birth date"
	MsgDuplicateID    = "Duplicate staff id, keeping last-seen record"
	MsgGeneratedID    = "Record had no id, generated one"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgFeedUpdated    = "Calendar feed cache updated"
	MsgBdayToday      = "Birthday found today"
	MsgCakeUpdated    = "Cake status updated"
	MsgSettingsSaved  = "Settings saved"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLangFallback   = "Unsupported language, using default"
	MsgEnvFileMissing = "No .env file found, using process environment"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (for age 0)
	TKeyNotifToday      = "notif_today"         // Requires Count
	TKeyNotifMonth      = "notif_this_month"    // Requires Count
	TKeyNotifNone       = "notif_none"
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
	LogKeyFormat    = "format"
	LogKeyID        = "id"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_records"
	LogKeyFound     = "with_birth_date"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"

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
	CompMain     = "main"
	CompRoster   = "roster"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompSettings = "settings"
	CompI18n     = "i18n"
)
