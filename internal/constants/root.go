package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName     = "DayCounter"
	BinaryName  = "daycounter"
	Version     = "v0.1.0"
	ConfigDir   = "daycounter_app"
	DataFile    = "data.json"
	DefaultPath = "~/.config/" + ConfigDir + "/" + DataFile

	// MaxEntries is the maximum number of entries a store will accept
	MaxEntries = 100

	// TickInterval is the refresh period for counters and milestone checks
	TickInterval = time.Second

	// SecondsPerDay is the length of an elapsed "day". Days are counted in
	// fixed 86400s units from the start instant, not calendar days.
	SecondsPerDay = 86400

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is the long date-time input format (YYYY-MM-DD HH:MM:SS)
	DateTimeFormat = "2006-01-02 15:04:05"

	// InputFormatHint is shown when a start date/time cannot be parsed
	InputFormatHint = "use YYYY-MM-DD HH:MM (or YYYY-MM-DDTHH:MM)"

	// Milestone display values
	MilestoneNone       = "—"
	MilestoneNotStarted = "Not started yet"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"

	// Notify constants
	NotifierLockfileName   = "daycounter-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.daycounter"
	TrayExecutablePrefix   = "daycounter-tray"
	FallbackNotifyPrefix   = "[NOTIFY]"
)

// Session States
const (
	StateEntries SessionState = iota
	StateSettings
	StateAddEntry
	StateEditEntry
	StateEditSettings
	StateConfirmDelete
)
