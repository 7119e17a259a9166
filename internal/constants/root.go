package constants

import "time"

const (
	AppName           = "wth"
	DefaultConfigPath = "~/.config/wth/wth.db"
	DefaultCatalog    = "~/.config/wth/partners.yaml"
	Version           = "v0.6.2"

	// DateFormat is the calendar day key used for records and priorities (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard clock format (HH:MM)
	TimeFormat = "15:04"

	// Storage keys
	KeyCheckIns          = "checkins"
	KeyUnavailableHours  = "unavailable_hours"
	KeyPrioritiesPrefix  = "mybed_"
	KeyBeastModeEnabled  = "beast_mode_enabled"
	KeyBeastLastSubmit   = "beast_last_submit"
	KeySettingsPrefix    = "setting_"
	CheckInSchemaVersion = 2

	// Hours and priorities
	HoursPerDay   = 24
	PriorityCount = 6
	MinRating     = 1
	MaxRating     = 5

	// BeastMode
	DefaultBeastPeriod = 15 * time.Minute

	// Keyring users
	KeyringDBConnection = "database-connection"
	KeyringProfileToken = "profile-token"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "wth-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "wth-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.wth"
	TrayExecutablePrefix   = "wth-tray"
)
