package config

import (
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/convertudo/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL         = "server_url"
	KeyDownloadDir       = "download_directory"
	KeyLanguage          = "app_language"
	KeyAutoRevealOnSave  = "auto_reveal_on_save"
	KeyNotificationDelay = "notification_delay_seconds"
	KeyFileConfigSeeded  = "file_config_seeded"
)

// Default values
const (
	DefaultServerURL         = "http://127.0.0.1:8000"
	DefaultLanguage          = "system"
	DefaultAutoRevealOnSave  = true
	DefaultNotificationDelay = 6
	MinNotificationDelay     = 1
	MaxNotificationDelay     = 60
	FallbackDownloadDir      = "/tmp/downloads"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetServerURL returns the conversion server base URL
func (s *Settings) GetServerURL() string {
	value := s.app.Preferences().String(KeyServerURL)
	if value == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return value
}

// SetServerURL sets the conversion server base URL
func (s *Settings) SetServerURL(serverURL string) {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	s.app.Preferences().SetString(KeyServerURL, serverURL)
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnSave returns whether to reveal saved results in the file manager
func (s *Settings) GetAutoRevealOnSave() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealOnSave, DefaultAutoRevealOnSave)
}

// SetAutoRevealOnSave sets whether to reveal saved results in the file manager
func (s *Settings) SetAutoRevealOnSave(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealOnSave, autoReveal)
}

// GetNotificationDelaySeconds returns how long an error stays visible
func (s *Settings) GetNotificationDelaySeconds() int {
	value := s.app.Preferences().Int(KeyNotificationDelay)
	if value <= 0 {
		s.SetNotificationDelaySeconds(DefaultNotificationDelay)
		return DefaultNotificationDelay
	}
	return value
}

// SetNotificationDelaySeconds sets how long an error stays visible
func (s *Settings) SetNotificationDelaySeconds(seconds int) {
	if seconds < MinNotificationDelay {
		seconds = MinNotificationDelay
	}
	if seconds > MaxNotificationDelay {
		seconds = MaxNotificationDelay
	}
	s.app.Preferences().SetInt(KeyNotificationDelay, seconds)
}

// GetNotificationDelay returns the auto-hide delay as a duration
func (s *Settings) GetNotificationDelay() time.Duration {
	return time.Duration(s.GetNotificationDelaySeconds()) * time.Second
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// Seed copies values from a bootstrap file into the preferences. Strings are
// only written where no preference exists yet; the remaining values are
// applied on the first seeding only so later edits in the UI win.
func (s *Settings) Seed(fc *FileConfig) {
	if fc == nil {
		return
	}
	prefs := s.app.Preferences()

	if fc.ServerURL != "" && prefs.String(KeyServerURL) == "" {
		s.SetServerURL(fc.ServerURL)
	}
	if fc.DownloadDir != "" && prefs.String(KeyDownloadDir) == "" {
		s.SetDownloadDirectory(fc.DownloadDir)
	}
	if fc.Language != "" && prefs.String(KeyLanguage) == "" {
		s.SetLanguage(fc.Language)
	}

	if prefs.Bool(KeyFileConfigSeeded) {
		return
	}
	if fc.AutoReveal != nil {
		s.SetAutoRevealOnSave(*fc.AutoReveal)
	}
	if fc.NotificationDelay > 0 {
		s.SetNotificationDelaySeconds(fc.NotificationDelay)
	}
	prefs.SetBool(KeyFileConfigSeeded, true)
	log.Printf("Preferences seeded from bootstrap config")
}
