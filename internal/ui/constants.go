package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconUpload   = "📤"
	IconClose    = "×"
	IconError    = "❌"
	IconLink     = "🔗"
)

// Text fragments
const (
	GroupOptionSeparator = " · "
	DashPlaceholder      = "—"
)

// Layout sizing
const (
	DropZoneMinWidth  float32 = 420
	DropZoneMinHeight float32 = 180
	DropZoneStroke    float32 = 2
	DropZoneRadius    float32 = 8
	FileIconTextSize  float32 = 36

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 420
)

// Window
const (
	WindowWidth  float32 = 640
	WindowHeight float32 = 480
)
