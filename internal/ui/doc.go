package ui

// Package ui contains the Fyne-based desktop user interface. RootUI renders the
// workflow controller's steps, the error notification panel and settings.
// All UI strings are localized via locale.Localization.
