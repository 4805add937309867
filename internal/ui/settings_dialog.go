package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/convertudo/internal/config"
	"github.com/ytget/convertudo/internal/locale"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *locale.Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(languageChanged bool)

	// UI components
	serverEntry      *widget.Entry
	downloadDirEntry *widget.Entry
	delayEntry       *widget.Entry
	autoRevealCheck  *widget.Check
	languageSelect   *widget.Select
	languageCodes    map[string]string // display name -> code
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *locale.Localization, window fyne.Window, onSaved func(languageChanged bool)) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.serverEntry = widget.NewEntry()
	sd.serverEntry.SetPlaceHolder(config.DefaultServerURL)

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(locale.KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.delayEntry = widget.NewEntry()
	sd.delayEntry.SetPlaceHolder(strconv.Itoa(config.MinNotificationDelay) + "-" + strconv.Itoa(config.MaxNotificationDelay))

	sd.autoRevealCheck = widget.NewCheck(text(locale.KeyAutoReveal), nil)

	// Language selection shows display names, stores codes
	sd.languageCodes = make(map[string]string)
	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := container.NewVBox(
		widget.NewLabel(text(locale.KeyServerURL)+":"),
		sd.serverEntry,
		widget.NewLabel(text(locale.KeyRestartRequired)),

		widget.NewSeparator(),

		widget.NewLabel(text(locale.KeyDownloadDirectory)+":"),
		downloadDirRow,
		sd.autoRevealCheck,

		widget.NewSeparator(),

		widget.NewLabel(text(locale.KeyNotificationDelay)+":"),
		sd.delayEntry,

		widget.NewLabel(text(locale.KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(locale.KeySettings),
		text(locale.KeySave),
		text(locale.KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverEntry.SetText(sd.settings.GetServerURL())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.delayEntry.SetText(strconv.Itoa(sd.settings.GetNotificationDelaySeconds()))
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnSave())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	languageChanged := sd.apply()

	if sd.onSaved != nil {
		sd.onSaved(languageChanged)
	}
	dialog.ShowInformation(sd.localization.GetText(locale.KeySettings), sd.localization.GetText(locale.KeySettingsSaved), sd.window)
}

// apply writes the form into the settings and reports a language change
func (sd *SettingsDialog) apply() bool {
	if sd.serverEntry.Text != "" {
		sd.settings.SetServerURL(sd.serverEntry.Text)
	}

	if sd.downloadDirEntry.Text != "" {
		sd.settings.SetDownloadDirectory(sd.downloadDirEntry.Text)
	}

	if delay, err := strconv.Atoi(sd.delayEntry.Text); err == nil {
		sd.settings.SetNotificationDelaySeconds(delay)
	}

	sd.settings.SetAutoRevealOnSave(sd.autoRevealCheck.Checked)

	languageChanged := false
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok && code != sd.settings.GetLanguage() {
		sd.settings.SetLanguage(code)
		languageChanged = true
	}
	return languageChanged
}
