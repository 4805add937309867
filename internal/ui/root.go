package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/config"
	"github.com/ytget/convertudo/internal/convert"
	"github.com/ytget/convertudo/internal/locale"
	"github.com/ytget/convertudo/internal/model"
	"github.com/ytget/convertudo/internal/platform"
	"github.com/ytget/convertudo/internal/workflow"
)

// FileURIScheme is the scheme of URIs backed by the local filesystem
const FileURIScheme = "file"

// RootUI represents the main UI structure. It renders the workflow
// controller's state; the controller calls it through workflow.View.
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	ctrl         *workflow.Controller
	runner       convert.Runner
	settings     *config.Settings
	localization *locale.Localization

	ctx    context.Context
	cancel context.CancelFunc

	// Header
	titleLabel  *widget.Label
	settingsBtn *widget.Button

	// Upload step
	uploadStep     *fyne.Container
	dropZone       *DropZone
	chooseBtn      *widget.Button
	urlEntry       *widget.Entry
	importBtn      *widget.Button
	importActivity *widget.Activity

	// Configure step
	configureStep   *fyne.Container
	fileIconText    *canvas.Text
	fileNameLabel   *widget.Label
	fileSizeLabel   *widget.Label
	changeFileBtn   *widget.Button
	formatSelect    *widget.Select
	optionExt       map[string]string
	updatingChoices bool
	choicesBlocked  bool
	convertBtn      *widget.Button
	convertActivity *widget.Activity

	// Result step
	resultStep  *fyne.Container
	resultTitle *widget.Label
	resultLabel *widget.Label
	downloadBtn *widget.Button
	openBtn     *widget.Button
	revealBtn   *widget.Button
	resetBtn    *widget.Button
	result      *model.ConversionResult
	savedPath   string

	currentStep model.WorkflowStep

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, source api.FormatSource, runner convert.Runner) *RootUI {
	settings := config.NewSettings(app)

	localization := locale.NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())

	ui := &RootUI{
		window:       window,
		app:          app,
		runner:       runner,
		settings:     settings,
		localization: localization,
		ctx:          ctx,
		cancel:       cancel,
		optionExt:    make(map[string]string),
		currentStep:  model.StepUpload,
	}

	window.SetTitle(localization.GetText(locale.KeyAppTitle))
	ui.runner.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()

	ui.ctrl = workflow.NewController(source, runner, ui, localization,
		workflow.WithNotificationDelay(settings.GetNotificationDelay()))

	window.SetOnDropped(ui.onDropped)
	window.SetOnClosed(ui.Close)

	log.Printf("RootUI initialized")
	return ui
}

// Controller returns the workflow controller driving this UI
func (ui *RootUI) Controller() *workflow.Controller {
	return ui.ctrl
}

// Start shows the upload step and loads the format catalog in the background
func (ui *RootUI) Start() {
	ui.ctrl.Start()
	go func() {
		if err := ui.ctrl.LoadCatalog(ui.ctx); err != nil {
			log.Printf("Continuing without format catalog")
		}
	}()
}

// Close tears the session down: pending requests are cancelled and the
// current result is released.
func (ui *RootUI) Close() {
	ui.cancel()
	ui.ctrl.Close()
	if err := ui.runner.Close(); err != nil {
		log.Printf("Failed to clean up conversion service: %v", err)
	}
	log.Printf("Session closed")
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.titleLabel = widget.NewLabel(ui.localization.GetText(locale.KeyAppTitle))
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	topPanel := container.NewBorder(nil, nil, ui.titleLabel, ui.settingsBtn)

	ui.setupUploadStep()
	ui.setupConfigureStep()
	ui.setupResultStep()

	// Notification panel at the bottom (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	closeBtn := widget.NewButton(IconClose, func() {
		ui.ctrl.DismissError()
	})
	closeBtn.Importance = widget.LowImportance
	ui.notificationContainer = container.NewBorder(nil, nil, widget.NewLabel(IconError), closeBtn, ui.notificationLabel)
	ui.notificationContainer.Hide()

	steps := container.NewStack(ui.uploadStep, ui.configureStep, ui.resultStep)

	content := container.NewBorder(
		container.NewVBox(topPanel, widget.NewSeparator()), // top
		ui.notificationContainer,                           // bottom
		nil,                                                // left
		nil,                                                // right
		container.NewPadded(steps),                         // center
	)

	ui.window.SetContent(content)
	log.Printf("UI setup completed successfully")
}

func (ui *RootUI) setupUploadStep() {
	ui.dropZone = NewDropZone(ui.localization.GetText(locale.KeyDropHint), ui.onChooseFile)

	ui.chooseBtn = widget.NewButton(ui.localization.GetText(locale.KeyChooseFile), ui.onChooseFile)
	ui.chooseBtn.Importance = widget.HighImportance

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(locale.KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onImportClick()
	}
	ui.importBtn = widget.NewButton(IconLink+" "+ui.localization.GetText(locale.KeyImportURL), ui.onImportClick)
	ui.importActivity = widget.NewActivity()
	ui.importActivity.Hide()
	urlRow := container.NewBorder(nil, nil, nil, container.NewHBox(ui.importActivity, ui.importBtn), ui.urlEntry)

	ui.uploadStep = container.NewVBox(ui.dropZone, container.NewCenter(ui.chooseBtn), urlRow)
}

func (ui *RootUI) setupConfigureStep() {
	ui.fileIconText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	ui.fileIconText.TextSize = FileIconTextSize

	ui.fileNameLabel = widget.NewLabel("")
	ui.fileNameLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.fileNameLabel.Truncation = fyne.TextTruncateEllipsis
	ui.fileSizeLabel = widget.NewLabel("")

	ui.changeFileBtn = widget.NewButton(ui.localization.GetText(locale.KeyChangeFile), ui.onChangeFile)
	ui.changeFileBtn.Importance = widget.LowImportance

	fileRow := container.NewBorder(nil, nil, ui.fileIconText, ui.changeFileBtn,
		container.NewVBox(ui.fileNameLabel, ui.fileSizeLabel))

	ui.formatSelect = widget.NewSelect(nil, ui.onFormatSelected)
	ui.formatSelect.PlaceHolder = ui.localization.GetText(locale.KeySelectFormat)

	ui.convertBtn = widget.NewButton(ui.localization.GetText(locale.KeyConvert), ui.onConvertClick)
	ui.convertBtn.Importance = widget.HighImportance
	ui.convertBtn.Disable()
	ui.convertActivity = widget.NewActivity()
	ui.convertActivity.Hide()

	ui.configureStep = container.NewVBox(
		fileRow,
		widget.NewSeparator(),
		ui.formatSelect,
		container.NewHBox(layout.NewSpacer(), ui.convertActivity, ui.convertBtn),
	)
	ui.configureStep.Hide()
}

func (ui *RootUI) setupResultStep() {
	ui.resultTitle = widget.NewLabel(ui.localization.GetText(locale.KeyConversionDone))
	ui.resultTitle.TextStyle = fyne.TextStyle{Bold: true}
	ui.resultTitle.Alignment = fyne.TextAlignCenter

	ui.resultLabel = widget.NewLabel("")
	ui.resultLabel.Alignment = fyne.TextAlignCenter
	ui.resultLabel.Wrapping = fyne.TextWrapWord

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(locale.KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.openBtn = widget.NewButton(ui.localization.GetText(locale.KeyOpen), ui.onOpenClick)
	ui.revealBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(locale.KeyReveal), ui.onRevealClick)
	ui.resetBtn = widget.NewButton(ui.localization.GetText(locale.KeyConvertAnother), ui.onResetClick)
	ui.resetBtn.Importance = widget.LowImportance

	ui.resultStep = container.NewVBox(
		ui.resultTitle,
		ui.resultLabel,
		container.NewCenter(container.NewHBox(ui.downloadBtn, ui.openBtn, ui.revealBtn)),
		container.NewCenter(ui.resetBtn),
	)
	ui.resultStep.Hide()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(locale.KeySettings), ui.onShowSettings)

	// Language submenu
	languageMenu := fyne.NewMenu(ui.localization.GetText(locale.KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(availableLanguages))
	for code := range availableLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		langCode := code
		langItem := fyne.NewMenuItem(availableLanguages[code], func() {
			ui.onLanguageChange(langCode)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(locale.KeyAppTitle), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all static UI texts with current language.
// Selector content follows on the next file selection.
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText

	ui.window.SetTitle(text(locale.KeyAppTitle))
	ui.titleLabel.SetText(text(locale.KeyAppTitle))
	ui.dropZone.SetHint(text(locale.KeyDropHint))
	ui.chooseBtn.SetText(text(locale.KeyChooseFile))
	ui.urlEntry.SetPlaceHolder(text(locale.KeyEnterURL))
	ui.importBtn.SetText(IconLink + " " + text(locale.KeyImportURL))
	ui.changeFileBtn.SetText(text(locale.KeyChangeFile))
	if !ui.convertActivity.Visible() {
		ui.convertBtn.SetText(text(locale.KeyConvert))
	}
	ui.resultTitle.SetText(text(locale.KeyConversionDone))
	ui.downloadBtn.SetText(text(locale.KeyDownload))
	ui.openBtn.SetText(text(locale.KeyOpen))
	ui.revealBtn.SetText(IconFolder + " " + text(locale.KeyReveal))
	ui.resetBtn.SetText(text(locale.KeyConvertAnother))
}

// ShowStep implements workflow.View
func (ui *RootUI) ShowStep(step model.WorkflowStep) {
	fyne.Do(func() {
		ui.currentStep = step
		ui.uploadStep.Hide()
		ui.configureStep.Hide()
		ui.resultStep.Hide()

		switch step {
		case model.StepUpload:
			ui.result = nil
			ui.savedPath = ""
			ui.uploadStep.Show()
		case model.StepConfigure:
			ui.configureStep.Show()
		case model.StepResult:
			ui.resultStep.Show()
		}
		log.Printf("Step changed to %s", step)
	})
}

// ShowFile implements workflow.View
func (ui *RootUI) ShowFile(file *model.SelectedFile, icon, size string) {
	fyne.Do(func() {
		ui.fileIconText.Text = icon
		ui.fileIconText.Refresh()
		ui.fileNameLabel.SetText(file.Name)
		ui.fileSizeLabel.SetText(size)
	})
}

// ShowFormatChoices implements workflow.View
func (ui *RootUI) ShowFormatChoices(choices workflow.FormatChoices) {
	fyne.Do(func() {
		ui.updatingChoices = true
		defer func() { ui.updatingChoices = false }()

		labels, exts := selectOptions(choices)
		ui.optionExt = exts
		ui.choicesBlocked = choices.Blocked || len(labels) == 0

		ui.formatSelect.SetOptions(labels)
		ui.formatSelect.ClearSelected()
		ui.formatSelect.PlaceHolder = choices.Placeholder
		if ui.formatSelect.PlaceHolder == "" {
			ui.formatSelect.PlaceHolder = ui.localization.GetText(locale.KeySelectFormat)
		}
		if ui.choicesBlocked {
			ui.formatSelect.Disable()
		} else {
			ui.formatSelect.Enable()
		}
		ui.formatSelect.Refresh()
	})
}

// SetConvertState implements workflow.View
func (ui *RootUI) SetConvertState(state workflow.ConvertState) {
	fyne.Do(func() {
		if state.Enabled && !state.Busy {
			ui.convertBtn.Enable()
		} else {
			ui.convertBtn.Disable()
		}

		importing := state.Busy && ui.currentStep == model.StepUpload
		converting := state.Busy && !importing

		if converting {
			ui.convertBtn.SetText(ui.localization.GetText(locale.KeyConverting))
			ui.convertActivity.Show()
			ui.convertActivity.Start()
			ui.formatSelect.Disable()
			ui.changeFileBtn.Disable()
		} else {
			ui.convertBtn.SetText(ui.localization.GetText(locale.KeyConvert))
			ui.convertActivity.Stop()
			ui.convertActivity.Hide()
			if !ui.choicesBlocked {
				ui.formatSelect.Enable()
			}
			ui.changeFileBtn.Enable()
		}

		if importing {
			ui.importBtn.SetText(ui.localization.GetText(locale.KeyImporting))
			ui.importBtn.Disable()
			ui.chooseBtn.Disable()
			ui.importActivity.Show()
			ui.importActivity.Start()
		} else {
			ui.importBtn.SetText(IconLink + " " + ui.localization.GetText(locale.KeyImportURL))
			ui.importBtn.Enable()
			ui.chooseBtn.Enable()
			ui.importActivity.Stop()
			ui.importActivity.Hide()
		}
	})
}

// ShowResult implements workflow.View
func (ui *RootUI) ShowResult(result *model.ConversionResult, summary string) {
	fyne.Do(func() {
		ui.result = result
		ui.savedPath = ""
		ui.resultLabel.SetText(summary)
	})
}

// ShowError implements workflow.View
func (ui *RootUI) ShowError(message string) {
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// HideError implements workflow.View
func (ui *RootUI) HideError() {
	fyne.Do(func() {
		ui.notificationContainer.Hide()
	})
}

// selectOptions flattens choices into select labels. Grouped choices carry
// their group label as prefix.
func selectOptions(choices workflow.FormatChoices) ([]string, map[string]string) {
	exts := make(map[string]string)
	var labels []string
	flat := choices.Flat()

	for _, group := range choices.Groups {
		for _, option := range group.Options {
			label := option.Label
			if !flat {
				label = group.Label + GroupOptionSeparator + option.Label
			}
			labels = append(labels, label)
			exts[label] = option.Extension
		}
	}
	return labels, exts
}

// onChooseFile opens the file chooser
func (ui *RootUI) onChooseFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			log.Printf("File chooser failed: %v", err)
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()

		file, err := selectedFileFromReader(reader)
		if err != nil {
			log.Printf("Failed to read chosen file: %v", err)
			ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorOpeningFile) + ": " + err.Error())
			return
		}
		ui.selectFile(file)
	}, ui.window)
	fd.Show()
}

// selectedFileFromReader keeps local files on disk and buffers other URIs.
func selectedFileFromReader(reader fyne.URIReadCloser) (*model.SelectedFile, error) {
	uri := reader.URI()
	if uri.Scheme() == FileURIScheme {
		return model.NewSelectedFileFromPath(uri.Path())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri.Name(), err)
	}
	return model.NewSelectedFileFromBytes(uri.Name(), data), nil
}

// onDropped handles files dropped on the window. Only the first file is used.
func (ui *RootUI) onDropped(_ fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	if len(uris) > 1 {
		log.Printf("Dropped %d files, using only %s", len(uris), uris[0].Name())
	}

	uri := uris[0]
	if uri.Scheme() != FileURIScheme {
		log.Printf("Ignoring dropped non-file URI: %s", uri)
		return
	}

	file, err := model.NewSelectedFileFromPath(uri.Path())
	if err != nil {
		log.Printf("Failed to use dropped file: %v", err)
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorOpeningFile) + ": " + err.Error())
		return
	}
	ui.selectFile(file)
}

func (ui *RootUI) selectFile(file *model.SelectedFile) {
	if err := ui.ctrl.SelectFile(file); err != nil {
		if errors.Is(err, workflow.ErrBusy) {
			ui.showPopup(ui.localization.GetText(locale.KeyBusy))
		}
		log.Printf("SelectFile(%s): %v", file.Name, err)
	}
}

// onFormatSelected handles a pick in the format selector
func (ui *RootUI) onFormatSelected(label string) {
	if ui.updatingChoices {
		return
	}
	if err := ui.ctrl.SelectTarget(ui.optionExt[label]); err != nil {
		log.Printf("SelectTarget(%q): %v", label, err)
	}
}

// onConvertClick starts the conversion in the background
func (ui *RootUI) onConvertClick() {
	go func() {
		if err := ui.ctrl.Convert(ui.ctx); err != nil {
			log.Printf("Convert: %v", err)
		}
	}()
}

// onImportClick asks the server to fetch the URL in the entry
func (ui *RootUI) onImportClick() {
	rawURL := ui.urlEntry.Text
	go func() {
		if err := ui.ctrl.ImportFromURL(ui.ctx, rawURL, "", ""); err != nil {
			log.Printf("Import: %v", err)
			return
		}
		fyne.Do(func() { ui.urlEntry.SetText("") })
	}()
}

func (ui *RootUI) onChangeFile() {
	if err := ui.ctrl.ChangeFile(); err != nil {
		log.Printf("ChangeFile: %v", err)
	}
}

func (ui *RootUI) onResetClick() {
	if err := ui.ctrl.Reset(); err != nil {
		log.Printf("Reset: %v", err)
	}
}

// saveResult copies the current result into the download directory once
func (ui *RootUI) saveResult() (string, error) {
	if ui.result == nil || ui.result.ArtifactPath == "" {
		return "", errors.New("no result to save")
	}
	if ui.savedPath != "" {
		if _, err := os.Stat(ui.savedPath); err == nil {
			return ui.savedPath, nil
		}
	}

	path, err := platform.SaveArtifact(ui.result.ArtifactPath, ui.settings.GetDownloadDirectory(), ui.result.OutputName)
	if err != nil {
		return "", err
	}
	ui.savedPath = path
	log.Printf("Result saved to %s", path)
	return path, nil
}

// onDownloadClick saves the result and optionally reveals it
func (ui *RootUI) onDownloadClick() {
	path, err := ui.saveResult()
	if err != nil {
		log.Printf("Error saving result: %v", err)
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorSaving) + ": " + err.Error())
		return
	}

	ui.showPopup(ui.localization.Format(locale.KeySavedTo, path))
	if ui.settings.GetAutoRevealOnSave() {
		ui.revealFile(path)
	}
}

// onOpenClick opens the saved result with the default application
func (ui *RootUI) onOpenClick() {
	path, err := ui.saveResult()
	if err != nil {
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorSaving) + ": " + err.Error())
		return
	}

	if err := platform.OpenFileWithDefaultApp(path); err != nil {
		log.Printf("Error opening file %s: %v", path, err)
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorOpeningFile) + ": " + err.Error())
		return
	}
	log.Printf("File opened successfully: %s", path)
}

// onRevealClick reveals the saved result in the file manager
func (ui *RootUI) onRevealClick() {
	path, err := ui.saveResult()
	if err != nil {
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorSaving) + ": " + err.Error())
		return
	}
	ui.revealFile(path)
}

func (ui *RootUI) revealFile(path string) {
	if err := platform.OpenFileInManager(path); err != nil {
		log.Printf("Error revealing file %s: %v", path, err)
		ui.ctrl.Notifier().Show(ui.localization.GetText(locale.KeyErrorOpeningFile) + ": " + err.Error())
		return
	}
	log.Printf("File revealed successfully: %s", path)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

// onSettingsSaved applies settings that take effect immediately
func (ui *RootUI) onSettingsSaved(languageChanged bool) {
	ui.ctrl.Notifier().SetDelay(ui.settings.GetNotificationDelay())
	if languageChanged {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}
}

// onTaskUpdate logs conversion progress and notifies on completion
func (ui *RootUI) onTaskUpdate(task *model.ConversionTask) {
	log.Printf("Task %s: %s (%s)", task.ID, task.Status, task.GetDisplayTitle())

	if task.Status == model.TaskStatusCompleted {
		ui.app.SendNotification(&fyne.Notification{
			Title:   ui.localization.GetText(locale.KeyConversionDone),
			Content: task.GetDisplayTitle(),
		})
	}
}

func (ui *RootUI) showPopup(message string) {
	widget.ShowPopUp(widget.NewLabel(message), ui.window.Canvas())
}
