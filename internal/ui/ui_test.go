package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/convertudo/internal/config"
	"github.com/ytget/convertudo/internal/locale"
	"github.com/ytget/convertudo/internal/workflow"
)

func TestSelectOptionsFlat(t *testing.T) {
	choices := workflow.FormatChoices{
		Groups: []workflow.ChoiceGroup{{
			Category: "Other",
			Label:    "Other",
			Options:  []workflow.Choice{{Extension: "jpg", Label: ".JPG"}, {Extension: "webp", Label: ".WEBP"}},
		}},
	}

	labels, exts := selectOptions(choices)
	if len(labels) != 2 || labels[0] != ".JPG" || labels[1] != ".WEBP" {
		t.Errorf("Unexpected flat labels %v", labels)
	}
	if exts[".WEBP"] != "webp" {
		t.Errorf("Expected .WEBP to map to webp, got %q", exts[".WEBP"])
	}
}

func TestSelectOptionsGrouped(t *testing.T) {
	choices := workflow.FormatChoices{
		Groups: []workflow.ChoiceGroup{
			{Category: "Imagem", Label: "🖼️ Imagem", Options: []workflow.Choice{{Extension: "png", Label: ".PNG"}}},
			{Category: "Documento", Label: "📄 Documento", Options: []workflow.Choice{{Extension: "pdf", Label: ".PDF"}}},
		},
	}

	labels, exts := selectOptions(choices)
	expected := []string{"🖼️ Imagem · .PNG", "📄 Documento · .PDF"}
	for i, label := range expected {
		if labels[i] != label {
			t.Errorf("Label %d = %q, expected %q", i, labels[i], label)
		}
	}
	if exts[expected[1]] != "pdf" {
		t.Errorf("Expected pdf, got %q", exts[expected[1]])
	}

	labels, _ = selectOptions(workflow.FormatChoices{Placeholder: "blocked", Blocked: true})
	if len(labels) != 0 {
		t.Errorf("Blocked choices should have no options, got %v", labels)
	}
}

func TestDropZoneTap(t *testing.T) {
	test.NewApp()

	tapped := 0
	zone := NewDropZone("drop here", func() { tapped++ })
	test.Tap(zone)

	if tapped != 1 {
		t.Errorf("Expected one tap callback, got %d", tapped)
	}
	size := zone.MinSize()
	if size.Width < DropZoneMinWidth || size.Height < DropZoneMinHeight {
		t.Errorf("Drop zone smaller than minimum: %v", size)
	}
}

func TestSettingsDialogApply(t *testing.T) {
	app := test.NewApp()
	window := app.NewWindow("settings")
	defer window.Close()

	settings := config.NewSettings(app)
	sd := NewSettingsDialog(settings, locale.NewLocalization(), window, nil)
	sd.loadCurrentSettings()

	sd.serverEntry.SetText("http://10.1.1.1:8000/")
	sd.delayEntry.SetText("99")
	sd.autoRevealCheck.SetChecked(false)
	sd.languageSelect.SetSelected("Português")

	if !sd.apply() {
		t.Error("Expected language change to be reported")
	}
	if got := settings.GetServerURL(); got != "http://10.1.1.1:8000" {
		t.Errorf("Unexpected server URL %s", got)
	}
	if got := settings.GetNotificationDelaySeconds(); got != config.MaxNotificationDelay {
		t.Errorf("Expected clamped delay, got %d", got)
	}
	if settings.GetAutoRevealOnSave() {
		t.Error("Auto reveal should be off")
	}
	if settings.GetLanguage() != "pt" {
		t.Errorf("Expected pt, got %s", settings.GetLanguage())
	}

	sd.loadCurrentSettings()
	if sd.apply() {
		t.Error("Unchanged language should not be reported")
	}
}
