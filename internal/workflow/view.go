package workflow

import "github.com/ytget/convertudo/internal/model"

// ConvertState describes the convert action.
type ConvertState struct {
	Enabled bool
	Busy    bool
}

// View renders controller state. Methods may be called from any goroutine
// and must not call back into the Controller synchronously.
type View interface {
	ShowStep(step model.WorkflowStep)
	ShowFile(file *model.SelectedFile, icon, size string)
	ShowFormatChoices(choices FormatChoices)
	SetConvertState(state ConvertState)
	ShowResult(result *model.ConversionResult, summary string)
	ShowError(message string)
	HideError()
}

// Translator resolves UI strings.
type Translator interface {
	GetText(key string) string
	Format(key string, args ...any) string
}
