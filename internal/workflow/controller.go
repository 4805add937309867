package workflow

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/catalog"
	"github.com/ytget/convertudo/internal/convert"
	"github.com/ytget/convertudo/internal/locale"
	"github.com/ytget/convertudo/internal/model"
)

// Option configures a Controller.
type Option func(*Controller)

// WithNotificationDelay sets how long errors stay visible.
func WithNotificationDelay(delay time.Duration) Option {
	return func(c *Controller) { c.delay = delay }
}

// WithAfterFunc replaces the timer used for auto-hiding errors.
func WithAfterFunc(after AfterFunc) Option {
	return func(c *Controller) { c.after = after }
}

// Controller owns the session state: catalog, selected file, target and the
// current result. All view updates are issued after the state lock is
// released.
type Controller struct {
	source   api.FormatSource
	runner   convert.Runner
	view     View
	text     Translator
	notifier *Notifier
	delay    time.Duration
	after    AfterFunc

	mu      sync.Mutex
	catalog *catalog.Catalog
	step    model.WorkflowStep
	file    *model.SelectedFile
	ext     string
	choices FormatChoices
	target  string
	busy    bool
	result  *model.ConversionResult
	closed  bool
}

// NewController creates a controller in the Upload step.
func NewController(source api.FormatSource, runner convert.Runner, view View, text Translator, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		runner: runner,
		view:   view,
		text:   text,
		step:   model.StepUpload,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notifier = NewNotifier(c.delay, view.ShowError, view.HideError, c.after)
	return c
}

// Notifier returns the error notifier.
func (c *Controller) Notifier() *Notifier {
	return c.notifier
}

// Start shows the initial step.
func (c *Controller) Start() {
	c.view.ShowStep(model.StepUpload)
	c.view.SetConvertState(ConvertState{})
}

// LoadCatalog fetches the format catalog once. On failure the catalog stays
// unset and the error is returned for logging only.
func (c *Controller) LoadCatalog(ctx context.Context) error {
	cat, err := c.source.FetchFormats(ctx)
	if err != nil {
		log.Printf("Failed to load format catalog: %v", err)
		return err
	}

	c.mu.Lock()
	c.catalog = cat
	refresh := c.step == model.StepConfigure && c.target == "" && !c.busy
	var choices FormatChoices
	if refresh {
		choices, _ = buildChoices(cat, c.ext, c.text)
		c.choices = choices
	}
	c.mu.Unlock()

	log.Printf("Format catalog loaded: %d categories", cat.Len())
	if refresh {
		c.view.ShowFormatChoices(choices)
		c.notifier.Dismiss()
	}
	return nil
}

// SetCatalog installs an already fetched catalog.
func (c *Controller) SetCatalog(cat *catalog.Catalog) {
	c.mu.Lock()
	c.catalog = cat
	c.mu.Unlock()
}

// Catalog returns the loaded catalog or nil.
func (c *Controller) Catalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// SelectFile makes file the current file and moves to Configure. A held
// result is released first. The step changes even when an error is
// returned: ErrCatalogUnavailable or *UnsupportedInputError describe why no
// format can be chosen.
func (c *Controller) SelectFile(file *model.SelectedFile) error {
	if file == nil {
		return errors.New("no file selected")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	released := c.takeResult()
	c.file = file
	c.ext = file.Extension()
	c.target = ""
	choices, choiceErr := buildChoices(c.catalog, c.ext, c.text)
	c.choices = choices
	c.step = model.StepConfigure
	c.mu.Unlock()

	c.release(released)
	log.Printf("File selected: %s (%s, ext=%q)", file.Name, model.HumanizeBytes(file.Size), file.Extension())

	c.view.ShowFile(file, catalog.IconForExtension(file.Extension()), model.HumanizeBytes(file.Size))
	c.view.ShowFormatChoices(choices)
	c.view.SetConvertState(ConvertState{})
	c.view.ShowStep(model.StepConfigure)

	if errors.Is(choiceErr, ErrCatalogUnavailable) {
		c.notifier.Show(choices.Placeholder)
	}
	return choiceErr
}

// SelectTarget sets the target format. An empty ext clears it.
func (c *Controller) SelectTarget(ext string) error {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))

	c.mu.Lock()
	if c.step != model.StepConfigure {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if ext != "" {
		if _, ok := c.choices.Find(ext); !ok {
			c.mu.Unlock()
			return ErrUnknownTarget
		}
	}
	c.target = ext
	state := ConvertState{Enabled: ext != ""}
	c.mu.Unlock()

	c.view.SetConvertState(state)
	return nil
}

// ChangeFile discards the file and goes back to Upload. The catalog is kept.
func (c *Controller) ChangeFile() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != model.StepConfigure {
		c.mu.Unlock()
		return nil
	}
	c.clearSelection()
	c.mu.Unlock()

	log.Printf("File discarded")
	c.showUpload()
	return nil
}

// Convert uploads the current file. Without a file and target, or while
// another conversion runs, it does nothing and returns ErrNotReady or
// ErrBusy. Failures are reported through the notifier and returned as
// *ConversionError; the step stays Configure.
func (c *Controller) Convert(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != model.StepConfigure || c.file == nil || c.target == "" {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.busy = true
	file, target := c.file, c.target
	c.mu.Unlock()

	c.view.SetConvertState(ConvertState{Busy: true})
	log.Printf("Converting %s to %s", file.Name, target)

	task, err := c.runner.Convert(ctx, file, target)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		if c.closed {
			c.mu.Unlock()
			log.Printf("Conversion failed after close: %v", err)
			return err
		}
		message := c.failureMessage(err)
		state := ConvertState{Enabled: c.target != ""}
		c.mu.Unlock()

		c.view.SetConvertState(state)
		c.notifier.Show(message)
		return &ConversionError{Message: message, Err: err}
	}

	result := task.Result()
	if c.closed {
		c.mu.Unlock()
		c.release(result)
		return context.Canceled
	}
	c.result = result
	c.step = model.StepResult
	c.mu.Unlock()

	summary := result.Summary()
	log.Printf("Conversion finished: %s", summary)
	c.view.SetConvertState(ConvertState{})
	c.view.ShowResult(result, summary)
	c.view.ShowStep(model.StepResult)
	return nil
}

// Reset releases the result and returns to Upload with nothing selected.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	released := c.takeResult()
	c.clearSelection()
	c.mu.Unlock()

	c.release(released)
	c.showUpload()
	return nil
}

// ImportFromURL has the server download rawURL and selects the file.
func (c *Controller) ImportFromURL(ctx context.Context, rawURL, format, quality string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		message := c.text.GetText(locale.KeyPleaseEnterURL)
		c.notifier.Show(message)
		return &ConversionError{Message: message, Err: ErrInvalidURL}
	}
	if !isMediaURL(rawURL) {
		message := c.text.GetText(locale.KeyInvalidURL)
		c.notifier.Show(message)
		return &ConversionError{Message: message, Err: ErrInvalidURL}
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	previous := ConvertState{Enabled: c.step == model.StepConfigure && c.target != ""}
	c.mu.Unlock()

	c.view.SetConvertState(ConvertState{Busy: true})
	log.Printf("Importing %s", rawURL)

	file, err := c.runner.ImportURL(ctx, convert.ImportRequest{URL: rawURL, Format: format, Quality: quality})

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()

	if err != nil {
		message := c.failureMessage(err)
		c.view.SetConvertState(previous)
		c.notifier.Show(message)
		return &ConversionError{Message: message, Err: err}
	}
	return c.SelectFile(file)
}

// DismissError hides the error notification.
func (c *Controller) DismissError() {
	c.notifier.Dismiss()
}

// Close releases the held result and stops the notifier.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	released := c.takeResult()
	c.mu.Unlock()

	c.release(released)
	c.notifier.Stop()
}

// Step returns the active step.
func (c *Controller) Step() model.WorkflowStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// File returns the selected file or nil.
func (c *Controller) File() *model.SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file
}

// Target returns the selected target format.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Choices returns the current selector content.
func (c *Controller) Choices() FormatChoices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.choices
}

// Busy reports whether a conversion or import is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// CanConvert reports whether the convert action is enabled.
func (c *Controller) CanConvert() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step == model.StepConfigure && c.file != nil && c.target != "" && !c.busy
}

// Result returns the held result or nil.
func (c *Controller) Result() *model.ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// takeResult detaches the held result. Callers hold c.mu.
func (c *Controller) takeResult() *model.ConversionResult {
	result := c.result
	c.result = nil
	return result
}

// clearSelection drops file, target and choices and moves to Upload. Callers hold c.mu.
func (c *Controller) clearSelection() {
	c.file = nil
	c.ext = ""
	c.target = ""
	c.choices = FormatChoices{}
	c.step = model.StepUpload
}

func (c *Controller) release(result *model.ConversionResult) {
	if result == nil {
		return
	}
	if err := c.runner.Release(result.TaskID); err != nil {
		log.Printf("Failed to release result of %s: %v", result.TaskID, err)
	}
}

func (c *Controller) showUpload() {
	c.view.ShowFormatChoices(FormatChoices{})
	c.view.SetConvertState(ConvertState{})
	c.view.ShowStep(model.StepUpload)
}

// failureMessage maps a conversion error to the text shown to the user.
func (c *Controller) failureMessage(err error) string {
	var statusErr *api.StatusError
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Detail != "" {
			return statusErr.Detail
		}
		return c.text.Format(locale.KeyErrorStatus, statusErr.StatusCode)
	case api.IsTransport(err):
		return c.text.GetText(locale.KeyNetworkError)
	default:
		return c.text.GetText(locale.KeyUnexpectedError)
	}
}

func isMediaURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
