package workflow

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/convert"
	"github.com/ytget/convertudo/internal/locale"
	"github.com/ytget/convertudo/internal/model"
	"github.com/ytget/convertudo/internal/testutil"
)

const imageCatalog = `{"Imagem": {"png": ["jpg", "webp"]}}`

type harness struct {
	ctrl    *Controller
	view    *recordingView
	server  *testutil.FakeServer
	service *convert.Service
	clock   *fakeClock
}

func newHarness(t *testing.T, formats string) *harness {
	t.Helper()

	server := testutil.NewFakeServer(t, formats)
	client := api.NewClient(server.URL, server.Client())
	service, err := convert.NewService(client, client, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	view := &recordingView{}
	clock := &fakeClock{}
	ctrl := NewController(client, service, view, locale.NewLocalization(), WithAfterFunc(clock.AfterFunc))
	t.Cleanup(ctrl.Close)

	return &harness{ctrl: ctrl, view: view, server: server, service: service, clock: clock}
}

func sizedFile(name string, size int) *model.SelectedFile {
	return model.NewSelectedFileFromBytes(name, bytes.Repeat([]byte{'a'}, size))
}

func TestScenarioSuccessfulConversion(t *testing.T) {
	h := newHarness(t, imageCatalog)
	h.server.SetConvertHandler(func(testutil.ConvertCall) (int, string, []byte) {
		return http.StatusOK, "image/jpeg", bytes.Repeat([]byte{'j'}, 3072)
	})
	ctx := context.Background()

	h.ctrl.Start()
	require.NoError(t, h.ctrl.LoadCatalog(ctx))

	require.NoError(t, h.ctrl.SelectFile(sizedFile("logo.png", 2048)))
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
	assert.Equal(t, model.StepConfigure, h.view.lastStep())
	assert.Equal(t, "2.0 KB", h.view.size)
	assert.False(t, h.ctrl.CanConvert())
	assert.Equal(t, ConvertState{}, h.view.lastState())

	choices := h.view.choices
	assert.True(t, choices.Flat())
	assert.Equal(t, []Choice{{Extension: "jpg", Label: ".JPG"}, {Extension: "webp", Label: ".WEBP"}}, choices.Options())

	require.NoError(t, h.ctrl.SelectTarget("jpg"))
	assert.True(t, h.ctrl.CanConvert())
	assert.Equal(t, ConvertState{Enabled: true}, h.view.lastState())

	require.NoError(t, h.ctrl.Convert(ctx))
	assert.True(t, h.view.sawState(ConvertState{Busy: true}))
	assert.Equal(t, model.StepResult, h.ctrl.Step())
	assert.Equal(t, model.StepResult, h.view.lastStep())
	assert.Equal(t, "logo.png → logo.jpg · 2.0 KB → 3.0 KB", h.view.summary)

	result := h.ctrl.Result()
	require.NotNil(t, result)
	assert.Equal(t, "logo.jpg", result.OutputName)
	info, err := os.Stat(result.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, int64(3072), info.Size())

	calls := h.server.ConvertCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "logo.png", calls[0].FileName)
	assert.Equal(t, "jpg", calls[0].TargetFormat)
}

func TestScenarioCatalogUnavailable(t *testing.T) {
	h := newHarness(t, imageCatalog)
	h.server.SetFormats(http.StatusInternalServerError, `{"detail": "down"}`)
	ctx := context.Background()

	assert.Error(t, h.ctrl.LoadCatalog(ctx))
	assert.Nil(t, h.ctrl.Catalog())

	err := h.ctrl.SelectFile(sizedFile("logo.png", 10))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())

	text := locale.NewLocalization()
	assert.True(t, h.view.choices.Blocked)
	assert.Equal(t, text.GetText(locale.KeyCatalogUnavailable), h.view.choices.Placeholder)
	assert.Equal(t, text.GetText(locale.KeyCatalogUnavailable), h.view.lastError())

	assert.ErrorIs(t, h.ctrl.SelectTarget("jpg"), ErrUnknownTarget)
	assert.ErrorIs(t, h.ctrl.Convert(ctx), ErrNotReady)
	assert.False(t, h.ctrl.CanConvert())
	assert.False(t, h.view.lastState().Enabled)
	assert.Empty(t, h.server.ConvertCalls())
}

func TestScenarioServerFailure(t *testing.T) {
	h := newHarness(t, imageCatalog)
	h.server.SetConvertHandler(func(testutil.ConvertCall) (int, string, []byte) {
		return http.StatusInternalServerError, "application/json", []byte(`{"detail":"engine crashed"}`)
	})
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadCatalog(ctx))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("logo.png", 10)))
	require.NoError(t, h.ctrl.SelectTarget("webp"))

	err := h.ctrl.Convert(ctx)
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "engine crashed", convErr.Message)

	assert.Equal(t, "engine crashed", h.view.lastError())
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
	assert.Equal(t, ConvertState{Enabled: true}, h.view.lastState())
	assert.True(t, h.ctrl.CanConvert())
	assert.Nil(t, h.ctrl.Result())
}

func TestConvertFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"detail string", http.StatusBadRequest, `{"detail": "Formato inválido"}`, "Formato inválido"},
		{"detail list", http.StatusUnprocessableEntity, `{"detail": [{"msg": "field required"}]}`, "Error 422"},
		{"no json", http.StatusBadGateway, `<html>bad gateway</html>`, "Error 502"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, imageCatalog)
			h.server.SetConvertHandler(func(testutil.ConvertCall) (int, string, []byte) {
				return test.status, "application/json", []byte(test.body)
			})

			require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
			require.NoError(t, h.ctrl.SelectFile(sizedFile("a.png", 1)))
			require.NoError(t, h.ctrl.SelectTarget("jpg"))

			err := h.ctrl.Convert(context.Background())
			require.Error(t, err)
			assert.Equal(t, test.expected, h.view.lastError())
		})
	}
}

func TestConvertNetworkFailure(t *testing.T) {
	h := newHarness(t, imageCatalog)
	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("a.png", 1)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))

	h.server.Close()

	require.Error(t, h.ctrl.Convert(context.Background()))
	assert.Equal(t, locale.NewLocalization().GetText(locale.KeyNetworkError), h.view.lastError())
	assert.Equal(t, ConvertState{Enabled: true}, h.view.lastState())
}

func TestConvertDroppedConnection(t *testing.T) {
	h := newHarness(t, imageCatalog)
	h.server.SetConvertHandler(func(testutil.ConvertCall) (int, string, []byte) {
		return http.StatusOK, "image/jpeg", make([]byte, 100000)
	})
	h.server.SetConvertTruncated(7)

	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("a.png", 1)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))

	require.Error(t, h.ctrl.Convert(context.Background()))
	assert.Equal(t, locale.NewLocalization().GetText(locale.KeyNetworkError), h.view.lastError())
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
}

func TestResetReleasesResult(t *testing.T) {
	h := newHarness(t, imageCatalog)
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadCatalog(ctx))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("logo.png", 64)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))
	require.NoError(t, h.ctrl.Convert(ctx))

	result := h.ctrl.Result()
	require.NotNil(t, result)
	require.FileExists(t, result.ArtifactPath)

	require.NoError(t, h.ctrl.Reset())
	assert.NoFileExists(t, result.ArtifactPath)

	task, ok := h.service.GetTask(result.TaskID)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusReleased, task.Status)

	assert.Equal(t, model.StepUpload, h.ctrl.Step())
	assert.Equal(t, model.StepUpload, h.view.lastStep())
	assert.Empty(t, h.ctrl.Target())
	assert.Nil(t, h.ctrl.File())
	assert.Nil(t, h.ctrl.Result())
	assert.Equal(t, ConvertState{}, h.view.lastState())
	assert.Equal(t, FormatChoices{}, h.view.choices)
	assert.False(t, h.ctrl.CanConvert())
}

func TestSelectFileReleasesHeldResult(t *testing.T) {
	h := newHarness(t, imageCatalog)
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadCatalog(ctx))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("one.png", 8)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))
	require.NoError(t, h.ctrl.Convert(ctx))
	first := h.ctrl.Result()

	require.NoError(t, h.ctrl.SelectFile(sizedFile("two.png", 8)))
	assert.NoFileExists(t, first.ArtifactPath)
	assert.Nil(t, h.ctrl.Result())
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
	assert.Empty(t, h.ctrl.Target())
}

func TestSelectFileUnsupported(t *testing.T) {
	h := newHarness(t, imageCatalog)
	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))

	err := h.ctrl.SelectFile(sizedFile("notes.xyz", 3))
	var unsupported *UnsupportedInputError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "xyz", unsupported.Ext)

	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
	assert.True(t, h.view.choices.Blocked)
	assert.Equal(t, `Format ".xyz" not supported`, h.view.choices.Placeholder)
	assert.Empty(t, h.view.errors)
	assert.ErrorIs(t, h.ctrl.Convert(context.Background()), ErrNotReady)
}

func TestSelectTarget(t *testing.T) {
	h := newHarness(t, imageCatalog)

	assert.ErrorIs(t, h.ctrl.SelectTarget("jpg"), ErrNotReady)

	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("a.PNG", 1)))

	require.NoError(t, h.ctrl.SelectTarget(".WEBP"))
	assert.Equal(t, "webp", h.ctrl.Target())
	assert.True(t, h.view.lastState().Enabled)

	assert.ErrorIs(t, h.ctrl.SelectTarget("gif"), ErrUnknownTarget)
	assert.Equal(t, "webp", h.ctrl.Target())

	require.NoError(t, h.ctrl.SelectTarget(""))
	assert.False(t, h.view.lastState().Enabled)
	assert.False(t, h.ctrl.CanConvert())
}

func TestChangeFile(t *testing.T) {
	h := newHarness(t, imageCatalog)
	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("a.png", 1)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))

	require.NoError(t, h.ctrl.ChangeFile())
	assert.Equal(t, model.StepUpload, h.ctrl.Step())
	assert.Nil(t, h.ctrl.File())
	assert.Empty(t, h.ctrl.Target())
	assert.NotNil(t, h.ctrl.Catalog())
	assert.Equal(t, 1, h.server.FormatsHits())
}

func TestLoadCatalogRefreshesPendingSelection(t *testing.T) {
	h := newHarness(t, imageCatalog)

	assert.ErrorIs(t, h.ctrl.SelectFile(sizedFile("a.png", 1)), ErrCatalogUnavailable)
	assert.True(t, h.view.choices.Blocked)

	_, visible := h.ctrl.Notifier().Visible()
	require.True(t, visible)

	require.NoError(t, h.ctrl.LoadCatalog(context.Background()))
	assert.False(t, h.view.choices.Blocked)
	assert.Len(t, h.view.choices.Options(), 2)
	require.NoError(t, h.ctrl.SelectTarget("jpg"))

	// formats are available now, so the catalog error goes away
	_, visible = h.ctrl.Notifier().Visible()
	assert.False(t, visible)
	assert.Equal(t, 1, h.view.hidden)
}

func TestErrorAutoHideAndDismiss(t *testing.T) {
	h := newHarness(t, imageCatalog)

	h.ctrl.SelectFile(sizedFile("a.png", 1))
	require.Equal(t, 1, h.clock.count())
	assert.Equal(t, DefaultNotificationDelay, h.clock.timers[0].delay)

	h.clock.fire(0)
	assert.Equal(t, 1, h.view.hidden)

	h.ctrl.SelectFile(sizedFile("b.png", 1))
	h.ctrl.DismissError()
	assert.Equal(t, 2, h.view.hidden)
}

// blockingRunner holds Convert until release is closed, then fails with err
// when set.
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (r *blockingRunner) SetUpdateCallback(func(*model.ConversionTask)) {}

func (r *blockingRunner) Convert(ctx context.Context, file *model.SelectedFile, target string) (*model.ConversionTask, error) {
	close(r.started)
	<-r.release
	if r.err != nil {
		return &model.ConversionTask{ID: "convert-test", Status: model.TaskStatusError, LastError: r.err.Error()}, r.err
	}
	return &model.ConversionTask{
		ID:           "convert-test",
		InputName:    file.Name,
		InputSize:    file.Size,
		TargetFormat: target,
		Status:       model.TaskStatusCompleted,
		OutputName:   file.OutputName(target),
		OutputSize:   1,
	}, nil
}

func (r *blockingRunner) MediaInfo(context.Context, string) (*api.MediaInfo, error) {
	return nil, errors.New("not supported")
}

func (r *blockingRunner) ImportURL(context.Context, convert.ImportRequest) (*model.SelectedFile, error) {
	return nil, errors.New("not supported")
}

func (r *blockingRunner) GetTask(string) (*model.ConversionTask, bool) { return nil, false }
func (r *blockingRunner) Release(string) error                         { return nil }
func (r *blockingRunner) Close() error                                 { return nil }

func TestConvertIsGuardedWhileInFlight(t *testing.T) {
	server := testutil.NewFakeServer(t, imageCatalog)
	client := api.NewClient(server.URL, server.Client())
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	view := &recordingView{}
	ctrl := NewController(client, runner, view, locale.NewLocalization(), WithAfterFunc((&fakeClock{}).AfterFunc))

	require.NoError(t, ctrl.LoadCatalog(context.Background()))
	require.NoError(t, ctrl.SelectFile(sizedFile("a.png", 1)))
	require.NoError(t, ctrl.SelectTarget("jpg"))

	done := make(chan error, 1)
	go func() { done <- ctrl.Convert(context.Background()) }()
	<-runner.started

	assert.True(t, ctrl.Busy())
	assert.False(t, ctrl.CanConvert())
	assert.ErrorIs(t, ctrl.Convert(context.Background()), ErrBusy)
	assert.ErrorIs(t, ctrl.SelectFile(sizedFile("b.png", 1)), ErrBusy)
	assert.ErrorIs(t, ctrl.SelectTarget("webp"), ErrBusy)
	assert.ErrorIs(t, ctrl.ChangeFile(), ErrBusy)
	assert.ErrorIs(t, ctrl.Reset(), ErrBusy)
	assert.Equal(t, ConvertState{Busy: true}, view.lastState())

	close(runner.release)
	require.NoError(t, <-done)
	assert.False(t, ctrl.Busy())
	assert.Equal(t, model.StepResult, ctrl.Step())
}

func TestImportFromURL(t *testing.T) {
	h := newHarness(t, imageCatalog)
	h.server.MediaFileName = "frame.png"
	h.server.MediaContent = []byte("png-bytes")
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadCatalog(ctx))
	require.NoError(t, h.ctrl.ImportFromURL(ctx, " https://example.com/frame ", "png", ""))

	file := h.ctrl.File()
	require.NotNil(t, file)
	assert.Equal(t, "frame.png", file.Name)
	assert.Equal(t, model.StepConfigure, h.ctrl.Step())
	assert.Len(t, h.view.choices.Options(), 2)
	assert.True(t, h.view.sawState(ConvertState{Busy: true}))
	assert.False(t, h.ctrl.Busy())
}

func TestImportFromURLValidation(t *testing.T) {
	h := newHarness(t, imageCatalog)
	ctx := context.Background()
	text := locale.NewLocalization()

	err := h.ctrl.ImportFromURL(ctx, "   ", "", "")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, text.GetText(locale.KeyPleaseEnterURL), h.view.lastError())

	err = h.ctrl.ImportFromURL(ctx, "ftp://example.com/file", "", "")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, text.GetText(locale.KeyInvalidURL), h.view.lastError())

	assert.Equal(t, model.StepUpload, h.ctrl.Step())
	assert.Empty(t, h.view.states)
}

func TestCloseReleasesResult(t *testing.T) {
	h := newHarness(t, imageCatalog)
	ctx := context.Background()

	require.NoError(t, h.ctrl.LoadCatalog(ctx))
	require.NoError(t, h.ctrl.SelectFile(sizedFile("a.png", 4)))
	require.NoError(t, h.ctrl.SelectTarget("jpg"))
	require.NoError(t, h.ctrl.Convert(ctx))
	path := h.ctrl.Result().ArtifactPath

	h.ctrl.Close()
	assert.NoFileExists(t, path)
	assert.Nil(t, h.ctrl.Result())
}

func TestConvertFailureAfterCloseIsSilent(t *testing.T) {
	server := testutil.NewFakeServer(t, imageCatalog)
	client := api.NewClient(server.URL, server.Client())
	runner := &blockingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
		err:     &api.TransportError{Op: "convert", Err: context.Canceled},
	}
	view := &recordingView{}
	clock := &fakeClock{}
	ctrl := NewController(client, runner, view, locale.NewLocalization(), WithAfterFunc(clock.AfterFunc))

	require.NoError(t, ctrl.LoadCatalog(context.Background()))
	require.NoError(t, ctrl.SelectFile(sizedFile("a.png", 1)))
	require.NoError(t, ctrl.SelectTarget("jpg"))

	done := make(chan error, 1)
	go func() { done <- ctrl.Convert(context.Background()) }()
	<-runner.started

	ctrl.Close()
	close(runner.release)
	assert.Error(t, <-done)

	assert.Zero(t, clock.count(), "no auto-hide timer may be armed after Close")
	assert.Empty(t, view.errors)

	// direct notifications are dropped too
	ctrl.Notifier().Show("late")
	assert.Zero(t, clock.count())
}
