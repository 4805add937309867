package workflow

import (
	"sync"
	"time"

	"github.com/ytget/convertudo/internal/model"
)

// recordingView keeps every update the controller issues.
type recordingView struct {
	mu      sync.Mutex
	steps   []model.WorkflowStep
	file    *model.SelectedFile
	icon    string
	size    string
	choices FormatChoices
	states  []ConvertState
	result  *model.ConversionResult
	summary string
	errors  []string
	hidden  int
}

func (v *recordingView) ShowStep(step model.WorkflowStep) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.steps = append(v.steps, step)
}

func (v *recordingView) ShowFile(file *model.SelectedFile, icon, size string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.file, v.icon, v.size = file, icon, size
}

func (v *recordingView) ShowFormatChoices(choices FormatChoices) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.choices = choices
}

func (v *recordingView) SetConvertState(state ConvertState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, state)
}

func (v *recordingView) ShowResult(result *model.ConversionResult, summary string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result, v.summary = result, summary
}

func (v *recordingView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *recordingView) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

func (v *recordingView) lastStep() model.WorkflowStep {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.steps) == 0 {
		return model.StepUpload
	}
	return v.steps[len(v.steps)-1]
}

func (v *recordingView) lastState() ConvertState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.states) == 0 {
		return ConvertState{}
	}
	return v.states[len(v.states)-1]
}

func (v *recordingView) lastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.errors) == 0 {
		return ""
	}
	return v.errors[len(v.errors)-1]
}

func (v *recordingView) sawState(state ConvertState) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, s := range v.states {
		if s == state {
			return true
		}
	}
	return false
}

// fakeClock records scheduled callbacks so tests fire them by hand.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs timer i even when it was stopped, like a timer that already
// fired before Stop was called.
func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.fn()
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
