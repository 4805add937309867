package model

// TaskStatus represents the status of a conversion task
type TaskStatus string

const (
	// TaskStatusPending means the task was created but the upload has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusConverting means the file is being uploaded and converted
	TaskStatusConverting TaskStatus = "Converting"

	// TaskStatusCompleted means the converted file is held in a local artifact
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the conversion failed
	TaskStatusError TaskStatus = "Error"

	// TaskStatusReleased means the artifact of a completed task was removed
	TaskStatusReleased TaskStatus = "Released"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while the task holds the convert action busy
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusPending || ts == TaskStatusConverting
}

// IsFinished returns true if the task reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError || ts == TaskStatusReleased
}

// WorkflowStep is one of the three mutually exclusive phases of the client.
type WorkflowStep int

const (
	StepUpload WorkflowStep = iota
	StepConfigure
	StepResult
)

// String returns a stable name for the step, used in logs.
func (s WorkflowStep) String() string {
	switch s {
	case StepUpload:
		return "Upload"
	case StepConfigure:
		return "Configure"
	case StepResult:
		return "Result"
	default:
		return "Unknown"
	}
}
