package model

import (
	"fmt"
	"strings"
	"time"
)

// Text fragments used in result summaries
const (
	ArrowSeparator     = " → "
	MiddleDotSeparator = " · "
)

// ConversionTask represents a single convert action
type ConversionTask struct {
	ID           string
	InputName    string
	InputSize    int64
	TargetFormat string
	Status       TaskStatus
	LastError    string    // last error message if any
	OutputName   string    // derived download name
	OutputPath   string    // scratch artifact holding the converted bytes
	OutputSize   int64     // size of the converted file in bytes
	StartedAt    time.Time // when the upload started
	FinishedAt   time.Time // when the response was fully read
}

// ConversionResult is what the Result step presents.
type ConversionResult struct {
	TaskID       string
	InputName    string
	OutputName   string
	ArtifactPath string
	InputSize    int64
	OutputSize   int64
}

// Result builds the presentable result of a completed task.
func (ct *ConversionTask) Result() *ConversionResult {
	return &ConversionResult{
		TaskID:       ct.ID,
		InputName:    ct.InputName,
		OutputName:   ct.OutputName,
		ArtifactPath: ct.OutputPath,
		InputSize:    ct.InputSize,
		OutputSize:   ct.OutputSize,
	}
}

// GetElapsedString returns the conversion duration in seconds, or "—" while unknown
func (ct *ConversionTask) GetElapsedString() string {
	if ct.StartedAt.IsZero() || ct.FinishedAt.IsZero() {
		return "—"
	}
	return fmt.Sprintf("%.1fs", ct.FinishedAt.Sub(ct.StartedAt).Seconds())
}

// GetDisplayTitle returns "input → output" once the output name is known
func (ct *ConversionTask) GetDisplayTitle() string {
	if ct.OutputName == "" {
		return ct.InputName
	}
	return ct.InputName + ArrowSeparator + ct.OutputName
}

// Summary renders "in → out · inSize → outSize".
func (r *ConversionResult) Summary() string {
	var b strings.Builder
	b.WriteString(r.InputName)
	b.WriteString(ArrowSeparator)
	b.WriteString(r.OutputName)
	b.WriteString(MiddleDotSeparator)
	b.WriteString(HumanizeBytes(r.InputSize))
	b.WriteString(ArrowSeparator)
	b.WriteString(HumanizeBytes(r.OutputSize))
	return b.String()
}
