package model

import (
	"testing"
	"time"
)

func TestConversionTask_GetElapsedString(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		started  time.Time
		finished time.Time
		expected string
	}{
		{time.Time{}, time.Time{}, "—"},
		{start, time.Time{}, "—"},
		{start, start.Add(1500 * time.Millisecond), "1.5s"},
		{start, start.Add(2 * time.Minute), "120.0s"},
	}

	for _, test := range tests {
		task := &ConversionTask{StartedAt: test.started, FinishedAt: test.finished}
		result := task.GetElapsedString()
		if result != test.expected {
			t.Errorf("GetElapsedString() = %s, expected %s", result, test.expected)
		}
	}
}

func TestConversionTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		input    string
		output   string
		expected string
	}{
		{"logo.png", "", "logo.png"},
		{"logo.png", "logo.jpg", "logo.png → logo.jpg"},
	}

	for _, test := range tests {
		task := &ConversionTask{InputName: test.input, OutputName: test.output}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with input='%s', output='%s' = '%s', expected '%s'",
				test.input, test.output, result, test.expected)
		}
	}
}

func TestConversionResult_Summary(t *testing.T) {
	task := &ConversionTask{
		ID:         "task-1",
		InputName:  "logo.png",
		InputSize:  2048,
		OutputName: "logo.jpg",
		OutputPath: "/tmp/artifact",
		OutputSize: 3072,
	}

	result := task.Result()
	if result.TaskID != "task-1" {
		t.Errorf("Expected TaskID 'task-1', got '%s'", result.TaskID)
	}
	if result.ArtifactPath != "/tmp/artifact" {
		t.Errorf("Expected ArtifactPath '/tmp/artifact', got '%s'", result.ArtifactPath)
	}

	expected := "logo.png → logo.jpg · 2.0 KB → 3.0 KB"
	if got := result.Summary(); got != expected {
		t.Errorf("Summary() = '%s', expected '%s'", got, expected)
	}
}
