package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/model"
	"github.com/ytget/convertudo/internal/platform"
)

// Scratch file naming
const (
	TaskIDPrefix      = "convert-"
	ScratchDirPattern = "convertudo-*"
	ArtifactPattern   = "result-*"
	ImportDirPattern  = "import-*"
	FallbackMediaName = "download"
)

// ImportRequest describes a server-side URL download.
type ImportRequest struct {
	URL     string
	Format  string
	Quality string
}

// Service handles conversion operations
type Service struct {
	converter  api.Converter
	media      api.MediaFetcher
	scratchDir string
	ownScratch bool

	tasks      map[string]*model.ConversionTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.ConversionTask) // callback for UI updates
}

// NewService creates a conversion service writing artifacts below
// scratchDir. An empty scratchDir gets a private temp directory that Close
// removes. media may be nil when URL imports are not wanted.
func NewService(converter api.Converter, media api.MediaFetcher, scratchDir string) (*Service, error) {
	s := &Service{
		converter: converter,
		media:     media,
		tasks:     make(map[string]*model.ConversionTask),
	}

	if scratchDir == "" {
		dir, err := os.MkdirTemp("", ScratchDirPattern)
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		s.scratchDir = dir
		s.ownScratch = true
	} else {
		if err := platform.CreateDirectoryIfNotExists(scratchDir); err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		s.scratchDir = scratchDir
	}

	return s, nil
}

// ScratchDir returns where artifacts are written
func (s *Service) ScratchDir() string {
	return s.scratchDir
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.ConversionTask)) {
	s.onUpdate = callback
}

// Convert uploads file, waits for the converted body and stores it in a new
// artifact. The returned task is non-nil whenever a task was created, also on
// error, so callers can report its status.
func (s *Service) Convert(ctx context.Context, file *model.SelectedFile, target string) (*model.ConversionTask, error) {
	if file == nil {
		return nil, errors.New("no file selected")
	}
	target = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(target), "."))
	if target == "" {
		return nil, errors.New("no target format selected")
	}

	task := &model.ConversionTask{
		ID:           generateTaskID(),
		InputName:    file.Name,
		InputSize:    file.Size,
		TargetFormat: target,
		Status:       model.TaskStatusPending,
		StartedAt:    time.Now(),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	src, err := file.Open()
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", file.Name, err)
		s.setTaskError(task, err)
		return task, err
	}
	defer src.Close()

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusConverting
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	dl, err := s.converter.Convert(ctx, api.ConvertRequest{
		FileName:     file.Name,
		Content:      src,
		TargetFormat: target,
	})
	if err != nil {
		log.Printf("Conversion failed for task %s (%s -> %s): %v", task.ID, file.Name, target, err)
		s.setTaskError(task, err)
		return task, err
	}
	defer dl.Body.Close()

	path, size, err := s.writeFile(s.scratchDir, ArtifactPattern, dl.Body)
	if err != nil {
		s.setTaskError(task, err)
		return task, err
	}

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusCompleted
	task.OutputName = file.OutputName(target)
	task.OutputPath = path
	task.OutputSize = size
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	log.Printf("Task %s completed: %s (%s) in %s", task.ID, task.GetDisplayTitle(),
		model.HumanizeBytes(size), task.GetElapsedString())
	s.notifyUpdate(task)

	return task, nil
}

// MediaInfo looks up metadata of a remote media URL
func (s *Service) MediaInfo(ctx context.Context, mediaURL string) (*api.MediaInfo, error) {
	if s.media == nil {
		return nil, errors.New("URL import is not available")
	}
	return s.media.MediaInfo(ctx, mediaURL)
}

// ImportURL has the server download req.URL and stores the file in the
// scratch directory under the name the server reported.
func (s *Service) ImportURL(ctx context.Context, req ImportRequest) (*model.SelectedFile, error) {
	if s.media == nil {
		return nil, errors.New("URL import is not available")
	}

	dl, err := s.media.DownloadMedia(ctx, api.MediaRequest{URL: req.URL, Format: req.Format, Quality: req.Quality})
	if err != nil {
		return nil, err
	}
	defer dl.Body.Close()

	dir, err := os.MkdirTemp(s.scratchDir, ImportDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create import directory: %w", err)
	}

	name := importName(dl.Filename, req.Format)
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	size, err := io.Copy(out, dl.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}

	log.Printf("Imported %s from %s (%s)", name, req.URL, model.HumanizeBytes(size))
	return model.NewSelectedFileFromPath(path)
}

// GetTask returns a conversion task by ID
func (s *Service) GetTask(id string) (*model.ConversionTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// Release removes the artifact of a completed task. Releasing twice is a no-op.
func (s *Service) Release(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}
	if task.Status != model.TaskStatusCompleted {
		s.tasksMutex.Unlock()
		return nil
	}

	path := task.OutputPath
	task.Status = model.TaskStatusReleased
	task.OutputPath = ""
	s.tasksMutex.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release artifact of %s: %w", id, err)
	}

	log.Printf("Released artifact of task %s", id)
	s.notifyUpdate(task)
	return nil
}

// Close releases every held artifact and drops the private scratch directory.
func (s *Service) Close() error {
	s.tasksMutex.RLock()
	ids := make([]string, 0, len(s.tasks))
	for id, task := range s.tasks {
		if task.Status == model.TaskStatusCompleted {
			ids = append(ids, id)
		}
	}
	s.tasksMutex.RUnlock()

	var errs []error
	for _, id := range ids {
		if err := s.Release(id); err != nil {
			errs = append(errs, err)
		}
	}

	if s.ownScratch {
		if err := os.RemoveAll(s.scratchDir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove scratch directory: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) writeFile(dir, pattern string, r io.Reader) (string, int64, error) {
	out, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create artifact: %w", err)
	}

	size, err := io.Copy(out, r)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", 0, fmt.Errorf("failed to store converted file: %w", err)
	}
	return out.Name(), size, nil
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.ConversionTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.ConversionTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// importName keeps only the base of a server supplied name.
func importName(reported, format string) string {
	name := filepath.Base(strings.ReplaceAll(reported, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		if format == "" {
			format = api.DefaultMediaFormat
		}
		return FallbackMediaName + "." + strings.ToLower(format)
	}
	return name
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
