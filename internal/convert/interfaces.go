package convert

import (
	"context"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/model"
)

// Runner defines the interface for the conversion service.
type Runner interface {
	SetUpdateCallback(func(*model.ConversionTask))
	Convert(ctx context.Context, file *model.SelectedFile, target string) (*model.ConversionTask, error)
	MediaInfo(ctx context.Context, mediaURL string) (*api.MediaInfo, error)
	ImportURL(ctx context.Context, req ImportRequest) (*model.SelectedFile, error)
	GetTask(id string) (*model.ConversionTask, bool)
	Release(id string) error
	Close() error
}
