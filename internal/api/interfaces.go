package api

import (
	"context"
	"io"

	"github.com/ytget/convertudo/internal/catalog"
)

// FormatSource provides the format-compatibility catalog.
type FormatSource interface {
	FetchFormats(ctx context.Context) (*catalog.Catalog, error)
}

// Converter uploads a file and streams back the converted bytes.
type Converter interface {
	Convert(ctx context.Context, req ConvertRequest) (*Download, error)
}

// MediaFetcher asks the service to download remote media by URL.
type MediaFetcher interface {
	MediaInfo(ctx context.Context, mediaURL string) (*MediaInfo, error)
	DownloadMedia(ctx context.Context, req MediaRequest) (*Download, error)
}

// Download is a successful binary response. The caller must close Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	// Filename comes from Content-Disposition when the server sends one.
	Filename string
	// Size is the Content-Length, or -1 when unknown.
	Size int64
}
