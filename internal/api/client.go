package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ytget/convertudo/internal/catalog"
)

// Endpoint paths
const (
	FormatsPath  = "/api/formats"
	ConvertPath  = "/api/convert"
	OutputsPath  = "/api/outputs/"
	InfoPath     = "/api/info"
	DownloadPath = "/api/download"
)

// Form field names
const (
	FieldFile         = "file"
	FieldTargetFormat = "target_format"
	FieldURL          = "url"
	FieldFormat       = "format"
	FieldQuality      = "quality"
)

// Defaults for URL imports
const (
	DefaultMediaFormat  = "mp4"
	DefaultMediaQuality = "best"
)

// ConvertRequest describes one upload.
type ConvertRequest struct {
	FileName     string
	Content      io.Reader
	TargetFormat string
}

// MediaRequest describes one URL import.
type MediaRequest struct {
	URL     string
	Format  string
	Quality string
}

// MediaInfo is the metadata the service reports for a media URL.
type MediaInfo struct {
	Title     string   `json:"title"`
	Duration  *float64 `json:"duration"`
	Uploader  string   `json:"uploader"`
	Thumbnail string   `json:"thumbnail"`
	Extractor string   `json:"extractor"`
	URL       string   `json:"url"`
}

// outputsResponse is the body of the per-extension outputs endpoint.
type outputsResponse struct {
	Extension string   `json:"extension"`
	Outputs   []string `json:"outputs"`
}

// Client talks to one conversion server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient gets a client
// without timeout; uploads of large files must not be cut short.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the server address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchFormats downloads and parses the format catalog.
func (c *Client) FetchFormats(ctx context.Context) (*catalog.Catalog, error) {
	const op = "fetch formats"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+FormatsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, newStatusError(op, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	cat, err := catalog.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: malformed body: %w", op, err)
	}

	log.Printf("Format catalog loaded: %d categories, %d input extensions", len(cat.Categories()), cat.Len())
	return cat, nil
}

// Outputs asks the server which formats ext converts to.
func (c *Client) Outputs(ctx context.Context, ext string) ([]string, error) {
	const op = "fetch outputs"

	endpoint := c.baseURL + OutputsPath + url.PathEscape(strings.ToLower(ext))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var body outputsResponse
	if err := c.doJSON(op, req, &body); err != nil {
		return nil, err
	}
	return body.Outputs, nil
}

// Convert uploads req.Content as a multipart form and returns the converted
// body. The upload is streamed; the file is never held in memory whole.
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (*Download, error) {
	const op = "convert"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeConvertForm(mw, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ConvertPath, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	log.Printf("Uploading %s for conversion to %s", req.FileName, req.TargetFormat)
	return c.doDownload(op, httpReq)
}

func writeConvertForm(mw *multipart.Writer, req ConvertRequest) error {
	part, err := mw.CreateFormFile(FieldFile, req.FileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := mw.WriteField(FieldTargetFormat, req.TargetFormat); err != nil {
		return err
	}
	return mw.Close()
}

// MediaInfo fetches metadata for a media URL without downloading it.
func (c *Client) MediaInfo(ctx context.Context, mediaURL string) (*MediaInfo, error) {
	const op = "media info"

	endpoint := c.baseURL + InfoPath + "?" + url.Values{FieldURL: {mediaURL}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var info MediaInfo
	if err := c.doJSON(op, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DownloadMedia asks the server to fetch req.URL and returns the file.
func (c *Client) DownloadMedia(ctx context.Context, mr MediaRequest) (*Download, error) {
	const op = "download media"

	if mr.Format == "" {
		mr.Format = DefaultMediaFormat
	}
	if mr.Quality == "" {
		mr.Quality = DefaultMediaQuality
	}

	form := url.Values{
		FieldURL:     {mr.URL},
		FieldFormat:  {strings.ToLower(mr.Format)},
		FieldQuality: {strings.ToLower(mr.Quality)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+DownloadPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Printf("Requesting server-side download of %s (%s, %s)", mr.URL, mr.Format, mr.Quality)
	return c.doDownload(op, req)
}

func (c *Client) doDownload(op string, req *http.Request) (*Download, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		serr := newStatusError(op, resp)
		log.Printf("%s failed: %v", op, serr)
		return nil, serr
	}

	return &Download{
		Body:        &transportBody{op: op, rc: resp.Body},
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		Size:        resp.ContentLength,
	}, nil
}

func (c *Client) doJSON(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return newStatusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed body: %w", op, err)
	}
	return nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
