// Package testutil provides an in-process stand-in for the conversion service.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// ConvertCall records one request to the convert endpoint.
type ConvertCall struct {
	FileName     string
	TargetFormat string
	Content      []byte
}

// ConvertHandler decides the response to a convert call.
type ConvertHandler func(call ConvertCall) (status int, contentType string, body []byte)

// FakeServer serves the conversion API from canned data.
type FakeServer struct {
	*httptest.Server

	mu            sync.Mutex
	formatsBody   string
	formatsStatus int
	convert       ConvertHandler
	calls         []ConvertCall
	formatsHits   int
	truncateAt    int

	// Media import responses
	MediaTitle    string
	MediaFileName string
	MediaContent  []byte
}

// NewFakeServer starts a server answering the formats endpoint with
// formatsJSON and echoing uploads back by default. It is closed with t.
func NewFakeServer(t testing.TB, formatsJSON string) *FakeServer {
	t.Helper()

	fs := &FakeServer{
		formatsBody:   formatsJSON,
		formatsStatus: http.StatusOK,
		convert: func(call ConvertCall) (int, string, []byte) {
			return http.StatusOK, "application/octet-stream", call.Content
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/api/formats", fs.handleFormats)
	e.GET("/api/outputs/:ext", fs.handleOutputs)
	e.POST("/api/convert", fs.handleConvert)
	e.GET("/api/info", fs.handleInfo)
	e.POST("/api/download", fs.handleDownload)

	fs.Server = httptest.NewServer(e)
	t.Cleanup(fs.Close)
	return fs
}

// SetFormats replaces the formats response.
func (fs *FakeServer) SetFormats(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.formatsStatus = status
	fs.formatsBody = body
}

// SetConvertHandler replaces the convert behaviour.
func (fs *FakeServer) SetConvertHandler(h ConvertHandler) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.convert = h
}

// SetConvertTruncated makes the convert endpoint announce the full body,
// send only its first n bytes and drop the connection.
func (fs *FakeServer) SetConvertTruncated(n int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.truncateAt = n
}

// ConvertCalls returns the recorded convert requests.
func (fs *FakeServer) ConvertCalls() []ConvertCall {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]ConvertCall(nil), fs.calls...)
}

// FormatsHits returns how many times the catalog was requested.
func (fs *FakeServer) FormatsHits() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.formatsHits
}

func (fs *FakeServer) handleFormats(c echo.Context) error {
	fs.mu.Lock()
	fs.formatsHits++
	status, body := fs.formatsStatus, fs.formatsBody
	fs.mu.Unlock()

	return c.Blob(status, echo.MIMEApplicationJSON, []byte(body))
}

func (fs *FakeServer) handleOutputs(c echo.Context) error {
	ext := strings.ToLower(c.Param("ext"))
	if ext == "png" {
		return c.JSON(http.StatusOK, map[string]any{"extension": ext, "outputs": []string{"jpg", "webp"}})
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": fmt.Sprintf("Formato '%s' não suportado", ext)})
}

func (fs *FakeServer) handleConvert(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required", "loc": "file"}},
		})
	}
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	call := ConvertCall{
		FileName:     header.Filename,
		TargetFormat: c.FormValue("target_format"),
		Content:      content,
	}

	fs.mu.Lock()
	fs.calls = append(fs.calls, call)
	handler := fs.convert
	truncateAt := fs.truncateAt
	fs.mu.Unlock()

	status, contentType, body := handler(call)
	if truncateAt > 0 && truncateAt < len(body) {
		return truncate(c, status, contentType, body, truncateAt)
	}
	return c.Blob(status, contentType, body)
}

func truncate(c echo.Context, status int, contentType string, body []byte, n int) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, contentType)
	resp.Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
	resp.WriteHeader(status)
	if _, err := resp.Write(body[:n]); err != nil {
		return err
	}
	resp.Flush()

	conn, _, err := resp.Hijack()
	if err != nil {
		return err
	}
	return conn.Close()
}

func (fs *FakeServer) handleInfo(c echo.Context) error {
	mediaURL := c.QueryParam("url")
	if !strings.HasPrefix(mediaURL, "http") {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "URL inválida"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"title":     fs.MediaTitle,
		"duration":  42.0,
		"uploader":  "tester",
		"thumbnail": "",
		"extractor": "Generic",
		"url":       mediaURL,
	})
}

func (fs *FakeServer) handleDownload(c echo.Context) error {
	mediaURL := c.FormValue("url")
	if !strings.HasPrefix(mediaURL, "http://") && !strings.HasPrefix(mediaURL, "https://") {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "URL inválida"})
	}
	name := fs.MediaFileName
	if name == "" {
		name = "media." + c.FormValue("format")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Blob(http.StatusOK, "video/mp4", fs.MediaContent)
}
