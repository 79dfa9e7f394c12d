package doclingserve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/layout"
)

// Config for the docling-serve client.
type Config struct {
	BaseURL string        // e.g. http://localhost:5001
	Timeout time.Duration // http client timeout
}

// Client is a layout.Converter backed by a docling-serve sidecar.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Convert uploads the file and decodes the layout tree. A response
// carrying neither text nor elements counts as a conversion failure.
func (c *Client) Convert(ctx context.Context, path string) (*layout.Document, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("layout.convert.start", "req_id", rid, "path", path)

	body, contentType, err := buildUpload(path)
	if err != nil {
		c.logger.Error("layout.convert.upload_error", "req_id", rid, "error", err)
		return nil, common.NewConversionError("build layout upload", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/convert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, common.NewConversionError("build layout request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("layout.convert.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewConversionError("layout engine unreachable", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("layout.convert.body_close_error", "req_id", rid, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("layout.convert.status_error",
			"req_id", rid, "status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewConversionError(
			fmt.Sprintf("layout engine status %d", resp.StatusCode), nil)
	}

	var doc layout.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.logger.Error("layout.convert.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewConversionError("decode layout response", err)
	}
	if doc.Text == "" && len(doc.Elements) == 0 {
		return nil, common.NewConversionError("layout response carries no text or elements", nil)
	}

	c.logger.Info("layout.convert.ok",
		"req_id", rid,
		"text_len", len(doc.Text),
		"elements", len(doc.Elements),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &doc, nil
}

func buildUpload(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
