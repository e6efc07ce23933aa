package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/doc-matcher/internal/logger"
)

const (
	contentType     = "application/json"
	formContentType = "application/x-www-form-urlencoded"
	requestIDHeader = "X-Request-ID"
)

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return c.do(req, target)
}

// getItems fetches a JSON array and decodes it into target using the given
// struct tag, so types can opt into mapstructure-only features such as
// ",remain".
func (c *Client) getItems(ctx context.Context, url string, target any, tagName string) error {
	var items []map[string]any
	if err := c.getJSON(ctx, url, nil, &items); err != nil {
		return err
	}

	return decodeItems(items, target, tagName)
}

func decodeItems(items any, target any, tagName string) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}

	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, url string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) postForm(ctx context.Context, url string, form url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", formContentType)

	return c.do(req, target)
}

// postFiles uploads the given files as a multipart form, one part per file under field.
func (c *Client) postFiles(ctx context.Context, url, field string, paths []string, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	for _, path := range paths {
		if err := writeFilePart(w, field, path); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &b)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, target)
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func (c *Client) do(req *http.Request, target any) error {
	requestID := uuid.NewString()
	req = c.setHeaders(req, requestID)

	log := logger.WithFields(c.logger, logger.RequestFields(req.Method, req.URL.String(), requestID)...)
	log.Debug("api request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("api request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	preview := logger.TruncateForLog(string(data), c.MaxLogLength)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := newAPIError(req, resp, data)
		log.Warn("api response error",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail),
			zap.String("body", preview),
		)
		return apiErr
	}

	log.Debug("api response", zap.Int("status", resp.StatusCode), zap.String("body", preview))

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decodeResponse(data, target); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}

// decodeResponse decodes a JSON body into target by its json tags. The
// backend is not strict about numeric and string ids, so values go through
// a weakly typed decoder instead of straight into encoding/json.
func decodeResponse(data []byte, target any) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	return decodeItems(raw, target, "json")
}

func (c *Client) setHeaders(req *http.Request, requestID string) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set(requestIDHeader, requestID)

	return req
}
