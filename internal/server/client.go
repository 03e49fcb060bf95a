// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf2deck/internal/httputil"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Client uploads PDFs to a remote conversion service.
type Client struct {
	BaseURL    string
	Token      string
	HTTP       *http.Client
	MaxRetries int
}

// Convert uploads src and writes the returned deck to out. A busy server
// is retried with backoff. The output is written through a temporary file
// so a failed download leaves nothing at out.
func (c *Client) Convert(ctx context.Context, src, out string) error {
	body, contentType, err := multipartBody(src)
	if err != nil {
		return &types.SourceOpenError{Path: src, Err: err}
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + "/api/convert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, hc, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("posting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".pdf2deck-*.pptx")
	if err != nil {
		return &types.OutputWriteError{Path: out, Err: err}
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &types.OutputWriteError{Path: out, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &types.OutputWriteError{Path: out, Err: err}
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		os.Remove(tmp.Name())
		return &types.OutputWriteError{Path: out, Err: err}
	}
	return nil
}

func multipartBody(src string) ([]byte, string, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(FormField, filepath.Base(src))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
