package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/logger"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBytes caps a single model download.
const DefaultMaxBytes = 512 << 20

// maxMetadataSize caps metadata and listing responses.
const maxMetadataSize = 4 << 20

// HTTP is a client for the model REST API:
//
//	GET {base}/models/           list
//	GET {base}/models/{id}/      metadata
//	GET {base}/models/{id}/download/
type HTTP struct {
	BaseURL string
	Client  *http.Client

	// MaxBytes caps a download; zero uses DefaultMaxBytes.
	MaxBytes int64
}

// NewHTTP creates an HTTP store. A zero timeout uses DefaultTimeout.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
	}
}

// modelRecord is the API's JSON representation of a model.
type modelRecord struct {
	ID         json.RawMessage `json:"id"`
	Name       string          `json:"name"`
	File       string          `json:"file"`
	FileFormat string          `json:"file_format"`
}

func (r modelRecord) metadata() Metadata {
	return Metadata{ID: recordID(r.ID), Name: r.Name, Format: r.FileFormat}
}

// recordID accepts numeric and string ids. Absent, null and empty ids
// yield "".
func recordID(raw json.RawMessage) ID {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ID(strings.TrimSpace(s))
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return ID(n.String())
	}
	return ""
}

func (h *HTTP) Metadata(ctx context.Context, id ID) (Metadata, error) {
	resp, err := h.get(ctx, h.modelURL(id, ""))
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, id); err != nil {
		return Metadata{}, err
	}

	var rec modelRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataSize)).Decode(&rec); err != nil {
		return Metadata{}, fmt.Errorf("%w: decode metadata: %w", ErrTransfer, err)
	}
	meta := rec.metadata()
	if meta.ID == "" {
		meta.ID = id
	}
	return meta, nil
}

func (h *HTTP) Bytes(ctx context.Context, id ID) ([]byte, error) {
	resp, err := h.get(ctx, h.modelURL(id, "download/"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, id); err != nil {
		return nil, err
	}

	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: model is %d bytes, limit is %d", ErrTransfer, resp.ContentLength, limit)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransfer, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: model exceeds %d bytes", ErrTransfer, limit)
	}
	if resp.ContentLength >= 0 && int64(len(data)) != resp.ContentLength {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTransfer, len(data), resp.ContentLength)
	}

	logger.Debug("model downloaded", zap.String("id", string(id)), zap.Int("bytes", len(data)))
	return data, nil
}

// List returns every model the API knows. Both a bare JSON array and a
// paginated {"results": [...]} envelope are accepted; only the first page
// of a paginated listing is read.
func (h *HTTP) List(ctx context.Context) ([]Metadata, error) {
	resp, err := h.get(ctx, h.BaseURL+"/models/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ""); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read listing: %w", ErrTransfer, err)
	}

	var records []modelRecord
	if err := json.Unmarshal(body, &records); err != nil {
		var page struct {
			Results []modelRecord `json:"results"`
		}
		if perr := json.Unmarshal(body, &page); perr != nil {
			return nil, fmt.Errorf("%w: decode listing: %w", ErrTransfer, err)
		}
		records = page.Results
	}

	list := make([]Metadata, len(records))
	for i, rec := range records {
		list[i] = rec.metadata()
	}
	return list, nil
}

func (h *HTTP) modelURL(id ID, suffix string) string {
	return h.BaseURL + "/models/" + url.PathEscape(string(id)) + "/" + suffix
}

func (h *HTTP) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, id ID) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s", ErrTransfer, resp.Status)
	}
	return nil
}
