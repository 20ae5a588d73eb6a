package sheets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"sheetcal/internal/config"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
)

// cacheEntry holds HTTP cache metadata for a single export URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HTTPWorkbook fetches each sheet's CSV export over HTTP with conditional
// requests (ETag / Last-Modified) and a disk-backed body cache.
type HTTPWorkbook struct {
	client   *http.Client
	cacheDir string
	sheets   []config.SheetConfig
}

// NewHTTPWorkbook creates a workbook over the given sheet exports.
//
// cacheDir is the base directory where per-URL cache subdirectories are
// stored. Empty disables the disk cache.
func NewHTTPWorkbook(sheets []config.SheetConfig, cacheDir string) *HTTPWorkbook {
	return &HTTPWorkbook{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
		sheets:   sheets,
	}
}

func (w *HTTPWorkbook) Titles(_ context.Context) ([]string, error) {
	titles := make([]string, 0, len(w.sheets))
	for _, s := range w.sheets {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

func (w *HTTPWorkbook) Values(ctx context.Context, title string) (model.RawGrid, error) {
	for _, s := range w.sheets {
		if s.Title == title {
			body, _, err := w.fetch(ctx, s)
			if err != nil {
				return nil, err
			}
			return ParseCSV(bytes.NewReader(body))
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, title)
}

// fetch downloads one sheet, honoring ETag and Last-Modified. On network
// errors or non-OK statuses it falls back to a cached body when one exists.
// The boolean result reports whether the body came from the cache.
func (w *HTTPWorkbook) fetch(ctx context.Context, s config.SheetConfig) ([]byte, bool, error) {
	if s.URL == "" {
		return nil, false, errors.New("sheet URL is empty")
	}

	var (
		cachePath  string
		meta       cacheEntry
		cachedBody []byte
	)
	if w.cacheDir != "" {
		cachePath = w.cachePathForURL(s.URL)
		if err := os.MkdirAll(cachePath, 0o700); err != nil {
			return nil, false, err
		}
		meta, _ = loadCacheMeta(cachePath)
		cachedBody, _ = os.ReadFile(filepath.Join(cachePath, "body.csv"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, false, err
	}
	if len(cachedBody) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	appLog.Debug("sheet fetch start", "title", s.Title, "url", redactURL(s.URL))

	resp, err := w.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("sheet fetch network error, using cached body", err, "title", s.Title, "url", redactURL(s.URL))
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("fetch sheet %q: %w", s.Title, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, err
		}
		if cachePath != "" {
			newMeta := cacheEntry{
				URL:          s.URL,
				ETag:         resp.Header.Get("ETag"),
				LastModified: resp.Header.Get("Last-Modified"),
			}
			if err := saveCache(cachePath, newMeta, body); err != nil {
				appLog.Error("sheet cache save failed", err, "title", s.Title, "url", redactURL(s.URL))
			}
		}
		appLog.Info("sheet fetch success", "title", s.Title, "bytes", len(body), "from_cache", false)
		return body, false, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, false, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Info("sheet not modified; using cache", "title", s.Title)
		return cachedBody, true, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("sheet fetch non-OK, using cached body", errors.New(resp.Status), "title", s.Title, "status", resp.StatusCode)
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("fetch sheet %q: %s", s.Title, resp.Status)
	}
}

func (w *HTTPWorkbook) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(w.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.csv"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL keeps scheme and host only; export URLs embed document keys.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "sheet://...(redacted)"
	}
	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
