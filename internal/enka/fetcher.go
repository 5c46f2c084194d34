package enka

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"goodsync/internal/providers"
	"goodsync/internal/storage"
	"goodsync/internal/storage/interfaces"
	"goodsync/internal/structures"
)

const maxErrorBody = 256

// Fetcher retrieves the raw profile document of an account.
type Fetcher interface {
	Fetch(ctx context.Context, uid string) ([]byte, error)
}

type HTTPFetcher struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewHTTPFetcher(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) Fetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: conf.Enka.Timeout},
		baseURL:    strings.TrimRight(conf.Enka.BaseUrl, "/"),
		userAgent:  conf.Enka.UserAgent,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *HTTPFetcher) URL(uid string) string {
	return f.baseURL + "/u/" + uid + "/__data.json"
}

func (f *HTTPFetcher) Fetch(ctx context.Context, uid string) ([]byte, error) {
	url := f.URL(uid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.logger.Debugf(providers.TypeSync, "GET %s", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", uid, err)
	}
	defer resp.Body.Close()

	body, err := storage.ReadLimited(resp.Body, storage.MaxDecodedSize)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", uid, err)
	}
	encoding := resp.Header.Get("Content-Encoding")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch profile %s: unexpected status %d: %s", uid, resp.StatusCode, f.errorSnippet(encoding, body))
	}

	body, err = f.decode(encoding, body)
	if err != nil {
		return nil, fmt.Errorf("decode profile %s body: %w", uid, err)
	}

	f.logger.Debugf(providers.TypeSync, "Fetched %d bytes for %s", len(body), uid)
	return body, nil
}

// errorSnippet is the start of an error page, empty when it cannot be decoded.
func (f *HTTPFetcher) errorSnippet(encoding string, body []byte) []byte {
	body, err := f.decode(encoding, body)
	if err != nil {
		return nil
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return bytes.TrimSpace(body)
}

func (f *HTTPFetcher) decode(encoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "zstd":
		return f.compressor.Decompress(body)
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return storage.ReadLimited(r, storage.MaxDecodedSize)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
