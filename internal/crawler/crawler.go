
package crawler

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent identifies the solver to the encyclopedia servers.
const DefaultUserAgent = "WikiRaceSolver/1.2 (educational; contact: your_email@example.com)"

// FetchError reports a transport failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Response is a fully read page.
type Response struct {
	Body        []byte
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64, userAgent string) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// Get issues one GET and reads the whole body. Every failure is a *FetchError.
func (h *HTTPClient) Get(ctx context.Context, rawURL string) (Response, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Response{}, &FetchError{URL: rawURL, Err: fmt.Errorf("invalid url")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return Response{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return Response{}, &FetchError{URL: rawURL, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gz.Close()
		body = gz
	}

	// read one byte past the cap so oversized pages are detected
	data, err := io.ReadAll(io.LimitReader(body, h.sizeCap+1))
	if err != nil {
		return Response{}, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > h.sizeCap {
		return Response{}, &FetchError{URL: rawURL, Err: fmt.Errorf("body exceeds %d bytes", h.sizeCap)}
	}

	return Response{
		Body:        data,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     time.Since(start),
	}, nil
}
