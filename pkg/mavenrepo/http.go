package mavenrepo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/fossrepo/pkg/buildinfo"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/httputil"
	"github.com/matzehuels/fossrepo/pkg/observability"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

const httpTimeout = 10 * time.Second

// HTTPTransport serves "http:" and "https:" repository roots. Requests
// honour the session's proxy and authentication selectors and transient
// failures (connection errors, 5xx) are retried with backoff.
type HTTPTransport struct {
	http    *http.Client
	retry   httputil.Policy
	headers map[string]string
}

// NewHTTPTransport creates a transport with default headers applied to
// every request. Pass nil for headers if none are needed.
func NewHTTPTransport(headers map[string]string) *HTTPTransport {
	h := map[string]string{"User-Agent": "fossrepo/" + buildinfo.Version}
	for k, v := range headers {
		h[k] = v
	}
	return &HTTPTransport{
		http:    &http.Client{Timeout: httpTimeout},
		retry:   httputil.DefaultPolicy,
		headers: h,
	}
}

// Fetch downloads rel.
func (t *HTTPTransport) Fetch(ctx context.Context, s *repository.Session, repo repository.Repository, rel string) ([]byte, error) {
	var data []byte
	err := t.retry.Do(ctx, func() error {
		body, err := t.do(ctx, s, repo, http.MethodGet, rel)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rel))
		}
		return nil
	})
	return data, err
}

// Locate checks that rel exists with a HEAD request and returns its URL.
func (t *HTTPTransport) Locate(ctx context.Context, s *repository.Session, repo repository.Repository, rel string) (string, error) {
	err := t.retry.Do(ctx, func() error {
		body, err := t.do(ctx, s, repo, http.MethodHead, rel)
		if err != nil {
			return err
		}
		return body.Close()
	})
	if err != nil {
		return "", err
	}
	return joinURL(repo.URL, rel), nil
}

func (t *HTTPTransport) do(ctx context.Context, s *repository.Session, repo repository.Repository, method, rel string) (io.ReadCloser, error) {
	u := joinURL(repo.URL, rel)
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	if auth, ok := s.AuthenticationSelector.Authentication(repo); ok {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := t.client(s, repo).Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, u))
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, u); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// client returns the shared client, or a copy routed through the proxy
// the session selects for repo.
func (t *HTTPTransport) client(s *repository.Session, repo repository.Repository) *http.Client {
	proxy := s.ProxySelector.Proxy(repo)
	if proxy == nil {
		return t.http
	}
	base, ok := t.http.Transport.(*http.Transport)
	if !ok || base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	tr := base.Clone()
	tr.Proxy = http.ProxyURL(proxy)
	c := *t.http
	c.Transport = tr
	return &c
}

func checkStatus(code int, u string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", u)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", u, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", u, code)
	}
}

func joinURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + escapePath(rel)
}

func escapePath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
