package relay

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type Options struct {
	// stripped from the inbound path before forwarding
	Prefix      string
	GetTimeout  time.Duration
	PostTimeout time.Duration
	UserAgent   string
	// used instead of the default insecure transport, mainly for tests
	Transport http.RoundTripper
}

// Relay forwards /api/* requests to the upstream host, path taken verbatim.
type Relay struct {
	logger  *log.Logger
	options Options
	proxy   *httputil.ReverseProxy
	handler http.Handler
}

func NewRelay(logger *log.Logger, upstream string, options Options) (*Relay, error) {
	upstreamURL, err := url.Parse(upstream)
	if err != nil || upstreamURL.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q", upstream)
	}

	r := &Relay{logger: logger, options: options}

	proxy := httputil.NewSingleHostReverseProxy(upstreamURL)
	origDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, options.Prefix)
		in := req.Header

		origDirector(req)
		req.URL.Path = path
		req.URL.RawPath = ""
		req.Host = upstreamURL.Host

		// only what the vendor api needs is passed on
		req.Header = http.Header{}
		for _, h := range []string{"Authorization", "Range"} {
			if v := in.Get(h); v != "" {
				req.Header.Set(h, v)
			}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
		req.Header.Set("X-Request-Id", uuid.NewString())
		if options.UserAgent != "" {
			req.Header.Set("User-Agent", options.UserAgent)
		}
	}
	proxy.Transport = options.Transport
	if proxy.Transport == nil {
		proxy.Transport = insecureTransport()
	}
	proxy.ModifyResponse = wrapErrorBody
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error("Relay error", "method", req.Method, "path", req.URL.Path, "err", err)
		writeJSONError(rw, http.StatusBadGateway, err.Error())
	}

	r.proxy = proxy
	r.handler = instrument("api", http.HandlerFunc(r.serve))
	return r, nil
}

func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Relay) serve(w http.ResponseWriter, req *http.Request) {
	timeout := r.options.PostTimeout
	if req.Method == http.MethodGet {
		timeout = r.options.GetTimeout
	}
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	r.logger.Debug("Relaying", "method", req.Method, "path", req.URL.Path)
	r.proxy.ServeHTTP(w, req)
}

// wrapErrorBody makes sure an upstream error always reaches the browser as
// JSON, wrapping anything else in {"message": ...}.
func wrapErrorBody(resp *http.Response) error {
	// CORS is ours to set
	for _, h := range []string{"Access-Control-Allow-Origin", "Access-Control-Allow-Methods", "Access-Control-Allow-Headers"} {
		resp.Header.Del(h)
	}
	if resp.Header.Get("Content-Type") == "" {
		resp.Header.Set("Content-Type", "application/json")
	}

	if resp.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	if !json.Valid(bytes.TrimSpace(body)) {
		msg := string(body)
		if strings.TrimSpace(msg) == "" {
			msg = fmt.Sprintf("Error %d", resp.StatusCode)
		}
		body, _ = json.Marshal(map[string]string{"message": msg})
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	resp.Header.Set("Content-Type", "application/json")
	return nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func insecureTransport() *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return tr
}
