package relay

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	playlistContentType = "application/vnd.apple.mpegurl"
	segmentContentType  = "video/mp4"
)

var uriAttr = regexp.MustCompile(`URI=(["'])([^"']+)(["'])`)

// StreamRelay fetches camera media on behalf of the browser. Playlists are
// rewritten so every segment is fetched back through the relay.
type StreamRelay struct {
	logger    *log.Logger
	client    *http.Client
	path      string
	userAgent string
	timeout   time.Duration
	handler   http.Handler
}

// NewStreamRelay serves on path, which is also the prefix rewritten into
// playlists.
func NewStreamRelay(logger *log.Logger, path string, options Options) *StreamRelay {
	transport := options.Transport
	if transport == nil {
		transport = insecureTransport()
	}
	s := &StreamRelay{
		logger:    logger,
		client:    &http.Client{Transport: transport},
		path:      path,
		userAgent: options.UserAgent,
		timeout:   options.GetTimeout,
	}
	s.handler = instrument("stream", http.HandlerFunc(s.serve))
	return s
}

func (s *StreamRelay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *StreamRelay) serve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}
	// only web media urls, never file: or other schemes
	if u, err := url.Parse(target); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid url parameter")
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Stream relay error", "url", target, "err", err)
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	upstreamType := resp.Header.Get("Content-Type")
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Cache-Control", "no-cache")

	if IsPlaylist(target, upstreamType) {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadGateway, err.Error())
			return
		}
		ctype := upstreamType
		if strings.Contains(target, ".m3u8") || ctype == "" {
			ctype = playlistContentType
		}
		h.Set("Content-Type", ctype)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, RewritePlaylist(string(body), target, s.path))
		return
	}

	h.Set("Content-Type", ContentTypeFor(target, upstreamType))
	h.Set("Accept-Ranges", "bytes")
	for _, name := range []string{"Content-Length", "Content-Range"} {
		if v := resp.Header.Get(name); v != "" {
			h.Set(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Debug("Stream copy interrupted", "url", target, "err", err)
	}
}

func IsPlaylist(target, contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "mpegurl") || strings.Contains(target, ".m3u8")
}

// ContentTypeFor guesses the media type of a segment from its url.
func ContentTypeFor(target, fallback string) string {
	u := strings.ToLower(target)
	switch {
	case strings.Contains(u, ".m3u8"):
		return playlistContentType
	case strings.Contains(u, ".m4s"), strings.Contains(u, "segment"):
		return segmentContentType
	case strings.Contains(u, ".mp4"), strings.Contains(u, "init"):
		return segmentContentType
	case fallback != "":
		return fallback
	}
	return segmentContentType
}

// RewritePlaylist points every media and key uri of an HLS playlist back at
// the relay, resolving relative uris against the playlist url.
func RewritePlaylist(body, playlistURL, relayPath string) string {
	base := playlistURL
	if i := strings.LastIndex(playlistURL, "/"); i >= 0 {
		base = playlistURL[:i+1]
	}
	via := func(ref string) string {
		return relayPath + "?url=" + url.QueryEscape(resolve(base, ref))
	}

	var out strings.Builder
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		if !first {
			out.WriteByte('\n')
		}
		first = false

		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out.WriteString(line)
		case strings.HasPrefix(trimmed, "#"):
			out.WriteString(uriAttr.ReplaceAllStringFunc(line, func(m string) string {
				parts := uriAttr.FindStringSubmatch(m)
				return "URI=" + parts[1] + via(parts[2]) + parts[3]
			}))
		default:
			out.WriteString(via(trimmed))
		}
	}
	if strings.HasSuffix(body, "\n") {
		out.WriteByte('\n')
	}
	return out.String()
}

func resolve(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return b.ResolveReference(r).String()
}
