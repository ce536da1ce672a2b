package devserver

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptsBrotli reports whether the request lists br in Accept-Encoding.
func acceptsBrotli(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(name), "br") && !strings.Contains(strings.ReplaceAll(params, " ", ""), "q=0") {
			return true
		}
	}
	return false
}

// brotliResponseWriter compresses successful response bodies.
type brotliResponseWriter struct {
	http.ResponseWriter
	writer      io.WriteCloser
	wroteHeader bool
	compress    bool
}

func (w *brotliResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.Header()
	h.Add("Vary", "Accept-Encoding")
	if status == http.StatusOK && h.Get("Content-Encoding") == "" {
		w.compress = true
		h.Set("Content-Encoding", "br")
		h.Del("Content-Length")
		h.Del("Accept-Ranges")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(p)
	}
	if w.writer == nil {
		w.writer = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	}
	return w.writer.Write(p)
}

func (w *brotliResponseWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// compressMiddleware brotli-compresses responses for clients that accept it.
func compressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsBrotli(r) || r.Header.Get("Range") != "" {
			next.ServeHTTP(w, r)
			return
		}

		bw := &brotliResponseWriter{ResponseWriter: w}
		defer func() { _ = bw.Close() }()
		next.ServeHTTP(bw, r)
	})
}
