// Package devserver serves the destination tree with live reload over WebSockets.
package devserver

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// LiveReloadPath is the WebSocket endpoint browsers connect to.
	LiveReloadPath = "/__kiln/livereload"
	// ClientPath serves the live-reload client script.
	ClientPath = "/__kiln/client.js"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

//go:embed client.js
var clientScript []byte

var clientTag = []byte(`<script src="` + ClientPath + `" async></script>`)

var _ ports.DevServer = (*Server)(nil)

// Server is a static file server that pushes reload signals to connected pages.
type Server struct {
	hub      *hub
	logger   ports.Logger
	upgrader websocket.Upgrader
}

// New creates a Server.
func New(log ports.Logger) *Server {
	return &Server{
		hub:    newHub(),
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Reload asks every connected page to reload.
func (s *Server) Reload() {
	s.hub.broadcast(Message{Type: MessageReload})
}

// Inject asks every connected page to refresh the stylesheets at paths, which are
// relative to the served root.
func (s *Server) Inject(paths ...string) {
	if len(paths) == 0 {
		return
	}
	s.hub.broadcast(Message{Type: MessageInject, Paths: paths})
}

// Handler returns the router serving root.
func (s *Server) Handler(root string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(LiveReloadPath, s.liveReload).Methods(http.MethodGet)
	r.Handle(ClientPath, compressMiddleware(http.HandlerFunc(serveClient))).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/").Handler(compressMiddleware(static(root))).Methods(http.MethodGet, http.MethodHead)
	return r
}

// Serve listens on addr and serves root until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr, root string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
	}

	srv := &http.Server{
		Handler:           s.Handler(root),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info("serving " + root + " at http://" + ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		s.hub.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "development server failed"), "addr", addr)
	case <-ctx.Done():
	}

	s.hub.closeAll()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "failed to stop development server")
	}
	return nil
}

func (s *Server) liveReload(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		return
	}

	c := s.hub.register(conn)
	go c.writeLoop()
	c.readLoop()
	s.hub.unregister(c)
}

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientScript)
}

// static serves files below root and injects the client script into HTML pages.
func static(root string) http.Handler {
	files := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		full := filepath.Join(root, filepath.FromSlash(name))

		if info, err := os.Stat(full); err == nil && info.IsDir() {
			if !strings.HasSuffix(r.URL.Path, "/") {
				files.ServeHTTP(w, r)
				return
			}
			full = filepath.Join(full, "index.html")
		}

		if !strings.EqualFold(filepath.Ext(full), ".html") {
			w.Header().Set("Cache-Control", "no-cache")
			files.ServeHTTP(w, r)
			return
		}

		page, err := os.ReadFile(full)
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(InjectClient(page))
	})
}

// InjectClient inserts the live-reload script tag before the last closing body tag of
// page, or appends it when there is none.
func InjectClient(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append(bytes.Clone(page), clientTag...), '\n')
	}

	out := make([]byte, 0, len(page)+len(clientTag))
	out = append(out, page[:idx]...)
	out = append(out, clientTag...)
	return append(out, page[idx:]...)
}
