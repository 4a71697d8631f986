package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/razzie/beepboop"
)

const (
	notFoundBody = "Not found"
	assetMount   = "/_asset"
)

// AssetRoot maps URL paths to files below a directory
type AssetRoot struct {
	Dir    string
	Index  string
	logger *slog.Logger
}

// NewAssetRoot returns an AssetRoot serving dir, with index as the default document
func NewAssetRoot(dir, index string, logger *slog.Logger) *AssetRoot {
	return &AssetRoot{
		Dir:    dir,
		Index:  index,
		logger: logger,
	}
}

// AssetPath returns the root relative file name for a request URL
func (ar *AssetRoot) AssetPath(url string) string {
	url, _, _ = strings.Cut(url, "?")
	rel := strings.TrimPrefix(url, "/")
	if len(rel) == 0 {
		return ar.Index
	}
	return rel
}

// ReadFile reads the file a request URL points to. Paths escaping the root fail.
func (ar *AssetRoot) ReadFile(url string) (string, []byte, error) {
	name := ar.AssetPath(url)
	root, err := os.OpenRoot(ar.Dir)
	if err != nil {
		return name, nil, err
	}
	defer root.Close()

	file, err := root.Open(filepath.FromSlash(name))
	if err != nil {
		return name, nil, err
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return name, nil, err
	}
	if fi.IsDir() {
		return name, nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	data, err := io.ReadAll(file)
	return name, data, err
}

// Page returns the page serving the asset tree. Requests reach it with their
// path moved below assetMount.
func (ar *AssetRoot) Page() *beepboop.Page {
	return &beepboop.Page{
		Path:           assetMount + "/",
		Handler:        ar.handleAsset,
		OnlyLogOnError: true,
	}
}

func (ar *AssetRoot) handleAsset(r *beepboop.PageRequest) *beepboop.View {
	if r.IsAPI {
		return r.ErrorView(notFoundBody, http.StatusNotFound)
	}
	name, data, err := ar.ReadFile("/" + r.RelPath)
	if err != nil {
		ar.logger.Debug("asset not found", "path", name, "err", err)
		return r.HandlerView(writeBody(http.StatusNotFound, []byte(notFoundBody)),
			beepboop.WithHeader("Content-Type", "text/plain; charset=utf-8"),
			beepboop.WithHeader("Cache-Control", "no-cache"))
	}
	return r.HandlerView(writeBody(http.StatusOK, data),
		beepboop.WithHeader("Content-Type", GuessMimeType(name)),
		beepboop.WithHeader("Cache-Control", "no-cache"))
}

func writeBody(status int, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}

// DevServer is the development HTTP server. It binds its address at most once
// per process and is never stopped.
type DevServer struct {
	addr    string
	handler http.Handler
	logger  *slog.Logger
	once    sync.Once
	bound   net.Addr
	err     error
}

// NewDevServer returns a DevServer that will serve handler on addr
func NewDevServer(addr string, handler http.Handler, logger *slog.Logger) *DevServer {
	return &DevServer{
		addr:    addr,
		handler: handler,
		logger:  logger,
	}
}

// Start binds the address and serves in the background. Only the first call
// does anything, every call returns the outcome of that first one.
func (srv *DevServer) Start() (net.Addr, error) {
	srv.once.Do(srv.start)
	return srv.bound, srv.err
}

func (srv *DevServer) start() {
	ln, err := net.Listen("tcp", srv.addr)
	if err != nil {
		srv.err = fmt.Errorf("dev server bind failed: %w", err)
		return
	}
	srv.bound = ln.Addr()
	srv.logger.Info("dev server started", "url", "http://"+ln.Addr().String())

	go func() {
		err := http.Serve(ln, srv.handler)
		srv.logger.Error("dev server stopped", "err", err)
	}()
}
