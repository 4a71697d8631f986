package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path"
	"sort"
	"strings"

	generic_sync "github.com/SaveTheRbtz/generic-sync-map-go"
	"github.com/razzie/beepboop"
	"github.com/razzie/video-tool/template"
)

const maxArgsSize = 1 << 20

var (
	ErrNotFound = fmt.Errorf("not found")
)

// Args are the named arguments of a host command
type Args map[string]string

// Command is an operation the GUI layer can invoke on the host
type Command func(ctx context.Context, args Args) (any, error)

// InvokeView is the page data of the manual invoke form
type InvokeView struct {
	Command string
	Output  any
}

// Host owns the application lifecycle: the dev server and the host commands
type Host struct {
	cfg      *Config
	logger   *slog.Logger
	prober   *Prober
	server   *DevServer
	commands generic_sync.MapOf[string, Command]
}

// NewHost creates a Host with the built-in commands registered
func NewHost(cfg *Config, logger *slog.Logger) *Host {
	host := &Host{
		cfg:    cfg,
		logger: logger,
		prober: NewProber(cfg.Binaries.ProbeTool, NewResolver(cfg.Binaries.Dir), logger),
	}
	if err := host.Register("probe_video", host.probeVideo); err != nil {
		panic(err)
	}
	host.server = NewDevServer(cfg.DevServer.Addr, host.Handler(),
		logger.With("root", cfg.DevServer.Root))
	return host
}

// Register adds a named command
func (host *Host) Register(name string, cmd Command) error {
	if len(name) == 0 || strings.Contains(name, "/") {
		return fmt.Errorf("invalid command name: %q", name)
	}
	if _, loaded := host.commands.LoadOrStore(name, cmd); loaded {
		return fmt.Errorf("command already registered: %s", name)
	}
	return nil
}

// Commands returns the names of the registered commands
func (host *Host) Commands() (names []string) {
	host.commands.Range(func(name string, _ Command) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return
}

// Invoke runs the named command synchronously
func (host *Host) Invoke(ctx context.Context, name string, args Args) (any, error) {
	cmd, ok := host.commands.Load(name)
	if !ok {
		return nil, fmt.Errorf("unknown command %q: %w", name, ErrNotFound)
	}
	return cmd(ctx, args)
}

// StartDevServer starts the dev server unless it is already running
func (host *Host) StartDevServer() (net.Addr, error) {
	return host.server.Start()
}

// Prober returns the prober used by the probe_video command
func (host *Host) Prober() *Prober {
	return host.prober
}

func (host *Host) probeVideo(ctx context.Context, args Args) (any, error) {
	result, err := host.prober.Probe(ctx, args["path"])
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Handler returns the HTTP handler of the dev server
func (host *Host) Handler() http.Handler {
	srv := &beepboop.Server{
		Layout:   beepboop.DefaultLayout,
		Header:   http.Header{"Server": {"video-tool"}},
		Logger:   slog.NewLogLogger(host.logger.Handler(), slog.LevelInfo),
		Limiters: make(map[string]*beepboop.RateLimiter),
	}
	srv.AddMiddlewares(
		AuthMiddleware(host.cfg.DevServer.Username, host.cfg.DevServer.Password),
		SameOriginMiddleware)
	srv.AddPages(host.Pages()...)

	// only registered commands take over their bridge paths, every other path is an asset
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := host.bridgeCommand(r.URL.Path); ok {
			srv.ServeHTTP(w, r)
			return
		}
		assetReq := r.Clone(r.Context())
		assetReq.URL.Path = assetMount + path.Clean("/"+r.URL.Path)
		assetReq.URL.RawPath = ""
		srv.ServeHTTP(w, assetReq)
	})
}

// bridgeCommand returns the registered command a bridge path points to
func (host *Host) bridgeCommand(urlPath string) (string, bool) {
	rel, ok := strings.CutPrefix(urlPath, "/api")
	if !ok {
		rel = urlPath
	}
	name, ok := strings.CutPrefix(rel, "/invoke/")
	if !ok {
		return "", false
	}
	_, ok = host.commands.Load(name)
	return name, ok
}

// Pages returns the pages of the dev server
func (host *Host) Pages() []*beepboop.Page {
	assets := NewAssetRoot(host.cfg.DevServer.Root, host.cfg.DevServer.Index, host.logger)
	return []*beepboop.Page{
		assets.Page(),
		{
			Path:            "/invoke/",
			Title:           "Invoke",
			ContentTemplate: template.Invoke,
			Handler:         host.handleInvoke,
		},
	}
}

func (host *Host) handleInvoke(r *beepboop.PageRequest) *beepboop.View {
	name := r.RelPath
	req := r.Request
	if req.Method != http.MethodPost {
		if r.IsAPI {
			return r.ErrorView("Method not allowed", http.StatusMethodNotAllowed,
				beepboop.WithHeader("Allow", http.MethodPost))
		}
		if _, ok := host.commands.Load(name); !ok {
			return handleError(r, fmt.Errorf("unknown command %q: %w", name, ErrNotFound))
		}
		return r.Respond(&InvokeView{Command: name})
	}

	args, err := parseArgs(req)
	if err != nil {
		return r.ErrorView(err.Error(), http.StatusBadRequest)
	}
	result, err := host.Invoke(req.Context(), name, args)
	if err != nil {
		host.logger.Warn("command failed", "command", name, "err", err)
		return handleError(r, err)
	}
	if r.IsAPI {
		return r.Respond(result)
	}
	return r.Respond(&InvokeView{Command: name, Output: result})
}

func parseArgs(req *http.Request) (Args, error) {
	args := make(Args)
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(io.LimitReader(req.Body, maxArgsSize))
		if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return args, nil
	}
	if err := req.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	for key := range req.PostForm {
		args[key] = req.PostForm.Get(key)
	}
	return args, nil
}

func handleError(r *beepboop.PageRequest, err error) *beepboop.View {
	if errors.Is(err, ErrNotFound) {
		return r.ErrorView(err.Error(), http.StatusNotFound)
	}
	return r.ErrorView(err.Error(), http.StatusBadRequest)
}
