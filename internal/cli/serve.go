package cli

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wlrsim/internal/config"
	"github.com/matzehuels/wlrsim/pkg/buildinfo"
	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/observability"
	"github.com/matzehuels/wlrsim/pkg/pipeline"
	"github.com/matzehuels/wlrsim/pkg/render"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

//go:embed static/index.html
var indexSource string

var indexTemplate = template.Must(template.New("index").Parse(indexSource))

// indexData fills the slider page.
type indexData struct {
	Sliders []indexSlider
	Params  model.Params
	Seed    uint64
}

type indexSlider struct {
	model.Slider
	Value   float64
	Enabled bool
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart with browser sliders",
		Long: `Serve the chart with browser sliders.

Routes:
  GET /                       slider page
  GET /chart.{svg,png,pdf,txt} chart for ?h=&alpha=&vc=&hyp=&vaso=&seed=
  GET /healthz                version and counters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.config().Server.Addr
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			counters := &observability.Counters{}
			observability.SetPipelineHooks(counters)
			observability.SetCacheHooks(counters)
			observability.SetServerHooks(counters)
			defer observability.Reset()

			srv := &server{
				runner:   runner,
				defaults: c.config().PipelineOptions(),
				counters: counters,
				logger:   loggerFromContext(ctx),
			}
			return srv.listenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// server adapts HTTP requests to pipeline runs.
type server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	counters *observability.Counters
	logger   *log.Logger
}

// routes builds the router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Get("/chart.{format}", s.handleChart)
	r.Get("/healthz", s.handleHealth)
	return r
}

// listenAndServe runs the server until ctx is cancelled, then drains.
func (s *server) listenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	httpSrv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "url", "http://"+ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := s.defaults.Params
	controls := p.Controls()
	data := indexData{Params: p, Seed: s.defaults.Seed}
	for _, sl := range model.Sliders {
		data.Sliders = append(data.Sliders, indexSlider{
			Slider:  sl,
			Value:   p.Value(sl.Name),
			Enabled: controls.Enabled(sl.Name),
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := chartOptions(s.defaults, format, r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Render-ID", result.RenderID)
	w.Header().Set("X-Cache", cacheStatus)
	w.Write(result.Artifacts[format])
}

type healthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Commit  string                 `json:"commit"`
	Stats   observability.Snapshot `json:"stats"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	resp := healthResponse{
		Status:  "ok",
		Version: info.Version,
		Commit:  info.Commit,
	}
	if s.counters != nil {
		resp.Stats = s.counters.Snapshot()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// fail writes err with the status its code maps to.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("chart request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("rejected chart request", "path", r.URL.Path, "err", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// logRequests logs every request and reports it to the server hooks.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond))
	})
}

// chartOptions applies query parameters to the server defaults. Slider
// values are validated, not snapped.
func chartOptions(defaults pipeline.Options, format string, q url.Values) (pipeline.Options, error) {
	opts := defaults
	opts.Formats = []string{format}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}

	floats := map[string]*float64{
		"h":     &opts.Params.H,
		"alpha": &opts.Params.Alpha,
		"vc":    &opts.Params.VC,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidParams, "%s: not a number: %q", name, v)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"hyp":  &opts.Params.Hypertrophia,
		"vaso": &opts.Params.Vasoconstriction,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidParams, "%s: not a boolean: %q", name, v)
			}
			*dst = b
		}
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParams, "seed: not an unsigned integer: %q", v)
		}
		opts.Seed = seed
	}

	if err := opts.Params.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
