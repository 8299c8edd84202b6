package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
	"github.com/tartampluch/go-growth/internal/metrics"
)

// cacheItem stores a rendered body and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

func newCacheItem(data []byte, contentType string) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
}

// chartKey addresses one published chart.
type chartKey struct {
	childID string
	metric  engine.Metric
}

type chartEntry struct {
	html *cacheItem
	json *cacheItem
}

// GrowthServer serves the check-up calendar, the chart pages and the
// metrics on the loopback interface.
type GrowthServer struct {
	// Readers never lock: both caches are swapped whole.
	calendar atomic.Pointer[cacheItem]
	charts   atomic.Pointer[map[chartKey]chartEntry]

	// chartsMu serialises copy-on-write updates of charts.
	chartsMu sync.Mutex

	Port string
}

// NewGrowthServer creates a new instance of the server.
func NewGrowthServer(port string) *GrowthServer {
	s := &GrowthServer{Port: port}
	empty := map[chartKey]chartEntry{}
	s.charts.Store(&empty)
	return s
}

// Handler returns the router of the server.
func (s *GrowthServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})

	readOnly := func(pattern string, h http.HandlerFunc) {
		r.Get(pattern, h)
		r.Head(pattern, h)
	}
	readOnly(config.RouteCalendar, s.handleCalendarRequest)
	readOnly(config.RouteChartHTML, s.handleChartRequest(false))
	readOnly(config.RouteChartJSON, s.handleChartRequest(true))
	r.Method(http.MethodGet, config.RouteMetrics, metrics.Handler())

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *GrowthServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateCalendar atomically replaces the served calendar.
func (s *GrowthServer) UpdateCalendar(data []byte) {
	item := newCacheItem(data, config.MimeTextCalendar)
	s.calendar.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
}

// PublishCharts renders the datasets of one child and replaces its pages.
func (s *GrowthServer) PublishCharts(childID, title string, datasets map[engine.Metric]engine.ChartDataset) error {
	rendered := make(map[chartKey]chartEntry, len(datasets))
	for m, ds := range datasets {
		page, err := RenderChartHTML(ds, title)
		if err != nil {
			return err
		}
		body, err := RenderChartJSON(ds)
		if err != nil {
			return err
		}
		rendered[chartKey{childID: childID, metric: m}] = chartEntry{
			html: newCacheItem(page, config.MimeTextHTML),
			json: newCacheItem(body, config.MimeJSON),
		}
	}

	s.chartsMu.Lock()
	defer s.chartsMu.Unlock()

	current := *s.charts.Load()
	next := make(map[chartKey]chartEntry, len(current)+len(rendered))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range rendered {
		next[k] = v
	}
	s.charts.Store(&next)

	slog.Debug(config.MsgChartsPublished,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyChild, childID,
		config.LogKeyCount, len(rendered),
	)
	return nil
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *GrowthServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	item := s.calendar.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	serveCached(w, r, item)
}

func (s *GrowthServer) handleChartRequest(asJSON bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := engine.ParseMetric(chi.URLParam(r, config.RouteParamMetric))
		if err != nil {
			http.Error(w, config.HTTPMsgBadMetric, http.StatusBadRequest)
			return
		}

		entry, ok := (*s.charts.Load())[chartKey{childID: chi.URLParam(r, config.RouteParamChild), metric: m}]
		if !ok {
			http.Error(w, config.HTTPMsgNoChart, http.StatusNotFound)
			return
		}

		if asJSON {
			serveCached(w, r, entry.json)
			return
		}
		serveCached(w, r, entry.html)
	}
}

// serveCached writes item with conditional request support.
func serveCached(w http.ResponseWriter, r *http.Request, item *cacheItem) {
	w.Header().Set(config.HeaderContentType, item.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				// Content not newer than the client copy.
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
