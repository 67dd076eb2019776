package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/export"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/birthdaydesk/birthdaydesk/internal/views"
	"github.com/gin-gonic/gin"
)

// feedItem stores the rendered calendar feed and its HTTP caching metadata.
type feedItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as required by HTTP date headers
}

// Config carries the server's collaborators. Summary is the localized
// iCalendar summary renderer; Notify renders the dashboard banner for a
// birthday count. Either may be nil.
type Config struct {
	Port    string
	Clock   engine.Clock
	LeapDay engine.LeapDayPolicy
	Summary func(name string, age int, yearKnown bool) string
	Notify  func(count int) string
	Logger  *slog.Logger
}

// Server exposes the celebration API and the iCalendar feed on localhost.
// The roster is swappable at runtime; until the first SetRoster call every
// data endpoint answers 503 so clients know to retry.
type Server struct {
	cfg Config
	log *slog.Logger

	mu      sync.RWMutex
	records []roster.StaffRecord
	ready   bool

	// feed uses atomic.Pointer for lock-free reads: the feed is fetched
	// often by calendar clients and rebuilt rarely.
	feed atomic.Pointer[feedItem]
}

// New builds a server around the given collaborators.
func New(cfg Config) *Server {
	if cfg.Clock == nil {
		cfg.Clock = engine.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		cfg: cfg,
		log: cfg.Logger.With(slog.String(config.LogKeyComponent, config.CompServer)),
	}
}

// SetRoster replaces the served record set and rebuilds the calendar feed.
func (s *Server) SetRoster(records []roster.StaffRecord) error {
	s.mu.Lock()
	s.records = append([]roster.StaffRecord(nil), records...)
	s.ready = true
	s.mu.Unlock()
	return s.rebuildFeed()
}

func (s *Server) snapshot() ([]roster.StaffRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.ready
}

func (s *Server) rebuildFeed() error {
	records, _ := s.snapshot()
	builder := &engine.FeedBuilder{
		Clock:         s.cfg.Clock,
		LeapDay:       s.cfg.LeapDay,
		FormatSummary: s.cfg.Summary,
	}
	data, _, err := builder.Build(records)
	if err != nil {
		return err
	}

	hash := sha256.Sum256(data)
	item := &feedItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: s.cfg.Clock.Now().UTC().Format(http.TimeFormat),
	}
	s.feed.Store(item)

	s.log.Debug(config.MsgFeedUpdated,
		slog.Int(config.LogKeySizeBytes, len(data)),
		slog.String(config.LogKeyETag, item.etag))
	return nil
}

// Router assembles the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(config.RouteHealth, s.handleHealth)
	r.GET(config.RouteFeed, s.handleFeed)
	r.HEAD(config.RouteFeed, s.handleFeed)
	r.GET(config.RouteDashboard, s.handleDashboard)
	r.GET(config.RouteUpcoming, s.handleUpcoming)
	r.GET(config.RouteCalendarDay, s.handleCalendarDay)
	r.GET(config.RouteCalendarWeek, s.handleCalendarWeek)
	r.GET(config.RouteCalendarMonth, s.handleCalendarMonth)
	r.GET(config.RouteCalendarYear, s.handleCalendarYear)
	r.GET(config.RouteStaff, s.handleStaff)
	r.GET(config.RouteToday, s.handleToday)
	r.GET(config.RouteExportJSON, s.handleExportJSON)
	r.GET(config.RouteExportXLSX, s.handleExportXLSX)
	r.PATCH(config.RouteCakeStatus, s.handleCakeStatus)

	return r
}

// Start runs the HTTP server on localhost and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Port == "" {
		return errors.New(config.ErrPortRequired)
	}
	if n, err := strconv.Atoi(s.cfg.Port); err != nil || n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %q", config.ErrPortInvalid, s.cfg.Port)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.cfg.Port,
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		s.log.Info(config.MsgServerListen, slog.String(config.LogKeyPort, s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info(config.MsgServerStop)
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

// -----------------------------------------------------------------------------
// Request helpers
// -----------------------------------------------------------------------------

// requireRoster answers the 503 readiness gate and hands back a snapshot.
func (s *Server) requireRoster(c *gin.Context) ([]roster.StaffRecord, bool) {
	records, ready := s.snapshot()
	if !ready {
		c.Header(config.HeaderRetryAfter, config.RetryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{config.JSONKeyError: config.HTTPMsgLoading})
		return nil, false
	}
	return records, true
}

// referenceDate parses the ?date= query parameter, defaulting to the clock's
// now. An unparseable value is a client error, not a silent fallback.
func (s *Server) referenceDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query(config.QueryDate)
	if raw == "" {
		return s.cfg.Clock.Now(), true
	}
	t, err := time.ParseInLocation(config.DateFormatFullDash, raw, s.cfg.Clock.Now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: fmt.Sprintf("%s: %q", config.ErrDateParse, raw)})
		return time.Time{}, false
	}
	return t, true
}

func filterFromQuery(c *gin.Context, fields []views.SearchField) views.FilterOptions {
	return views.FilterOptions{
		Department:   c.Query(config.QueryDepartment),
		Type:         c.Query(config.QueryType),
		Status:       c.Query(config.QueryStatus),
		Search:       c.Query(config.QuerySearch),
		SearchFields: fields,
		SortBy:       c.Query(config.QuerySort),
	}
}

// filteredEvents computes the reference-date event list and applies the
// request's filters. It writes the error response itself on failure.
func (s *Server) filteredEvents(c *gin.Context, records []roster.StaffRecord, ref time.Time, fields []views.SearchField) ([]engine.CelebrationEvent, bool) {
	events, err := engine.EventsForReference(records, ref, s.cfg.LeapDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return nil, false
	}
	filtered, err := views.Filter(events, filterFromQuery(c, fields))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return nil, false
	}
	return filtered, true
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.JSONKeyStatus: config.JSONValueOK})
}

// handleFeed serves the cached ICS bytes with ETag and Last-Modified
// conditional handling so calendar clients can poll cheaply.
func (s *Server) handleFeed(c *gin.Context) {
	item := s.feed.Load()
	if item == nil {
		c.Header(config.HeaderRetryAfter, config.RetryAfterSeconds)
		c.String(http.StatusServiceUnavailable, config.HTTPMsgLoading)
		return
	}

	c.Header(config.HeaderContentType, config.MimeTextCalendar)
	c.Header(config.HeaderXContentType, config.MimeNoSniff)
	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.Header(config.HeaderETag, item.etag)
	c.Header(config.HeaderLastModified, item.lastModified)

	if match := c.GetHeader(config.HeaderIfNoneMatch); match == item.etag {
		c.Status(http.StatusNotModified)
		return
	}
	if since := c.GetHeader(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil && !serverTime.After(clientTime) {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.Data(http.StatusOK, config.MimeTextCalendar, item.data)
}

func (s *Server) handleDashboard(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	dashboard, err := views.BuildDashboard(records, ref, s.cfg.LeapDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}

	message := views.NotificationMessage(dashboard.Stats.ThisMonth)
	if s.cfg.Notify != nil {
		message = s.cfg.Notify(dashboard.Stats.ThisMonth)
	}
	c.JSON(http.StatusOK, gin.H{
		"dashboard":           dashboard,
		config.JSONKeyMessage: message,
	})
}

// handleCalendarDay buckets the reference date's celebrations into 24 hour
// slots.
func (s *Server) handleCalendarDay(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}
	events, ok := s.filteredEvents(c, records, ref, views.CalendarSearchFields)
	if !ok {
		return
	}

	dayEvents := make([]engine.CelebrationEvent, 0, len(events))
	for _, ev := range events {
		if ev.Date.Month() == ref.Month() && ev.Date.Day() == ref.Day() {
			dayEvents = append(dayEvents, ev)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		config.QueryDate: ref.Format(config.DateFormatFullDash),
		"hours":          views.HourBuckets(dayEvents),
	})
}

func (s *Server) handleCalendarWeek(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}
	events, ok := s.filteredEvents(c, records, ref, views.CalendarSearchFields)
	if !ok {
		return
	}

	buckets, err := views.WeekBuckets(events, ref)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		config.QueryDate: ref.Format(config.DateFormatFullDash),
		"days":           buckets,
	})
}

func (s *Server) handleCalendarMonth(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}
	events, ok := s.filteredEvents(c, records, ref, views.CalendarSearchFields)
	if !ok {
		return
	}

	grid, err := views.MonthGrid(events, ref.Year(), ref.Month())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":  ref.Year(),
		"month": int(ref.Month()),
		"cells": grid,
	})
}

// handleCalendarYear aggregates the reference year's celebrations into
// per-month status counts.
func (s *Server) handleCalendarYear(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	events := engine.EventsForYear(records, ref.Year(), s.cfg.LeapDay)
	filtered, err := views.Filter(events, filterFromQuery(c, views.CalendarSearchFields))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":   ref.Year(),
		"months": views.YearStats(filtered),
	})
}

// handleStaff is the searchable identity directory. Records without a birth
// date stay in the listing with empty occurrence fields; only date views
// exclude them. Search matches names only; the calendar surfaces opt into
// wider matching.
func (s *Server) handleStaff(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	entries, err := views.BuildDirectory(records, ref, s.cfg.LeapDay, filterFromQuery(c, nil))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		config.LogKeyCount: len(entries),
		"staff":            entries,
	})
}

// handleUpcoming serves the next celebrations inside an adjustable window.
func (s *Server) handleUpcoming(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	window := config.DefaultUpcomingWindow
	if raw := c.Query(config.QueryWindow); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: fmt.Sprintf("%s: %q", config.ErrWindowInvalid, raw)})
			return
		}
		window = n
	}
	limit := config.DefaultUpcomingLimit
	if raw := c.Query(config.QueryLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: fmt.Sprintf("%s: %q", config.ErrLimitInvalid, raw)})
			return
		}
		limit = n
	}

	events, err := engine.EventsForReference(records, ref, s.cfg.LeapDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	upcoming := views.Upcoming(events, window, limit)
	c.JSON(http.StatusOK, gin.H{
		config.QueryDate:   ref.Format(config.DateFormatFullDash),
		config.LogKeyCount: len(upcoming),
		"celebrations":     upcoming,
	})
}

func (s *Server) handleToday(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	events, err := engine.EventsForReference(records, ref, s.cfg.LeapDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}
	today := make([]engine.CelebrationEvent, 0)
	for _, ev := range events {
		if ev.DaysUntil == 0 {
			today = append(today, ev)
		}
	}

	var message string
	if s.cfg.Notify != nil {
		message = s.cfg.Notify(len(today))
	}
	c.JSON(http.StatusOK, gin.H{
		config.QueryDate:      ref.Format(config.DateFormatFullDash),
		config.LogKeyCount:    len(today),
		"celebrations":        today,
		config.JSONKeyMessage: message,
	})
}

// handleExportJSON streams the filtered event list as a download artifact.
func (s *Server) handleExportJSON(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}
	events, ok := s.filteredEvents(c, records, ref, nil)
	if !ok {
		return
	}

	data, err := export.EventsJSON(events)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{config.JSONKeyError: config.HTTPMsgInternalErr})
		return
	}
	c.Header(config.HeaderContentDisposition, fmt.Sprintf(config.FormatAttachment, export.JSONFilename(ref)))
	c.Data(http.StatusOK, config.MimeJSON, data)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	records, ok := s.requireRoster(c)
	if !ok {
		return
	}
	ref, ok := s.referenceDate(c)
	if !ok {
		return
	}

	data, err := export.StaffXLSX(records)
	if err != nil {
		s.log.Error(config.ErrWorkbookBuild, slog.String(config.LogKeyError, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{config.JSONKeyError: config.HTTPMsgInternalErr})
		return
	}
	c.Header(config.HeaderContentDisposition, fmt.Sprintf(config.FormatAttachment, export.XLSXFilename(ref)))
	c.Data(http.StatusOK, config.MimeXLSX, data)
}

// cakeStatusRequest is the PATCH body: an explicit target status, or advance
// to step through the cycle when no status is given.
type cakeStatusRequest struct {
	Status  string `json:"status"`
	Advance bool   `json:"advance"`
}

func (s *Server) handleCakeStatus(c *gin.Context) {
	if _, ok := s.requireRoster(c); !ok {
		return
	}
	id := c.Param(config.ParamID)

	var req cakeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: err.Error()})
		return
	}

	var target roster.CakeStatus
	if req.Status != "" {
		parsed, recognized := roster.ParseCakeStatus(req.Status)
		if !recognized {
			c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: fmt.Sprintf("%s: %q", config.ErrCakeStatusInvalid, req.Status)})
			return
		}
		target = parsed
	} else if !req.Advance {
		c.JSON(http.StatusBadRequest, gin.H{config.JSONKeyError: config.ErrCakeStatusInvalid})
		return
	}

	updated, found := s.updateCake(id, target, req.Advance && req.Status == "")
	if !found {
		c.JSON(http.StatusNotFound, gin.H{config.JSONKeyError: config.ErrRecordNotFound})
		return
	}

	if err := s.rebuildFeed(); err != nil {
		s.log.Error(config.ErrICalEncode, slog.String(config.LogKeyError, err.Error()))
	}
	s.log.Info(config.MsgCakeUpdated,
		slog.String(config.LogKeyID, id),
		slog.String(config.LogKeyValue, string(updated.CakeStatus)))
	c.JSON(http.StatusOK, updated)
}

func (s *Server) updateCake(id string, target roster.CakeStatus, advance bool) (roster.StaffRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if advance {
			s.records[i].CakeStatus = s.records[i].CakeStatus.Advance()
		} else {
			s.records[i].CakeStatus = target
		}
		return s.records[i], true
	}
	return roster.StaffRecord{}, false
}
