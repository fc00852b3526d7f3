package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/setlistserve/internal/logger"
	"github.com/bastiangx/setlistserve/internal/utils"
	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/config"
	"github.com/bastiangx/setlistserve/pkg/dataset"
	"github.com/bastiangx/setlistserve/pkg/filter"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/bastiangx/setlistserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one archive view and one title corpus.
type Server struct {
	completer  suggest.Completer
	controller *browser.Controller
	config     *config.Config
	logger     *log.Logger

	decoder *msgpack.Decoder

	writeMu sync.Mutex
	encoder *msgpack.Encoder

	inputMu  sync.Mutex
	inputID  string
	debounce *suggest.Debouncer

	requestCount int
}

// NewServer wires a server to r and w, usually stdin and stdout. The
// controller must already be initialized.
func NewServer(completer suggest.Completer, controller *browser.Controller, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		completer:  completer,
		controller: controller,
		config:     cfg,
		logger:     logger.New("server"),
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
	}
	s.debounce = suggest.NewDebouncer(cfg.Suggest.Debounce(), s.settleInput)
	return s
}

// Start processes requests until the input ends. A pending debounced input is
// answered before Start returns.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")
	defer func() {
		s.debounce.Flush()
		s.debounce.Stop()
	}()

	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return err
		}
		s.requestCount++
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.Op {
	case OpComplete:
		s.handleComplete(req)
	case OpInput:
		s.handleInput(req)
	case OpFilter:
		s.handleFilter(ctx, req)
	case OpRank:
		s.handleRank(ctx, req)
	case OpCount:
		s.handleCount(ctx, req)
	case OpYears:
		s.sendResponse(YearsResponse{ID: req.ID, Years: s.controller.Years()})
	case OpLive:
		s.handleLive(req)
	case OpHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %q", req.Op), 400)
	}
}

func (s *Server) checkQuery(req Request) bool {
	if req.Query == "" {
		s.sendError(req.ID, "missing query", 400)
		return false
	}
	if n := utf8.RuneCountInString(req.Query); n > s.config.Suggest.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", s.config.Suggest.MaxQuery), 400)
		return false
	}
	return true
}

func (s *Server) limit(requested int) int {
	limit := s.config.Suggest.MaxCandidates
	if requested > 0 && requested < limit {
		limit = requested
	}
	return limit
}

func (s *Server) handleComplete(req Request) {
	if !s.checkQuery(req) {
		return
	}
	s.sendResponse(s.complete(req.ID, req.Query, s.limit(req.Limit)))
}

func (s *Server) complete(id, query string, limit int) CompletionResponse {
	start := time.Now()
	words := s.completer.Complete(query, limit)
	var nearest []string
	if len(words) == 0 && s.config.Suggest.Nearest > 0 {
		nearest = s.completer.Nearest(query, s.config.Suggest.Nearest)
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		suggestions[i] = CompletionSuggestion{Word: w, Rank: ranks[i]}
	}
	return CompletionResponse{
		ID:          id,
		Suggestions: suggestions,
		Count:       len(suggestions),
		Nearest:     nearest,
		TimeTaken:   elapsed.Microseconds(),
	}
}

// handleInput records a keystroke; the answer comes from settleInput.
func (s *Server) handleInput(req Request) {
	if utf8.RuneCountInString(req.Query) > s.config.Suggest.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", s.config.Suggest.MaxQuery), 400)
		return
	}
	s.inputMu.Lock()
	s.inputID = req.ID
	s.inputMu.Unlock()
	s.debounce.Push(req.Query)
}

func (s *Server) settleInput(text string) {
	s.inputMu.Lock()
	id := s.inputID
	s.inputMu.Unlock()

	s.logger.Debugf("Input settled: %q", text)
	s.sendResponse(s.complete(id, text, s.config.Suggest.MaxCandidates))
}

// applyView switches year when asked and replaces the type and query criteria.
func (s *Server) applyView(ctx context.Context, req Request) error {
	if req.Year != "" {
		sel := setlist.ParseYearSelector(req.Year)
		if sel != s.controller.Criteria().Year {
			if err := s.controller.SelectYear(ctx, sel); err != nil {
				return err
			}
		}
	}
	s.controller.SetCriteria(filter.Criteria{
		Type:           req.Type,
		LiveTitleQuery: req.LiveQuery,
		SongTitleQuery: req.SongQuery,
	})
	return nil
}

func (s *Server) handleFilter(ctx context.Context, req Request) {
	if err := s.applyView(ctx, req); err != nil {
		s.sendLoadError(req.ID, err)
		return
	}
	lives := s.controller.Filtered()
	options := make([]LiveOption, len(lives))
	for i, l := range lives {
		options[i] = LiveOption{ID: l.ID, Label: l.Label()}
	}
	s.sendResponse(FilterResponse{
		ID:    req.ID,
		Year:  s.controller.Criteria().Year.String(),
		Lives: options,
		Count: len(options),
		Types: s.controller.Types(),
	})
}

func (s *Server) handleRank(ctx context.Context, req Request) {
	if err := s.applyView(ctx, req); err != nil {
		s.sendLoadError(req.ID, err)
		return
	}
	start := time.Now()
	view := s.controller.Ranking()
	view.SetExpanded(req.Expanded)
	visible := view.Visible()
	s.sendResponse(RankResponse{
		ID:        req.ID,
		Ranking:   visible,
		Count:     len(visible),
		Total:     view.Len(),
		More:      view.HasMore(),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleCount(ctx context.Context, req Request) {
	sel := s.controller.Criteria().Year
	if req.Year != "" {
		sel = setlist.ParseYearSelector(req.Year)
	}
	res, err := s.controller.Count(ctx, sel, req.SongQuery)
	if err != nil {
		s.sendLoadError(req.ID, err)
		return
	}
	if res.Query == "" {
		s.sendError(req.ID, "no query", 400)
		return
	}
	s.sendResponse(CountResponse{
		ID:      req.ID,
		Label:   res.Label,
		Query:   res.Query,
		Matches: res.Matches,
		Count:   res.Count(),
	})
}

func (s *Server) handleLive(req Request) {
	l, ok := s.controller.Live(req.LiveID)
	if !ok {
		s.sendError(req.ID, fmt.Sprintf("live %q not in view", req.LiveID), 404)
		return
	}
	s.sendResponse(LiveResponse{ID: req.ID, Live: l})
}

func (s *Server) sendLoadError(id string, err error) {
	switch {
	case errors.Is(err, dataset.ErrFetch):
		s.sendError(id, err.Error(), 502)
	case errors.Is(err, browser.ErrStale):
		s.sendError(id, err.Error(), 409)
	default:
		s.sendError(id, err.Error(), 500)
	}
}

// sendResponse encodes one frame. Debounced answers write from timer
// goroutines, so frames are serialized here.
func (s *Server) sendResponse(response any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.logger.Debugf("Request %q failed: %s (%d)", id, message, code)
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
