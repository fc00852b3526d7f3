// Package cli is a line-oriented front end to the archive view, for trying
// searches and filters from a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/bastiangx/setlistserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

const helpText = `commands:
  <text>          autocomplete song titles
  /down /up       move the selection
  /pick           use the selection as the song filter
  /esc            close the candidate list
  /year <y|all>   switch year
  /type [t]       set or clear the type filter
  /types          list the types of the loaded year
  /live [q]       set or clear the live title filter
  /song [q]       set or clear the song title filter
  /list           show the filtered lives
  /show <n|id>    show a live's setlist
  /rank           show the song ranking
  /more           toggle the expanded ranking
  /count <q>      count performances in the current year
  /reset          back to the latest year, no filters
  /help           this text`

// InputHandler reads commands and prints results.
type InputHandler struct {
	controller *browser.Controller
	session    *suggest.Session
	out        io.Writer
	styles     styles
	listed     []setlist.LiveEvent
}

// NewInputHandler binds the handler to an initialized controller and a title
// session. Output goes to out.
func NewInputHandler(controller *browser.Controller, session *suggest.Session, out io.Writer, color bool) *InputHandler {
	return &InputHandler{
		controller: controller,
		session:    session,
		out:        out,
		styles:     newStyles(color),
	}
}

// Start runs the prompt loop until in is exhausted.
func (h *InputHandler) Start(ctx context.Context, in io.Reader) error {
	h.printf("setlistserve CLI (%s)", h.controller.Criteria().Year.Label())
	h.printf("type a song title, or /help (Ctrl+C to exit)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.Exec(ctx, line)
	}
}

// Exec runs one input line.
func (h *InputHandler) Exec(ctx context.Context, line string) {
	if !strings.HasPrefix(line, "/") {
		h.complete(line)
		return
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	log.Debug("Command", "cmd", cmd, "arg", arg)

	switch cmd {
	case "down":
		h.session.MoveSelection(suggest.Down)
		h.renderCandidates()
	case "up":
		h.session.MoveSelection(suggest.Up)
		h.renderCandidates()
	case "pick":
		h.pick()
	case "esc":
		h.session.Dismiss()
	case "year":
		h.selectYear(ctx, arg)
	case "type":
		h.controller.SetType(arg)
		h.renderSummary()
	case "types":
		h.renderTypes()
	case "live":
		h.controller.SetLiveQuery(arg)
		h.renderSummary()
	case "song":
		h.controller.SetSongQuery(arg)
		h.renderSummary()
	case "list":
		h.renderList()
	case "show":
		h.show(arg)
	case "rank":
		h.renderRanking()
	case "more":
		h.controller.Ranking().Toggle()
		h.renderRanking()
	case "count":
		h.count(ctx, arg)
	case "reset":
		if err := h.controller.Reset(ctx); err != nil {
			h.fail(err)
			return
		}
		h.session.Dismiss()
		h.renderSummary()
	case "help":
		h.printf("%s", helpText)
	default:
		h.printf("unknown command /%s, try /help", cmd)
	}
}

func (h *InputHandler) complete(text string) {
	start := time.Now()
	h.session.UpdateQuery(text)
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), text)
	h.renderCandidates()
}

// pick commits the selection; without one the typed text is used as is.
func (h *InputHandler) pick() {
	title, ok := h.session.Commit()
	if !ok {
		title = h.session.Query()
		h.session.Dismiss()
	}
	if title == "" {
		h.printf("nothing to pick")
		return
	}
	h.controller.SetSongQuery(title)
	h.printf("song filter: %s", h.styles.title.Render(title))
	h.renderSummary()
}

func (h *InputHandler) selectYear(ctx context.Context, arg string) {
	if arg == "" {
		h.printf("years: %s", joinYears(h.controller.Years()))
		return
	}
	if err := h.controller.SelectYear(ctx, setlist.ParseYearSelector(arg)); err != nil {
		h.fail(err)
		return
	}
	h.renderSummary()
}

func (h *InputHandler) show(arg string) {
	if arg == "" {
		h.printf("usage: /show <n|id>")
		return
	}
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err == nil && n >= 1 && n <= len(h.listed) {
		arg = h.listed[n-1].ID
	}
	l, ok := h.controller.Live(arg)
	if !ok {
		h.printf("no live %q in the current list", arg)
		return
	}
	h.renderLive(l)
}

func (h *InputHandler) count(ctx context.Context, arg string) {
	res, err := h.controller.Count(ctx, h.controller.Criteria().Year, arg)
	if err != nil {
		h.fail(err)
		return
	}
	if res.Query == "" {
		h.printf("曲名を入力してください")
		return
	}
	h.renderCount(res)
}

func (h *InputHandler) fail(err error) {
	if errors.Is(err, browser.ErrStale) {
		log.Debugf("Ignored stale load: %v", err)
		return
	}
	log.Errorf("%v", err)
	h.printf("error: %v", err)
}

func (h *InputHandler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func joinYears(years []setlist.Year) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = string(y)
	}
	return strings.Join(parts, ", ")
}
