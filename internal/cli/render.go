package cli

import (
	"strings"

	"github.com/bastiangx/setlistserve/internal/utils"
	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	active lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, active: plain, muted: plain, header: plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		active: lipgloss.NewStyle().Bold(true).Reverse(true),
		muted:  lipgloss.NewStyle().Faint(true),
		header: lipgloss.NewStyle().Bold(true),
	}
}

func (h *InputHandler) renderCandidates() {
	if !h.session.Open() {
		return
	}
	candidates := h.session.Candidates()
	if len(candidates) == 0 {
		h.printf("候補なし")
		if hints := h.session.Nearest(); len(hints) > 0 {
			h.printf("%s", h.styles.muted.Render("did you mean: "+strings.Join(hints, " / ")))
		}
		return
	}
	for i, c := range candidates {
		line := h.styles.title.Render(c)
		if i == h.session.Active() {
			line = h.styles.active.Render("> " + c)
		}
		h.printf("%2d. %s", i+1, line)
	}
}

func (h *InputHandler) renderSummary() {
	cr := h.controller.Criteria()
	filtered := h.controller.Filtered()
	parts := []string{cr.Year.Label()}
	if cr.Type != "" {
		parts = append(parts, "type="+cr.Type)
	}
	if cr.LiveTitleQuery != "" {
		parts = append(parts, "live~"+cr.LiveTitleQuery)
	}
	if cr.SongTitleQuery != "" {
		parts = append(parts, "song~"+cr.SongTitleQuery)
	}
	h.printf("%s: %s lives", strings.Join(parts, " "), utils.FormatWithCommas(len(filtered)))
}

func (h *InputHandler) renderTypes() {
	types := h.controller.Types()
	if len(types) == 0 {
		h.printf("no types")
		return
	}
	h.printf("types: %s", strings.Join(types, ", "))
}

func (h *InputHandler) renderList() {
	h.listed = h.controller.Filtered()
	if len(h.listed) == 0 {
		h.printf("該当するデータがありません")
		return
	}
	for i, l := range h.listed {
		h.printf("%3d. %s", i+1, l.Label())
	}
}

func (h *InputHandler) renderLive(l setlist.LiveEvent) {
	h.printf("%s", h.styles.muted.Render(setlist.FormatDateWithDay(l.Date)))
	h.printf("%s", h.styles.header.Render(l.Title))
	meta := l.Venue
	if l.Type != "" {
		meta += " ・ " + l.Type
	}
	h.printf("%s", meta)
	for i, s := range l.Setlist {
		line := h.styles.title.Render(s.Title)
		if s.Note != "" {
			line += h.styles.muted.Render("（" + s.Note + "）")
		}
		h.printf("%2d. %s", i+1, line)
	}
}

func (h *InputHandler) renderRanking() {
	view := h.controller.Ranking()
	visible := view.Visible()
	if len(visible) == 0 {
		h.printf("該当するデータがありません")
		return
	}
	for i, e := range visible {
		h.printf("%2d. %-30s %s回", i+1, h.styles.title.Render(e.Title), utils.FormatWithCommas(e.Count))
	}
	if view.HasMore() {
		h.printf("%s", h.styles.muted.Render("/more for the top "+utils.FormatWithCommas(view.ExpandedLen())))
	}
}

func (h *InputHandler) renderCount(res browser.CountResult) {
	if res.Empty() {
		h.printf("該当するデータがありません")
		return
	}
	h.printf("%s", h.styles.header.Render(res.Label+"「"+res.Query+"」"))
	h.printf("ライブ披露回数：%s回", utils.FormatWithCommas(res.Count()))
	for _, m := range res.Matches {
		h.printf("  %s / %s（%s）", m.Date, m.Title, m.Venue)
	}
}
