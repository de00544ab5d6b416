package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrPageOutOfRange is returned when a requested page has no card.
var ErrPageOutOfRange = errors.New("page out of range")

const (
	defaultWidth = 40
	minWidth     = 20

	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiAmber  = "\x1b[38;5;214m"
	ansiFaint  = "\x1b[2m"
	ellipsis   = "…"
	tempSuffix = "°"
)

// Terminal draws views as boxed cards, one per page.
type Terminal struct {
	Out   io.Writer
	Color bool
	Width int
}

// Render writes v. page selects a single card (1-based); 0 draws them all.
func (t Terminal) Render(v View, page int) error {
	// Loading and notice views draw no cards, so any page is accepted there.
	drawsCards := !v.Loading && v.Notice == ""
	if page < 0 || (drawsCards && page > len(v.Cards)) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(v.Cards))
	}

	w := bufio.NewWriter(t.Out)

	if v.Label != "" {
		fmt.Fprintln(w, t.paint(ansiBold, v.Label))
	}

	switch {
	case v.Loading:
		fmt.Fprintln(w, t.paint(ansiFaint, "  ⠿ loading forecast"))
	case v.Notice != "":
		fmt.Fprintln(w, v.Notice)
	default:
		cards := v.Cards
		if page > 0 {
			cards = cards[page-1 : page]
		}
		for i, c := range cards {
			if i > 0 {
				fmt.Fprintln(w)
			}
			t.card(w, c)
		}
	}

	return w.Flush()
}

func (t Terminal) width() int {
	if t.Width <= 0 {
		return defaultWidth
	}
	if t.Width < minWidth {
		return minWidth
	}
	return t.Width
}

func (t Terminal) card(w io.Writer, c Card) {
	inner := t.width() - 4

	fmt.Fprintln(w, t.paint(ansiAmber, "╭"+strings.Repeat("─", inner+2)+"╮"))

	header := spread(c.Glyph+"  "+c.Icon, fmt.Sprintf("%d/%d", c.Page, c.Of), inner)
	t.line(w, header, inner)
	t.line(w, "", inner)
	t.line(w, c.Temperature+tempSuffix, inner)
	t.line(w, c.Condition, inner)
	t.line(w, c.Description, inner)
	if c.Time != "" {
		t.line(w, c.Time, inner)
	}

	fmt.Fprintln(w, t.paint(ansiAmber, "╰"+strings.Repeat("─", inner+2)+"╯"))
}

// line pads by display width so wide runes keep the border aligned.
func (t Terminal) line(w io.Writer, content string, inner int) {
	body := runewidth.FillRight(runewidth.Truncate(content, inner, ellipsis), inner)
	fmt.Fprintln(w, t.paint(ansiAmber, "│")+" "+body+" "+t.paint(ansiAmber, "│"))
}

func (t Terminal) paint(code, s string) string {
	if !t.Color {
		return s
	}
	return code + s + ansiReset
}

// spread places left and right at opposite ends of a width-wide line.
func spread(left, right string, width int) string {
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		left = runewidth.Truncate(left, width-runewidth.StringWidth(right)-1, ellipsis)
		gap = width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
		if gap < 1 {
			gap = 1
		}
	}
	return left + strings.Repeat(" ", gap) + right
}
