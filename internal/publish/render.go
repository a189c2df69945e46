package publish

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererMu sync.Mutex
	// Keyed by style and wrap width. Auto style is avoided: it queries the terminal.
	renderers = map[string]*glamour.TermRenderer{}
)

// RenderTerminal renders markdown for a terminal. On renderer errors the markdown is returned
// unchanged.
func RenderTerminal(md string, width int, style string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}

	key := style + ":" + strconv.Itoa(width)
	rendererMu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			rendererMu.Unlock()
			return md
		}
		renderers[key] = rr
		r = rr
	}
	rendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
