package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiCyan   = "\033[1;96m"
	ansiYellow = "\033[1;93m"
	ansiRed    = "\033[1;91m"
	ansiFaint  = "\033[2m"
)

// colorSet holds per-stream colour decisions; stdout may be a terminal while
// stderr is redirected, or the other way round.
type colorSet struct {
	stdout bool
	stderr bool
}

// consoleHandler renders records as single human-readable lines:
//
//	[SYSTEM] moved source=ai/gemini.js target=src/services/gemini.js
//	[ERROR] could not move path=src/ai/x.js error="permission denied"
//
// Records below WARN go to out; WARN and above go to errOut. The component
// and run id only appear on debug lines.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	errOut io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
	colors colorSet
}

func newConsoleHandler(out, errOut io.Writer, lvl *slog.LevelVar, colors colorSet) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, out: out, errOut: errOut, level: lvl, colors: colors}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var component string
	filtered := kvs[:0]
	for _, kv := range kvs {
		if kv.key == FieldComponent {
			if component == "" {
				component = attrString(kv.value)
			}
			continue
		}
		if kv.key == FieldRunID && record.Level >= slog.LevelInfo {
			continue
		}
		filtered = append(filtered, kv)
	}

	writer := h.out
	colored := h.colors.stdout
	if record.Level >= slog.LevelWarn {
		writer = h.errOut
		colored = h.colors.stderr
	}

	var buf bytes.Buffer
	buf.Grow(96 + len(filtered)*24)

	label, color := levelLabel(record.Level)
	if colored {
		buf.WriteString(color)
	}
	buf.WriteString(label)
	if colored {
		buf.WriteString(ansiReset)
	}
	buf.WriteByte(' ')

	if component != "" && record.Level < slog.LevelInfo {
		buf.WriteString(component)
		buf.WriteString(": ")
	}

	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}

	for _, kv := range filtered {
		if kv.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(kv.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(kv.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	clone := &consoleHandler{
		mu:     h.mu,
		out:    h.out,
		errOut: h.errOut,
		level:  h.level,
		colors: h.colors,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

func levelLabel(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "[ERROR]", ansiRed
	case level >= slog.LevelWarn:
		return "[WARN]", ansiYellow
	case level >= slog.LevelInfo:
		return "[SYSTEM]", ansiCyan
	default:
		return "[DEBUG]", ansiFaint
	}
}

func consoleColors(disabled bool, stdout, stderr io.Writer) colorSet {
	if disabled || os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return colorSet{}
	}
	return colorSet{stdout: isTerminal(stdout), stderr: isTerminal(stderr)}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
