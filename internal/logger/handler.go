package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
)

// redactedKeys never have their values written.
var redactedKeys = map[string]bool{
	"token":         true,
	"authorization": true,
}

// PrettyHandler is a slog.Handler writing one colored line per record. It
// shares stderr with the spinner, so writes are serialized.
type PrettyHandler struct {
	opts *slog.HandlerOptions
	w    io.Writer
	mu   *sync.Mutex
	// attrs are already formatted, with the groups open at the time they
	// were added.
	attrs  []string
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: opts,
		w:    w,
		mu:   &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(formatLevel(r.Level))
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	attrs := append([]string(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, formatAttr(h.groups, a))
		return true
	})

	if len(attrs) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(attrs, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	formatted := make([]string, 0, len(h.attrs)+len(attrs))
	formatted = append(formatted, h.attrs...)
	for _, a := range attrs {
		formatted = append(formatted, formatAttr(h.groups, a))
	}

	clone := *h
	clone.attrs = formatted
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case slog.LevelError:
		return color.RedString("[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func formatAttr(groups []string, a slog.Attr) string {
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	val := formatValue(a)
	if redactedKeys[strings.ToLower(a.Key)] {
		val = "[redacted]"
	}

	switch a.Key {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "endpoint", "repo", "url", "section":
		return color.BlueString("%s=%s", key, val)
	case "duration_ms", "duration":
		return color.MagentaString("%s=%s", key, val)
	case "count", "fetched", "total", "issues", "proposals":
		return color.GreenString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}

// formatValue keeps response bodies out of log lines: an AppError is
// shortened to its type, message and cause.
func formatValue(a slog.Attr) string {
	v := a.Value.Resolve()
	if err, ok := v.Any().(error); ok && v.Kind() == slog.KindAny {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			s := fmt.Sprintf("%s: %s", appErr.Type, appErr.Message)
			if appErr.Err != nil {
				s += " (" + appErr.Err.Error() + ")"
			}
			return quote(s)
		}
		return quote(err.Error())
	}
	return quote(v.String())
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
