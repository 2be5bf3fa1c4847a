// Package logging builds the slog loggers used by docnav.
//
// Loggers write text records to the given writer and mask credentials that
// may appear in attribute values. Documentation sites behind a proxy are often
// configured with user info or access tokens in the base URL, and those values
// end up in "url" and "location" attributes of fetch and navigation records.
package logging

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"password":      true,
	"token":         true,
	"api_key":       true,
	"access_token":  true,
}

var sensitiveParams = []string{"token", "key", "secret", "password", "auth", "sig"}

// Handler wraps an slog.Handler and masks credentials before records reach it.
type Handler struct {
	handler slog.Handler
}

// NewHandler wraps handler. A nil handler uses slog.Default().Handler().
func NewHandler(handler slog.Handler) *Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &Handler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a handler with the masked attributes added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = maskAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(out)}
}

// WithGroup returns a handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name)}
}

func maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString {
		if s, ok := MaskURL(a.Value.String()); ok {
			return slog.String(a.Key, s)
		}
	}
	return a
}

// MaskURL masks the password and credential-like query parameters of an
// absolute URL. It reports whether raw was changed.
func MaskURL(raw string) (string, bool) {
	if !strings.Contains(raw, "://") {
		return raw, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
			changed = true
		}
	}
	q := u.Query()
	for name := range q {
		lower := strings.ToLower(name)
		for _, p := range sensitiveParams {
			if strings.Contains(lower, p) {
				q.Set(name, MaskValue)
				changed = true
				break
			}
		}
	}
	if !changed {
		return raw, false
	}
	u.RawQuery = q.Encode()
	return u.String(), true
}

// New returns a text logger writing to w. Verbose enables Debug records;
// otherwise only warnings and errors are written.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
