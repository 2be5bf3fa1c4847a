//go:build js && wasm

package browser

import (
	"log/slog"
	"strings"
	"syscall/js"

	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/popup"
)

type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	line := strings.TrimSuffix(string(p), "\n")
	js.Global().Get("console").Call(consoleMethod(line), line)
	return len(p), nil
}

// NewConsoleLogger returns a logger writing text records to the browser
// console at level and above.
func NewConsoleLogger(level slog.Level) *slog.Logger {
	return slog.New(logging.NewHandler(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: level})))
}

// InjectKeyframes adds the popup animation keyframes to the page head.
func InjectKeyframes() {
	doc := js.Global().Get("document")
	style := doc.Call("createElement", "style")
	style.Set("textContent", popup.KeyframesCSS())
	doc.Get("head").Call("appendChild", style)
}
