//go:build js && wasm

// Command wasm boots the docnav navigation engine inside a documentation
// page. Build with GOOS=js GOARCH=wasm and load it with wasm_exec.js.
package main

import (
	"log/slog"
	"syscall/js"

	"github.com/ziadkadry99/docnav/internal/browser"
	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/navigator"
)

func main() {
	logger := browser.NewConsoleLogger(slog.LevelWarn)

	sched := browser.NewScheduler()
	origin := js.Global().Get("location").Get("origin").String()
	client := content.NewClient(origin, content.DefaultEndpoint, 0).WithLogger(logger)

	opts := navigator.DefaultOptions()
	opts.Logger = logger

	boot := func() {
		browser.InjectKeyframes()
		c, err := navigator.New(browser.NewDocument(), browser.NewHistory(), content.NewAsync(client, sched), sched, opts)
		if err != nil {
			logger.Error("docnav: boot failed", "error", err)
			return
		}
		c.Boot()
	}

	doc := js.Global().Get("document")
	if doc.Get("readyState").String() == "loading" {
		doc.Call("addEventListener", "DOMContentLoaded", js.FuncOf(func(this js.Value, args []js.Value) any {
			boot()
			return nil
		}))
	} else {
		boot()
	}

	select {}
}
