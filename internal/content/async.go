package content

import (
	"context"

	"github.com/ziadkadry99/docnav/internal/loop"
)

// Async runs fetches off the main loop and delivers their results on it.
type Async struct {
	client *Client
	sched  loop.Scheduler
}

// NewAsync creates an Async fetcher posting completions to sched.
func NewAsync(client *Client, sched loop.Scheduler) *Async {
	return &Async{client: client, sched: sched}
}

// Fetch starts retrieving path and returns immediately. done runs on the
// scheduler once the request settles, including when ctx is canceled.
func (a *Async) Fetch(ctx context.Context, path string, done func(*Page, error)) {
	go func() {
		page, err := a.client.Fetch(ctx, path)
		a.sched.Post(func() { done(page, err) })
	}()
}
