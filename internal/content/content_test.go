package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ziadkadry99/docnav/internal/content/contenttest"
	"github.com/ziadkadry99/docnav/internal/loop"
)

func TestParse(t *testing.T) {
	page, err := Parse("/docs/intro", "Intro\r\n<h1>Intro</h1>\n<p>body</p>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if page.Title != "Intro" {
		t.Errorf("Title: got %q, want %q", page.Title, "Intro")
	}
	if page.BodyHTML != "<h1>Intro</h1>\n<p>body</p>" {
		t.Errorf("BodyHTML: got %q", page.BodyHTML)
	}
	if page.Path != "/docs/intro" {
		t.Errorf("Path: got %q", page.Path)
	}
}

func TestParseEmptyBody(t *testing.T) {
	page, err := Parse("/docs/x", "Only title\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if page.Title != "Only title" || page.BodyHTML != "" {
		t.Errorf("got %+v", page)
	}
}

func TestParseMissingNewline(t *testing.T) {
	if _, err := Parse("/docs/x", "no newline here"); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestClientFetch(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()
	srv.AddPage("/docs/a b", "Spaces", "<p>ok</p>")

	c := NewClient(srv.URL+"/", "", time.Second)
	page, err := c.Fetch(context.Background(), "/docs/a b")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Title != "Spaces" || page.BodyHTML != "<p>ok</p>" {
		t.Errorf("got %+v", page)
	}
	if got := srv.Requests(); len(got) != 1 || got[0] != "/docs/a b" {
		t.Errorf("requests: got %q, want the unescaped path", got)
	}
}

func TestClientFetchStatus(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()

	c := NewClient(srv.URL, DefaultEndpoint, time.Second)
	_, err := c.Fetch(context.Background(), "/docs/missing")
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("got %v, want ErrStatus", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 404 {
		t.Errorf("status error: got %v, want code 404", err)
	}
}

func TestClientFetchMalformed(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()
	srv.AddRaw("/docs/bad", "no title line")

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.Fetch(context.Background(), "/docs/bad"); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestClientFetchCanceled(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()
	srv.AddPage("/docs/slow", "Slow", "")
	release := srv.Hold("/docs/slow")
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL, "", 5*time.Second)
	errc := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "/docs/slow")
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("canceled fetch did not return")
	}
}

func TestFetchDocument(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()
	srv.AddDocument("/docs/intro", "<html><title>Intro</title></html>")

	c := NewClient(srv.URL, "", time.Second)
	doc, err := c.FetchDocument(context.Background(), "/docs/intro")
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if doc != "<html><title>Intro</title></html>" {
		t.Errorf("got %q", doc)
	}
}

func TestAsyncPostsCompletion(t *testing.T) {
	srv := contenttest.NewServer()
	defer srv.Close()
	srv.AddPage("/docs/intro", "Intro", "<h1>Intro</h1>")

	sched := loop.NewManual()
	a := NewAsync(NewClient(srv.URL, "", time.Second), sched)

	var got *Page
	called := make(chan struct{})
	a.Fetch(context.Background(), "/docs/intro", func(p *Page, err error) {
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
		got = p
		close(called)
	})

	deadline := time.Now().Add(5 * time.Second)
	for {
		sched.Flush()
		select {
		case <-called:
			if got == nil || got.Title != "Intro" {
				t.Errorf("got %+v", got)
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("completion never posted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
