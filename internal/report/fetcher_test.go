package report

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	red := testPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	blue := testPNG(t, 8, 8, color.RGBA{B: 255, A: 255})

	mux := http.NewServeMux()
	mux.HandleFunc("/red.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(red)
	})
	mux.HandleFunc("/blue.png", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.Write(blue)
	})
	mux.HandleFunc("/broken.png", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/text.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not an image"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := NewFetcher(server.Client(), time.Second, 2, nil)
	images := f.Fetch(context.Background(), []string{
		server.URL + "/blue.png",
		server.URL + "/broken.png",
		server.URL + "/text.png",
		server.URL + "/red.png",
		"://bad-url",
	})

	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if string(images[0].Data) != string(blue) || string(images[1].Data) != string(red) {
		t.Fatalf("images must keep the input order")
	}
	if images[0].Type != "PNG" {
		t.Fatalf("expected PNG, got %s", images[0].Type)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := NewFetcher(server.Client(), 50*time.Millisecond, 1, nil)
	start := time.Now()
	images := f.Fetch(context.Background(), []string{server.URL + "/slow.png"})
	if len(images) != 0 {
		t.Fatalf("expected no images, got %d", len(images))
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("fetch did not honour the timeout")
	}
}

func TestFetcher_ConcurrencyLimit(t *testing.T) {
	img := testPNG(t, 2, 2, color.RGBA{A: 255})
	var current, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&current, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		w.Write(img)
	}))
	defer server.Close()

	urls := make([]string, 9)
	for i := range urls {
		urls[i] = server.URL
	}
	f := NewFetcher(server.Client(), time.Second, 3, nil)
	if got := len(f.Fetch(context.Background(), urls)); got != 9 {
		t.Fatalf("expected 9 images, got %d", got)
	}
	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Fatalf("expected at most 3 concurrent fetches, got %d", p)
	}
}

func TestFetcher_TooLarge(t *testing.T) {
	img := testPNG(t, 32, 32, color.RGBA{G: 255, A: 255})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), time.Second, 1, nil)
	f.MaxBytes = 10
	if images := f.Fetch(context.Background(), []string{server.URL}); len(images) != 0 {
		t.Fatalf("oversized image must be dropped")
	}
}
