package render

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lottery-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><section id="pricing"><h2 class="section-title">2D</h2></section></body></html>`))
	})
	mux.HandleFunc("/gbk", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		// "中" in GBK
		w.Write([]byte("<html><body><p id=\"pricing\">\xd6\xd0</p></body></html>"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticRendererLoad(t *testing.T) {
	srv := newTestServer(t)
	r := NewStaticRenderer(WithUserAgent(func() string { return "lottery-test" }))

	doc, err := r.Load(context.Background(), Target{URL: srv.URL + "/ok", ReadySelector: "#pricing"})
	require.NoError(t, err)
	assert.Equal(t, "2D", doc.Find(".section-title").Text())
}

func TestStaticRendererCharset(t *testing.T) {
	srv := newTestServer(t)
	r := NewStaticRenderer(WithUserAgent(func() string { return "lottery-test" }))

	doc, err := r.Load(context.Background(), Target{URL: srv.URL + "/gbk"})
	require.NoError(t, err)
	assert.Equal(t, "中", doc.Find("#pricing").Text())
}

func TestDetermineEncoding(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		want        string
	}{
		{name: "header only", body: "<p>\xd6\xd0</p>", contentType: "text/html; charset=gbk", want: "<p>中</p>"},
		{name: "meta tag", body: `<meta charset="gbk"><p>` + "\xd6\xd0</p>", want: `<meta charset="gbk"><p>中</p>`},
		{name: "header wins over meta", body: `<meta charset="utf-8"><p>` + "\xd6\xd0</p>", contentType: "text/html; charset=GBK", want: `<meta charset="utf-8"><p>中</p>`},
		{name: "utf-8 header", body: "<p>中</p>", contentType: "text/html; charset=utf-8", want: "<p>中</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.body))
			e := DetermineEncoding(r, tt.contentType)
			got, err := e.NewDecoder().String(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticRendererErrors(t *testing.T) {
	srv := newTestServer(t)
	r := NewStaticRenderer(WithUserAgent(func() string { return "lottery-test" }))

	tests := []struct {
		name       string
		target     Target
		isSelector bool
	}{
		{name: "status", target: Target{URL: srv.URL + "/missing"}},
		{name: "timeout", target: Target{URL: srv.URL + "/slow", NavTimeout: 50 * time.Millisecond}},
		{name: "bad url", target: Target{URL: "://nowhere"}},
		{name: "ready selector", target: Target{URL: srv.URL + "/ok", ReadySelector: "#absent", SelectorTimeout: time.Second}, isSelector: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Load(context.Background(), tt.target)
			require.Error(t, err)
			if tt.isSelector {
				var serr *SelectorTimeoutError
				require.True(t, errors.As(err, &serr))
				assert.Equal(t, "#absent", serr.Selector)
				return
			}
			var nerr *NavigationError
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, tt.target.URL, nerr.URL)
		})
	}
}

func TestNew(t *testing.T) {
	r, err := New(StaticType)
	require.NoError(t, err)
	assert.IsType(t, &StaticRenderer{}, r)

	r, err = New(BrowserType, WithHeadless(false))
	require.NoError(t, err)
	assert.False(t, r.(*BrowserRenderer).headless)

	_, err = New("chrome-extension")
	assert.Error(t, err)
}
