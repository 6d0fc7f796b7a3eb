package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/snowflake"
	"github.com/mylucky2d3d/crawler/render"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/tasklib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dailyHTML = `<section id="pricing"><h2 class="section-title">2D Live</h2><p class="section-subtitle">04/Nov/2025</p><span id="luckyNumbWrp">45</span></section>`
	weeklyHTML = `<div id="pricing"><div class="row"><h4 class="section-title text-center">04/Nov/2025 - Tuesday</h4></div>
<div class="row"><div class="feature-card"><div class="blockLucky">12</div></div><div class="feature-card"><div class="blockLucky">45</div></div></div></div>`
	threeDHTML = `<div class="feature-card"><div class="blockTime">01/Nov/2025</div><div class="blockLucky">123</div></div>`
)

type fakeRenderer struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pages: map[string]string{
			"http://lottery.test/":   dailyHTML,
			"http://lottery.test/2d": weeklyHTML,
			"http://lottery.test/3d": threeDHTML,
		},
		errs: map[string]error{},
	}
}

func (f *fakeRenderer) Load(ctx context.Context, t render.Target) (*goquery.Document, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	html, err := f.pages[t.URL], f.errs[t.URL]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeRenderer) set(url, html string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = html
	f.errs[url] = err
}

type memStore struct {
	mu       sync.Mutex
	docs     map[storage.Dataset]storage.Document
	writeErr error
}

func (m *memStore) Write(_ context.Context, d storage.Dataset, doc storage.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.docs == nil {
		m.docs = map[storage.Dataset]storage.Document{}
	}
	m.docs[d] = doc
	return nil
}

func (m *memStore) Read(_ context.Context, d storage.Dataset) (storage.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[d]; ok {
		return doc, nil
	}
	return storage.Empty(d), nil
}

func testTasks(t *testing.T) []*spider.Task {
	t.Helper()
	tasks, err := tasklib.Build(nil, nil, []spider.TaskConfig{
		{Name: "daily", URL: "http://lottery.test/", ReadySelector: "#pricing"},
		{Name: "weekly", URL: "http://lottery.test/2d", ReadySelector: "#pricing"},
		{Name: "threeD", URL: "http://lottery.test/3d"},
	})
	require.NoError(t, err)
	return tasks
}

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newScheduler(t *testing.T, r render.Renderer, s storage.Store, opts ...Option) *Scheduler {
	t.Helper()
	clock := &stepClock{t: time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)}
	opts = append([]Option{
		WithRenderer(r),
		WithStorage(s),
		WithTasks(testTasks(t)...),
		WithClock(clock.Now),
	}, opts...)
	sch, err := NewScheduler(opts...)
	require.NoError(t, err)
	return sch
}

func TestNewSchedulerRequiresDependencies(t *testing.T) {
	_, err := NewScheduler(WithStorage(&memStore{}))
	assert.Error(t, err)
	_, err = NewScheduler(WithRenderer(newFakeRenderer()))
	assert.Error(t, err)
	_, err = NewScheduler(WithRenderer(newFakeRenderer()), WithStorage(&memStore{}), WithInterval(0))
	assert.Error(t, err)
}

func TestTickWritesEveryDataset(t *testing.T) {
	store := &memStore{}
	s := newScheduler(t, newFakeRenderer(), store)

	report := s.Tick(context.Background())
	assert.False(t, report.Skipped)
	assert.Empty(t, report.Failed())
	require.Len(t, report.Outcomes, 3)

	for _, d := range storage.Datasets {
		doc, err := store.Read(context.Background(), d)
		require.NoError(t, err)
		assert.True(t, doc.Populated(), d)
	}
	weekly, _ := store.Read(context.Background(), storage.Weekly)
	assert.Equal(t, 1, *weekly.TotalRecords)
	daily, _ := store.Read(context.Background(), storage.Daily)
	assert.Nil(t, daily.TotalRecords)
	assert.Contains(t, string(daily.Data), `"liveNumber":"45"`)
}

func TestTickRunIDs(t *testing.T) {
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	s := newScheduler(t, newFakeRenderer(), &memStore{}, WithIDNode(node))

	first := s.Tick(context.Background())
	second := s.Tick(context.Background())
	require.NotEmpty(t, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)

	id, err := snowflake.ParseString(first.RunID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.Node())
}

func TestTickIsolatesFailures(t *testing.T) {
	store := &memStore{}
	r := newFakeRenderer()
	r.set("http://lottery.test/2d", "", &render.NavigationError{URL: "http://lottery.test/2d", Err: errors.New("refused")})
	s := newScheduler(t, r, store)

	report := s.Tick(context.Background())
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, storage.Weekly, failed[0].Dataset)

	daily, _ := store.Read(context.Background(), storage.Daily)
	threeD, _ := store.Read(context.Background(), storage.ThreeD)
	weekly, _ := store.Read(context.Background(), storage.Weekly)
	assert.True(t, daily.Populated())
	assert.True(t, threeD.Populated())
	assert.Equal(t, storage.Empty(storage.Weekly), weekly)
}

func TestValidationFailureKeepsPreviousDocument(t *testing.T) {
	store := &memStore{}
	r := newFakeRenderer()
	s := newScheduler(t, r, store)

	s.Tick(context.Background())
	before, _ := store.Read(context.Background(), storage.Daily)

	r.set("http://lottery.test/", `<section id="pricing"></section>`, nil)
	report := s.Tick(context.Background())
	require.Len(t, report.Failed(), 1)

	after, _ := store.Read(context.Background(), storage.Daily)
	assert.Equal(t, before, after)
}

func TestTickIsIdempotent(t *testing.T) {
	store := &memStore{}
	s := newScheduler(t, newFakeRenderer(), store)

	s.Tick(context.Background())
	first, _ := store.Read(context.Background(), storage.Weekly)
	s.Tick(context.Background())
	second, _ := store.Read(context.Background(), storage.Weekly)

	assert.JSONEq(t, string(first.Data), string(second.Data))
	assert.True(t, second.LastUpdated.After(*first.LastUpdated))
}

func TestWriteFailureIsReported(t *testing.T) {
	store := &memStore{writeErr: errors.New("disk full")}
	s := newScheduler(t, newFakeRenderer(), store)

	report := s.Tick(context.Background())
	assert.Len(t, report.Failed(), 3)
	assert.ErrorIs(t, report.Failed()[0].Err, store.writeErr)
}

func TestPanickingTaskIsRecovered(t *testing.T) {
	store := &memStore{}
	tasks := testTasks(t)
	tasks[0].Parse = func(*goquery.Document) (spider.Result, error) { panic("boom") }
	s := newScheduler(t, newFakeRenderer(), store, WithTasks(tasks...))

	report := s.Tick(context.Background())
	require.Len(t, report.Failed(), 1)
	assert.Contains(t, report.Failed()[0].Err.Error(), "boom")
	weekly, _ := store.Read(context.Background(), storage.Weekly)
	assert.True(t, weekly.Populated())
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	r := newFakeRenderer()
	r.entered = make(chan struct{})
	r.release = make(chan struct{})
	s := newScheduler(t, r, &memStore{})

	done := make(chan Report)
	go func() { done <- s.Tick(context.Background()) }()
	<-r.entered

	skipped := s.Tick(context.Background())
	assert.True(t, skipped.Skipped)

	// let the first tick finish
	go func() {
		for range r.entered {
		}
	}()
	close(r.release)
	first := <-done
	assert.False(t, first.Skipped)
	assert.Len(t, first.Outcomes, 3)
	close(r.entered)
}

type manualTicker struct{ ch chan time.Time }

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

func TestRunImmediateThenEveryTick(t *testing.T) {
	r := newFakeRenderer()
	ticker := &manualTicker{ch: make(chan time.Time)}
	s := newScheduler(t, r, &memStore{}, WithTicker(func(d time.Duration) Ticker {
		assert.Equal(t, time.Minute, d)
		return ticker
	}))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error)
	go func() { stopped <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return r.calls.Load() == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !s.running.Load() }, time.Second, 5*time.Millisecond)

	ticker.ch <- time.Now()
	assert.Eventually(t, func() bool { return r.calls.Load() == 6 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunWithoutImmediateRun(t *testing.T) {
	r := newFakeRenderer()
	ticker := &manualTicker{ch: make(chan time.Time)}
	s := newScheduler(t, r, &memStore{}, WithRunOnStart(false), WithTicker(func(time.Duration) Ticker { return ticker }))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error)
	go func() { stopped <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), r.calls.Load())
	cancel()
	<-stopped
}
