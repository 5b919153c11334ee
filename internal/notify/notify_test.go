package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/logging"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

type recorder struct {
	id      string
	enabled bool
	err     error

	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) ID() string      { return r.id }
func (r *recorder) Name() string    { return "Recorder" }
func (r *recorder) IsEnabled() bool { return r.enabled }

func (r *recorder) Notify(_ context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return r.err
}

func (r *recorder) received() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func TestNoticeFor(t *testing.T) {
	at := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)

	n, ok := NoticeFor(schedule.Event{Type: schedule.EventThemeApplied, Name: "Nord", At: at})
	require.True(t, ok)
	assert.Equal(t, SeverityInfo, n.Severity)
	assert.Equal(t, "Switched color theme to Nord", n.Body)
	assert.Equal(t, at, n.At)
	_, err := ulid.ParseStrict(n.ID)
	assert.NoError(t, err)

	again, _ := NoticeFor(schedule.Event{Type: schedule.EventThemeApplied, Name: "Nord", At: at})
	assert.NotEqual(t, n.ID, again.ID)

	n, ok = NoticeFor(schedule.Event{Type: schedule.EventError, Err: errors.New("hook failed")})
	require.True(t, ok)
	assert.Equal(t, SeverityError, n.Severity)
	assert.Equal(t, "hook failed", n.Body)
	assert.False(t, n.At.IsZero())

	_, ok = NoticeFor(schedule.Event{Type: schedule.EventThemeRegistered, Name: "Nord"})
	assert.False(t, ok)
	_, ok = NoticeFor(schedule.Event{Type: schedule.EventCleared})
	assert.False(t, ok)
}

func TestManagerFansOutToEnabled(t *testing.T) {
	mgr := NewManager(logging.Discard())
	on := &recorder{id: "on", enabled: true}
	off := &recorder{id: "off"}
	failing := &recorder{id: "failing", enabled: true, err: errors.New("down")}
	mgr.Register(on)
	mgr.Register(off)
	mgr.Register(failing)

	assert.Len(t, mgr.Notifiers(), 3)
	assert.Equal(t, 2, mgr.EnabledCount())

	mgr.Notify(context.Background(), Notice{Title: "hello"})
	require.NoError(t, mgr.Wait(context.Background()))

	assert.Len(t, on.received(), 1)
	assert.Empty(t, off.received())
	assert.Len(t, failing.received(), 1)
}

func TestManagerWaitHonorsContext(t *testing.T) {
	mgr := NewManager(logging.Discard())
	block := make(chan struct{})
	defer close(block)
	mgr.Register(blockingNotifier(block))

	mgr.Notify(context.Background(), Notice{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mgr.Wait(ctx), context.DeadlineExceeded)
}

type blockingNotifier chan struct{}

func (b blockingNotifier) ID() string      { return "blocking" }
func (b blockingNotifier) Name() string    { return "Blocking" }
func (b blockingNotifier) IsEnabled() bool { return true }

func (b blockingNotifier) Notify(context.Context, Notice) error {
	<-b
	return nil
}

func TestManagerPumpStopsWhenStreamCloses(t *testing.T) {
	bus := schedule.NewBus()
	events, cancel := bus.Subscribe(8)
	defer cancel()

	mgr := NewManager(logging.Discard())
	rec := &recorder{id: "rec", enabled: true}
	mgr.Register(rec)

	done := make(chan error, 1)
	go func() { done <- mgr.Pump(context.Background(), events) }()

	bus.Publish(schedule.Event{Type: schedule.EventThemeRegistered, Name: "Nord", When: "19:00"})
	bus.Publish(schedule.Event{Type: schedule.EventThemeApplied, Name: "Nord"})
	bus.Publish(schedule.Event{Type: schedule.EventIconThemeApplied, Name: "Emoji"})
	bus.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not return after the bus closed")
	}

	got := rec.received()
	require.Len(t, got, 2)
	types := []schedule.EventType{got[0].Type, got[1].Type}
	assert.ElementsMatch(t, []schedule.EventType{schedule.EventThemeApplied, schedule.EventIconThemeApplied}, types)
}

func TestManagerPumpStopsOnCancel(t *testing.T) {
	mgr := NewManager(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Pump(ctx, make(chan schedule.Event)) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Pump ignored cancellation")
	}
}

func TestNewFromConfig(t *testing.T) {
	mgr := NewFromConfig(config.NotifyConfig{
		Log: true,
		Webhooks: []config.WebhookEntry{
			{ID: "home", URL: "http://localhost:1/hook", Enabled: true, TimeoutMs: 100},
			{ID: "off", URL: "http://localhost:1/hook"},
		},
	}, logging.Discard())

	ids := map[string]bool{}
	for _, n := range mgr.Notifiers() {
		ids[n.ID()] = n.IsEnabled()
	}
	assert.Equal(t, map[string]bool{"log": true, "desktop": false, "home": true, "off": false}, ids)
}
