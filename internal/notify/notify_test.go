package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"codego/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_StampsAndCounts(t *testing.T) {
	rec := &Recorder{}
	before := testutil.ToFloat64(observability.NotificationsTotal.WithLabelValues(string(Warning)))

	Send(context.Background(), rec, Warn("API Limitation", "one vote per poll"))

	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, Warning, n.Variant)
	assert.False(t, n.At.IsZero())
	assert.Equal(t, before+1, testutil.ToFloat64(observability.NotificationsTotal.WithLabelValues(string(Warning))))
}

func TestSend_DefaultsVariantAndToleratesNil(t *testing.T) {
	rec := &Recorder{}
	Send(context.Background(), rec, Notification{Title: "Comment added"})
	Send(context.Background(), nil, Info("dropped", ""))

	require.Equal(t, 1, rec.Len())
	assert.Equal(t, Default, rec.All()[0].Variant)
}

func TestRecorder_TitlesAndReset(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(context.Background(), Info("a", ""))
	rec.Notify(context.Background(), Error("b", ""))
	assert.Equal(t, []string{"a", "b"}, rec.Titles())

	rec.Reset()
	_, ok := rec.Last()
	assert.False(t, ok)
}

func TestFanout_DeliversToAll(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	var calls int
	f := Fanout{first, nil, second, NotifierFunc(func(context.Context, Notification) { calls++ })}

	f.Notify(context.Background(), Info("Post created", ""))

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, 1, calls)
}

func TestLogNotifier_LevelPerVariant(t *testing.T) {
	var buf bytes.Buffer
	l := LogNotifier{Logger: observability.NewLogger(&buf, "development", "info")}

	l.Notify(context.Background(), Error("Voting failed", "boom"))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "Voting failed")
	assert.Contains(t, out, "description=boom")
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:u-1", UserChannel("u-1"))
}

func TestRedisPublisher_NilClientIsNoop(t *testing.T) {
	p := NewRedisPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), Info("x", "")))
	assert.NoError(t, p.Subscribe(context.Background(), "u1", func(Notification) {}))
	p.Notify(context.Background(), Info("x", ""))
}

func TestRedisPublisher_PublishAndSubscribe(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	p := NewRedisPublisher(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []Notification
	require.NoError(t, p.Subscribe(ctx, "u1", func(n Notification) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n)
	}))

	require.NoError(t, p.Publish(context.Background(), Notification{Title: "Vote recorded", UserID: "u1", Variant: Default}))
	require.NoError(t, p.Publish(context.Background(), Info("Maintenance", "tonight")))
	require.NoError(t, p.Publish(context.Background(), Notification{Title: "other user", UserID: "u2"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	titles := []string{got[0].Title, got[1].Title}
	assert.ElementsMatch(t, []string{"Vote recorded", "Maintenance"}, titles)
}

func TestNotification_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Notification{Title: "t", Variant: Destructive})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variant":"destructive"`)
	assert.NotContains(t, string(raw), `"userId"`)
}
