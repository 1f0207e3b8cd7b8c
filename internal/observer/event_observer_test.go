package observer

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/logger"
)

type chanObserver struct {
	name   string
	events chan Event
}

func (c *chanObserver) OnEvent(_ context.Context, e Event) { c.events <- e }
func (c *chanObserver) Name() string                       { return c.name }

type panicObserver struct{}

func (panicObserver) OnEvent(context.Context, Event) { panic("boom") }
func (panicObserver) Name() string                   { return "panic" }

func TestMetricsObserver(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.OnEvent(ctx, Event{Type: OperationStarted, Operation: OpSplit})
	m.OnEvent(ctx, Event{Type: OperationCompleted, Operation: OpSplit, Duration: 30 * time.Millisecond})
	m.OnEvent(ctx, Event{Type: OperationStarted, Operation: OpDetect})
	m.OnEvent(ctx, Event{Type: OperationCompleted, Operation: OpDetect, Duration: 10 * time.Millisecond})
	m.OnEvent(ctx, Event{Type: OperationStarted, Operation: OpSplit})
	m.OnEvent(ctx, Event{Type: OperationFailed, Operation: OpSplit})
	m.OnEvent(ctx, Event{Type: CellsSaved, Metadata: map[string]interface{}{"count": 6}})

	got := m.Metrics()
	assert.Equal(t, int64(2), got.Started[OpSplit])
	assert.Equal(t, int64(1), got.Completed[OpSplit])
	assert.Equal(t, int64(1), got.Failed[OpSplit])
	assert.Equal(t, int64(1), got.Completed[OpDetect])
	assert.Equal(t, int64(6), got.CellsSaved)
	assert.Equal(t, 20*time.Millisecond, got.AvgProcessingTime)

	got.Started[OpSplit] = 100
	assert.Equal(t, int64(2), m.Metrics().Started[OpSplit])
}

func TestEventPublisher_NotifyAndUnsubscribe(t *testing.T) {
	p := NewEventPublisher()
	a := &chanObserver{name: "a", events: make(chan Event, 2)}
	b := &chanObserver{name: "b", events: make(chan Event, 2)}
	p.Subscribe(panicObserver{})
	p.Subscribe(a)
	p.Subscribe(b)

	p.Notify(context.Background(), Event{Type: SheetFetched, Source: "s"})

	for _, obs := range []*chanObserver{a, b} {
		select {
		case e := <-obs.events:
			assert.Equal(t, SheetFetched, e.Type)
			assert.False(t, e.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatalf("observer %s not notified", obs.name)
		}
	}

	p.Unsubscribe(&chanObserver{name: "a"})
	p.Notify(context.Background(), Event{Type: CellsSaved})

	select {
	case <-b.events:
	case <-time.After(time.Second):
		t.Fatal("observer b not notified")
	}
	select {
	case <-a.events:
		t.Fatal("unsubscribed observer notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	o := NewLoggingObserver(l)
	o.OnEvent(context.Background(), Event{
		Type:         OperationFailed,
		Operation:    OpSplit,
		Source:       "sheet.png",
		ErrorMessage: "margin: no pixels left",
		Metadata:     map[string]interface{}{"rows": 2},
	})

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"operation":"split"`)
	assert.Contains(t, out, `"rows":2`)
	assert.Contains(t, out, "margin: no pixels left")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEventPublisher_PanicLoggedThroughAppLogger(t *testing.T) {
	out := &lockedBuffer{}
	logger.Logger.SetOutput(out)
	defer logger.Logger.SetOutput(os.Stdout)

	p := NewEventPublisher()
	p.Subscribe(panicObserver{})
	p.Notify(context.Background(), Event{Type: OperationStarted, Operation: OpSplit})

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte(`"observer":"panic"`))
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), `"msg":"Observer panicked while handling event"`)
}
