package progress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func TestReporterMonotonic(t *testing.T) {
	rec := &recorder{}
	r := NewReporter("job1", rec)

	r.Progress(0.1, "start")
	r.Progress(0.5, "half")
	r.Progress(0.3, "backwards")
	r.Status("working")
	r.Progress(1.7, "overshoot")
	r.Done("ok")

	var fracs []float64
	for _, e := range rec.events {
		assert.Equal(t, "job1", e.JobID)
		fracs = append(fracs, e.Fraction)
	}
	assert.Equal(t, []float64{0.1, 0.5, 0.5, 0.5, 1, 1}, fracs)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, KindDone, last.Kind)
	assert.Equal(t, 1.0, last.Fraction)
}

func TestReporterNegativeStart(t *testing.T) {
	rec := &recorder{}
	r := NewReporter("", rec)
	r.Progress(-1, "")
	assert.Equal(t, 0.0, rec.events[0].Fraction)
}

func TestReporterStopsAfterTerminal(t *testing.T) {
	rec := &recorder{}
	r := NewReporter("", rec)
	r.Progress(0.4, "")
	r.Fail(errors.New("boom"))
	r.Progress(0.9, "late")
	r.Done("late")

	require.Len(t, rec.events, 2)
	assert.Equal(t, KindFailed, rec.events[1].Kind)
	assert.Equal(t, "boom", rec.events[1].Message)
	assert.Equal(t, 0.4, rec.events[1].Fraction)
	assert.True(t, rec.events[1].Terminal())
}

func TestChanSinkAndTee(t *testing.T) {
	ch := make(chan Event, 4)
	rec := &recorder{}
	r := NewReporter("j", Tee(ChanSink(ch), nil, rec))
	r.Warn("careful")

	e := <-ch
	assert.Equal(t, KindWarning, e.Kind)
	assert.Equal(t, "careful", e.Message)
	assert.Len(t, rec.events, 1)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) (Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var e Event
	err := wsjson.Read(ctx, conn, &e)
	return e, err
}

func TestHubReplaysAndStreams(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := NewReporter("job", hub)
	r.Progress(0.1, "validate")
	r.Progress(0.5, "skins")

	conn := dial(t, srv)
	for _, want := range []float64{0.1, 0.5} {
		e, err := read(t, conn)
		require.NoError(t, err)
		assert.Equal(t, want, e.Fraction)
		assert.Equal(t, "job", e.JobID)
	}

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	r.Done("packed")
	e, err := read(t, conn)
	require.NoError(t, err)
	assert.Equal(t, KindDone, e.Kind)

	hub.Close()
	_, err = read(t, conn)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestHubLateClientAfterClose(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	NewReporter("job", hub).Done("ok")
	hub.Close()

	conn := dial(t, srv)
	e, err := read(t, conn)
	require.NoError(t, err)
	assert.Equal(t, KindDone, e.Kind)
	_, err = read(t, conn)
	assert.Error(t, err)
	assert.Zero(t, hub.Clients())
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	dialFrom := func(origin string) (*websocket.Conn, *http.Response, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), &websocket.DialOptions{
			HTTPHeader: http.Header{"Origin": []string{origin}},
		})
	}

	_, resp, err := dialFrom("http://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialFrom("http://localhost:5173")
	require.NoError(t, err)
	conn.Close(websocket.StatusNormalClosure, "")
}
