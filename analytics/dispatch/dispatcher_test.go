package dispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optiview/partbench/analytics"
	"github.com/optiview/partbench/errors"
)

// syncDispatcher returns a dispatcher whose threshold is high enough that
// every test input computes on the calling goroutine; debounce and
// staleness behavior are identical on both paths.
func syncDispatcher(t *testing.T, debounce time.Duration) *Dispatcher {
	t.Helper()
	svc := NewService(testLogger())
	t.Cleanup(svc.Close)

	d := NewDispatcher(svc, Config{Threshold: 1 << 20, Debounce: debounce}, testLogger())
	t.Cleanup(d.Close)
	return d
}

func waitForResult(t *testing.T, d *Dispatcher) Result {
	t.Helper()
	select {
	case r := <-d.Results():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no result within timeout")
		return Result{}
	}
}

func TestDispatcherDeliversResult(t *testing.T) {
	d := syncDispatcher(t, 5*time.Millisecond)

	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(3)})

	r := waitForResult(t, d)
	require.NoError(t, r.Err)

	var env analytics.Envelope
	require.NoError(t, json.Unmarshal(r.Data, &env))
	assert.Equal(t, 12.0, env.Width.ValueMM)
}

func TestDispatcherDebouncesToLastInput(t *testing.T) {
	d := syncDispatcher(t, 50*time.Millisecond)

	// Three rapid inputs inside one debounce window; only the last computes
	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(2)})
	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(5)})
	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(8)})

	r := waitForResult(t, d)
	require.NoError(t, r.Err)
	assert.Equal(t, 8, len(r.Payload.Parts))

	// And nothing else arrives for the superseded inputs
	select {
	case extra := <-d.Results():
		t.Fatalf("unexpected extra result for %d parts", len(extra.Payload.Parts))
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDispatcherRunOnceBypassesDebounce(t *testing.T) {
	d := syncDispatcher(t, time.Hour)

	data, err := d.RunOnce(context.Background(), Payload{Kind: KindBias, Parts: testParts(2)})
	require.NoError(t, err)

	var report analytics.BiasReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.True(t, report.HasBias) // two parts → too-few-parts finding
}

func TestDispatcherRunOnceUnknownKind(t *testing.T) {
	d := syncDispatcher(t, time.Hour)

	_, err := d.RunOnce(context.Background(), Payload{Kind: "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownKind))
}

func TestDispatcherCloseCancelsPendingTimer(t *testing.T) {
	d := syncDispatcher(t, 50*time.Millisecond)

	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(3)})
	d.Close()

	// The debounce timer was cancelled; the closed channel yields no result
	_, open := <-d.Results()
	assert.False(t, open)
}

func TestDispatcherSubmitAfterCloseIsNoOp(t *testing.T) {
	d := syncDispatcher(t, time.Millisecond)
	d.Close()
	d.Submit(Payload{Kind: KindEnvelope, Parts: testParts(3)})
}

func TestDispatcherFallsBackWhenServiceClosed(t *testing.T) {
	// Force the background path with a tiny threshold, then close the
	// service underneath the dispatcher: the worker channel error must
	// trigger the synchronous fallback, not surface to the caller.
	svc := NewService(testLogger())
	svc.Close()

	d := NewDispatcher(svc, Config{Threshold: 1, Debounce: time.Millisecond}, testLogger())
	defer d.Close()

	if !backgroundAvailable() {
		t.Skip("background execution unavailable on this host; fallback path not reachable")
	}

	data, err := d.RunOnce(context.Background(), Payload{Kind: KindEnvelope, Parts: testParts(3)})
	require.NoError(t, err)

	var env analytics.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 12.0, env.Width.ValueMM)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500, cfg.Threshold)
	assert.Equal(t, 100*time.Millisecond, cfg.Debounce)

	// Zero fields fall back to defaults at construction
	svc := NewService(testLogger())
	defer svc.Close()
	d := NewDispatcher(svc, Config{}, testLogger())
	defer d.Close()
	assert.Equal(t, 500, d.cfg.Threshold)
	assert.Equal(t, 100*time.Millisecond, d.cfg.Debounce)
}
