package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/optiview/partbench/analytics"
	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/errors"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func testParts(n int) []catalog.Part {
	parts := make([]catalog.Part, n)
	for i := range parts {
		parts[i] = catalog.Part{
			Callout:                  "P" + string(rune('0'+i%10)),
			WidthMM:                  float64(10 + i),
			HeightMM:                 float64(5 + i),
			LengthMM:                 float64(20 + i),
			SmallestLateralFeatureUM: 50,
		}
	}
	return parts
}

func TestServiceSubmitRoundTrip(t *testing.T) {
	svc := NewService(testLogger())
	defer svc.Close()

	data, err := svc.Submit(context.Background(), Payload{
		Kind:  KindEnvelope,
		Parts: testParts(3),
	})
	require.NoError(t, err)

	var env analytics.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 12.0, env.Width.ValueMM)
}

func TestServiceUnknownKind(t *testing.T) {
	svc := NewService(testLogger())
	defer svc.Close()

	_, err := svc.Submit(context.Background(), Payload{Kind: "nonsense"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrComputeFailed))
}

func TestServiceSubmitAfterClose(t *testing.T) {
	svc := NewService(testLogger())
	svc.Close()

	_, err := svc.Submit(context.Background(), Payload{Kind: KindBias, Parts: testParts(2)})
	require.Error(t, err)
	assert.True(t, errors.IsServiceClosedError(err))
}

func TestServiceCloseIsIdempotent(t *testing.T) {
	svc := NewService(testLogger())
	svc.Close()
	svc.Close()
}

func TestServiceContextCancellation(t *testing.T) {
	svc := NewService(testLogger())
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, Payload{Kind: KindBias, Parts: testParts(2)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestServiceConcurrentSubmitsCorrelate(t *testing.T) {
	svc := NewService(testLogger())
	defer svc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		n := 3 + i
		go func() {
			defer wg.Done()
			data, err := svc.Submit(context.Background(), Payload{
				Kind:  KindAggregateStats,
				Parts: testParts(n),
			})
			if !assert.NoError(t, err) {
				return
			}

			var agg analytics.PartAggregate
			if !assert.NoError(t, json.Unmarshal(data, &agg)) {
				return
			}
			// Each reply must match its own request's part count
			assert.Equal(t, n, agg.Width.Count)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent submits did not complete")
	}
}
