// Package dispatch decides, per invocation, whether an analytics
// calculation runs on the caller's goroutine or on a background worker.
//
// The Service owns a single long-lived worker and a request/response
// correlation map; Dispatcher wraps one calculation kind with debouncing
// and a staleness guard so rapid working-set edits never surface an
// out-of-order result. Both run the same pure functions from the analytics
// package; a worker failure falls back to the synchronous path before any
// error reaches the caller.
package dispatch

import (
	"encoding/json"

	"github.com/optiview/partbench/analytics"
	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/errors"
)

// Computation kinds routable through the worker protocol.
const (
	KindAggregateStats  = "aggregate_stats"
	KindBoxPlot         = "boxplot"
	KindBoxPlotBySeries = "boxplot_by_series"
	KindBoxPlotByFamily = "boxplot_by_family"
	KindZScoreOutliers  = "zscore_outliers"
	KindBias            = "bias"
	KindZoneAggregate   = "zone_aggregate"
	KindFaceAggregate   = "face_aggregate"
	KindEnvelope        = "envelope"
)

// Payload names a computation kind and carries its kind-specific inputs.
// Exactly one of Parts or Observations is populated depending on the kind;
// Dimension and Face qualify the kinds that need them.
type Payload struct {
	Kind         string                  `json:"kind"`
	Parts        []catalog.Part          `json:"parts,omitempty"`
	Observations []analytics.Observation `json:"observations,omitempty"`
	Dimension    catalog.Dimension       `json:"dimension,omitempty"`
	Face         catalog.Face            `json:"face,omitempty"`
}

// Size reports the element count the dispatcher weighs against its
// synchronous threshold.
func (p *Payload) Size() int {
	if len(p.Observations) > 0 {
		return len(p.Observations)
	}
	return len(p.Parts)
}

// Request is the wire envelope sent to the worker.
type Request struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"` // always "request"
	Payload Payload `json:"payload"`
}

// ErrorInfo is the serialized form of a worker-side failure.
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Response is the wire envelope returned by the worker: exactly one per
// request id, carrying either a result or an error.
type Response struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"` // "result" or "error"
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorInfo      `json:"error,omitempty"`
}

// Response types.
const (
	ResponseResult = "result"
	ResponseError  = "error"
)

// Compute executes a payload's calculation synchronously. This is the
// single pure entry point shared by the worker, the synchronous fast path,
// and the fallback-after-worker-failure path, so all three agree exactly.
func Compute(p Payload) (any, error) {
	switch p.Kind {
	case KindAggregateStats:
		return analytics.AggregateStats(p.Parts), nil
	case KindBoxPlot:
		obs := p.Observations
		if obs == nil && p.Parts != nil {
			obs = analytics.ObservationsFor(p.Parts, p.Dimension)
		}
		return analytics.BoxPlot(obs), nil
	case KindBoxPlotBySeries:
		return analytics.BoxPlotBySeries(p.Parts, p.Dimension), nil
	case KindBoxPlotByFamily:
		return analytics.BoxPlotByFamily(p.Parts, p.Dimension), nil
	case KindZScoreOutliers:
		return analytics.ZScoreOutliersByDimension(p.Parts), nil
	case KindBias:
		return analytics.DetectBias(p.Parts), nil
	case KindZoneAggregate:
		return analytics.AggregateZones(p.Parts), nil
	case KindFaceAggregate:
		return analytics.AggregateFace(p.Parts, p.Face), nil
	case KindEnvelope:
		return analytics.ComputeEnvelope(p.Parts), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownKind, "kind %q", p.Kind)
	}
}

// Kinds lists every routable computation kind.
func Kinds() []string {
	return []string{
		KindAggregateStats,
		KindBoxPlot,
		KindBoxPlotBySeries,
		KindBoxPlotByFamily,
		KindZScoreOutliers,
		KindBias,
		KindZoneAggregate,
		KindFaceAggregate,
		KindEnvelope,
	}
}
