package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/logger"
)

const testCatalog = `{
  "schemaVersion": "1.0.0",
  "parts": [
    {"callout": "A-100", "series": "Alpha", "width_mm": 10, "height_mm": 5, "length_mm": 20},
    {"callout": "A-101", "series": "Alpha", "width_mm": 12, "height_mm": 6, "length_mm": 22},
    {"callout": "B-205", "series": "Beta", "width_mm": 30, "height_mm": 8, "length_mm": 40}
  ]
}`

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))
	return path
}

func TestLoadWorkingSetSelectsCallouts(t *testing.T) {
	path := writeTestCatalog(t)

	parts, fingerprint, err := loadWorkingSet(context.Background(), path, []string{"A-100", "B-205"})
	require.NoError(t, err)

	require.Len(t, parts, 2)
	assert.Equal(t, "A-100", parts[0].Callout)
	assert.Equal(t, "B-205", parts[1].Callout)
	assert.NotEmpty(t, fingerprint)
	assert.NotEqual(t, "empty", fingerprint)
}

func TestLoadWorkingSetNoMatches(t *testing.T) {
	path := writeTestCatalog(t)

	_, _, err := loadWorkingSet(context.Background(), path, []string{"Z-999"})
	assert.Error(t, err)
}

func TestLoadWorkingSetNoSource(t *testing.T) {
	_, _, err := loadWorkingSet(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	path := writeTestCatalog(t)

	parts, _, err := loadWorkingSet(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	svc := dispatch.NewService(logger.Logger)
	defer svc.Close()
	d := dispatch.NewDispatcher(svc, dispatch.Config{Threshold: 1 << 20}, logger.Logger)
	defer d.Close()

	report, err := buildReport(context.Background(), d, parts)
	require.NoError(t, err)

	assert.Equal(t, 3, report.PartCount)
	assert.Equal(t, 3, report.Aggregate.Width.Count)
	assert.InDelta(t, 52.0/3.0, report.Aggregate.Width.Mean, 1e-9)

	// Two series groups, sorted by label
	require.Len(t, report.BySeries, 2)
	assert.Equal(t, "Alpha", report.BySeries[0].Label)
	assert.Equal(t, "Beta", report.BySeries[1].Label)

	require.NotNil(t, report.Envelope)
	assert.Equal(t, "B-205", report.Envelope.Width.Callout)
	assert.Equal(t, 30.0, report.Envelope.Width.ValueMM)
}
