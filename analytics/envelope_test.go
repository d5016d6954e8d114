package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optiview/partbench/catalog"
)

func TestComputeEnvelopeEmpty(t *testing.T) {
	assert.Nil(t, ComputeEnvelope(nil))
	assert.Nil(t, ComputeEnvelope([]catalog.Part{}))
}

func TestComputeEnvelopeMaximaAndDrivers(t *testing.T) {
	parts := []catalog.Part{
		{Callout: "A", WidthMM: 10, HeightMM: 9, LengthMM: 100},
		{Callout: "B", WidthMM: 30, HeightMM: 2, LengthMM: 50},
		{Callout: "C", WidthMM: 20, HeightMM: 7, LengthMM: 80},
	}

	env := ComputeEnvelope(parts)
	require.NotNil(t, env)

	assert.Equal(t, 30.0, env.Width.ValueMM)
	assert.Equal(t, "B", env.Width.Callout)
	assert.Equal(t, 9.0, env.Height.ValueMM)
	assert.Equal(t, "A", env.Height.Callout)
	assert.Equal(t, 100.0, env.Length.ValueMM)
	assert.Equal(t, "A", env.Length.Callout)
}

func TestComputeEnvelopeTieGoesToFirstInInputOrder(t *testing.T) {
	parts := []catalog.Part{
		{Callout: "A", WidthMM: 30, HeightMM: 1, LengthMM: 1},
		{Callout: "B", WidthMM: 30, HeightMM: 1, LengthMM: 1},
	}

	env := ComputeEnvelope(parts)
	require.NotNil(t, env)
	assert.Equal(t, "A", env.Width.Callout)
	assert.Equal(t, "A", env.Height.Callout)
}

func TestComputeEnvelopeSinglePart(t *testing.T) {
	parts := []catalog.Part{{ID: "part-9", Callout: "Z", WidthMM: 4, HeightMM: 5, LengthMM: 6}}

	env := ComputeEnvelope(parts)
	require.NotNil(t, env)
	assert.Equal(t, "part-9", env.Width.PartID)
	assert.Equal(t, 4.0, env.Width.ValueMM)
	assert.Equal(t, 5.0, env.Height.ValueMM)
	assert.Equal(t, 6.0, env.Length.ValueMM)
}
