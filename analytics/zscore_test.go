package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optiview/partbench/catalog"
)

func widthParts(widths ...float64) []catalog.Part {
	parts := make([]catalog.Part, len(widths))
	for i, w := range widths {
		parts[i] = catalog.Part{Callout: string(rune('A' + i)), WidthMM: w, HeightMM: 1, LengthMM: 1}
	}
	return parts
}

func TestZScoreOutliersSingleExtreme(t *testing.T) {
	// Nine parts at width 10 and one at 100: mean 19, σ 27, so only the
	// 100mm part exceeds 2σ
	parts := widthParts(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)

	outliers := ZScoreOutliers(parts, catalog.DimensionWidth)

	require.Len(t, outliers, 1)
	assert.Equal(t, 100.0, outliers[0].Value)
	assert.InDelta(t, 19.0, outliers[0].Mean, 1e-12)
	assert.InDelta(t, 27.0, outliers[0].StdDev, 1e-12)
	assert.True(t, outliers[0].ZScore > 2)
}

func TestZScoreOutliersRequiresThreeParts(t *testing.T) {
	assert.Nil(t, ZScoreOutliers(widthParts(10, 100), catalog.DimensionWidth))
	assert.Nil(t, ZScoreOutliers(widthParts(100), catalog.DimensionWidth))
	assert.Nil(t, ZScoreOutliers(nil, catalog.DimensionWidth))
}

func TestZScoreOutliersZeroSpread(t *testing.T) {
	assert.Nil(t, ZScoreOutliers(widthParts(5, 5, 5, 5), catalog.DimensionWidth))
}

func TestZScoreExactlyTwoSigmaIsNotAnOutlier(t *testing.T) {
	// {2,4,4,4,5,5,7,9} has mean 5 and population σ 2, so the 9 deviates
	// by exactly 2σ and must not flag under the strict inequality.
	parts := widthParts(2, 4, 4, 4, 5, 5, 7, 9)

	assert.Empty(t, ZScoreOutliers(parts, catalog.DimensionWidth))
}

func TestZScoreOutliersByDimension(t *testing.T) {
	parts := widthParts(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)
	// Make one part a length outlier as well
	parts[3].LengthMM = 50

	byDim := ZScoreOutliersByDimension(parts)

	require.Len(t, byDim, 3)
	assert.Len(t, byDim[catalog.DimensionWidth], 1)
	assert.Empty(t, byDim[catalog.DimensionHeight])
	assert.Len(t, byDim[catalog.DimensionLength], 1)
}

func TestCombinedOutlierCallouts(t *testing.T) {
	parts := widthParts(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)
	parts[3].LengthMM = 50

	callouts := CombinedOutlierCallouts(ZScoreOutliersByDimension(parts))

	// De-duplicated across dimensions, sorted
	assert.Equal(t, []string{"D", "J"}, callouts)
}

func TestCombinedOutlierCalloutsDeduplicates(t *testing.T) {
	parts := widthParts(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)
	// The same part is an outlier on two dimensions
	parts[9].LengthMM = 50

	callouts := CombinedOutlierCallouts(ZScoreOutliersByDimension(parts))
	assert.Equal(t, []string{"J"}, callouts)
}
