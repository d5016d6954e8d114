package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPreservesCatalogOrder(t *testing.T) {
	parts := []Part{
		{Callout: "A"},
		{Callout: "B"},
		{Callout: "C"},
		{Callout: "D"},
	}

	// Working set order must not matter; catalog order wins
	selected := Select(parts, []string{"D", "B"})

	assert.Len(t, selected, 2)
	assert.Equal(t, "B", selected[0].Callout)
	assert.Equal(t, "D", selected[1].Callout)
}

func TestSelectEmptyAndUnknownCallouts(t *testing.T) {
	parts := []Part{{Callout: "A"}}

	assert.Nil(t, Select(parts, nil))
	assert.Empty(t, Select(parts, []string{"ZZZ"}))
}

func TestSelectDoesNotMutateInputs(t *testing.T) {
	parts := []Part{{Callout: "A"}, {Callout: "B"}}
	callouts := []string{"B", "A"}

	Select(parts, callouts)

	assert.Equal(t, []string{"B", "A"}, callouts)
	assert.Equal(t, "A", parts[0].Callout)
}

func TestFingerprint(t *testing.T) {
	a := []Part{{Callout: "A"}, {Callout: "B"}}
	b := []Part{{Callout: "A"}, {Callout: "B"}}
	c := []Part{{Callout: "B"}, {Callout: "A"}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Equal(t, "empty", Fingerprint(nil))
}
