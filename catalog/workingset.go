package catalog

import (
	"crypto/sha256"
	"strings"

	"github.com/mr-tron/base58"
)

// Select filters a catalog down to the parts named in the working set,
// preserving catalog order. The callout set is owned by the caller and is
// never mutated; an empty set selects nothing.
func Select(parts []Part, callouts []string) []Part {
	if len(callouts) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(callouts))
	for _, c := range callouts {
		wanted[c] = struct{}{}
	}

	selected := make([]Part, 0, len(callouts))
	for _, p := range parts {
		if _, ok := wanted[p.Callout]; ok {
			selected = append(selected, p)
		}
	}
	return selected
}

// Fingerprint returns a short, log-friendly digest of a working set's
// callouts. Used to tag dispatcher log lines so stale results can be traced
// back to the input that produced them.
func Fingerprint(parts []Part) string {
	if len(parts) == 0 {
		return "empty"
	}

	callouts := make([]string, len(parts))
	for i := range parts {
		callouts[i] = parts[i].Callout
	}

	sum := sha256.Sum256([]byte(strings.Join(callouts, "\x00")))
	return base58.Encode(sum[:8])
}
