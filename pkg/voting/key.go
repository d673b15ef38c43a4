package voting

import "github.com/openvote/ovnet/pkg/curve"

// ReconstructedKey derives voter i's reconstructed key H_i from the
// ordered list of voting keys, per §4.4:
//
//	H_i = (sum_{j<i} X_j) - (sum_{j>i} X_j)
//
// keys must be in the insertion order produced by Registration and
// identical across every caller; the protocol's self-tallying
// property depends on it (§9).
func ReconstructedKey(keys []curve.Point, i int) curve.Point {
	before := curve.Identity()
	for j := 0; j < i; j++ {
		before = before.Add(keys[j])
	}
	after := curve.Identity()
	for j := i + 1; j < len(keys); j++ {
		after = after.Add(keys[j])
	}
	return before.Sub(after)
}
