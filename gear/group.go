package gear

import "math"

// Compatible reports whether a and b can be cut by the same rack: equal
// module, pressure angles and helix angle by magnitude, tooth height and
// clearance coefficients and profile shift within Tolerance.
//
// Compatible is symmetric and reflexive but not transitive. Chains of
// values each within tolerance of the next may span more than it.
func Compatible(a, b Parameters) bool {
	return within(a.M, b.M) &&
		within(a.AlphaT, b.AlphaT) &&
		within(math.Abs(a.AlphaN), math.Abs(b.AlphaN)) &&
		within(math.Abs(a.Beta), math.Abs(b.Beta)) &&
		within(a.HaStar, b.HaStar) &&
		within(a.CStar, b.CStar) &&
		within(a.X, b.X)
}

func within(a, b float64) bool { return math.Abs(a-b) < Tolerance }

// Group partitions params into sets of mutually rack compatible gears.
// The first unassigned gear of a pass leads a new group and collects every
// later unassigned gear compatible with it. Members are compared with the
// leader only so the result depends on input order. Indices within a group
// are ascending and groups are ordered by their leader.
func Group(params []Parameters) [][]int {
	groups := [][]int{}
	used := make([]bool, len(params))
	for i := range params {
		if used[i] {
			continue
		}
		used[i] = true
		group := []int{i}
		for j := i + 1; j < len(params); j++ {
			if !used[j] && Compatible(params[i], params[j]) {
				used[j] = true
				group = append(group, j)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
