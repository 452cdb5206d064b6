package scoring

import (
	"sort"

	"github.com/cory-johannsen/thirty/internal/game/dice"
)

func sumLow(dd []*dice.Die) int {
	sum := 0
	for _, d := range dd {
		if d.Value() <= lowTarget {
			sum += d.Value()
		}
	}
	return sum
}

// resolveTarget repeatedly takes the first exact-sum subset of the remaining
// dice, consuming it, until none is left. It returns target times the number
// of subsets taken.
func resolveTarget(dd []*dice.Die, target int) int {
	order := descending(dd)
	points := 0
	for {
		subset := firstSubset(dd, order, target)
		if subset == nil {
			return points
		}
		for _, i := range subset {
			dd[i].Consume()
		}
		points += target
	}
}

// descending returns die indices ordered by value, highest first. Equal
// values keep their positional order.
func descending(dd []*dice.Die) []int {
	order := make([]int, len(dd))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dd[order[a]].Value() > dd[order[b]].Value()
	})
	return order
}

// firstSubset runs a depth-first search over unconsumed dice in the given
// order and returns the indices of the first subset summing to target, or
// nil. Each level only extends with dice later in order than the last one
// taken, so every candidate subset is visited once.
func firstSubset(dd []*dice.Die, order []int, target int) []int {
	subset := make([]int, 0, len(order))

	var search func(from, sum int) bool
	search = func(from, sum int) bool {
		if sum == target {
			return true
		}
		for k := from; k < len(order); k++ {
			d := dd[order[k]]
			if d.Consumed() || sum+d.Value() > target {
				continue
			}
			subset = append(subset, order[k])
			if search(k+1, sum+d.Value()) {
				return true
			}
			subset = subset[:len(subset)-1]
		}
		return false
	}

	if !search(0, 0) {
		return nil
	}
	return subset
}
