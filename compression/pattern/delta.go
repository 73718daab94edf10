package pattern

import "log"

// MaxLevel is the deepest delta level in the catalog.
const MaxLevel = 3

// levelPrefix names the patterns of each level.
var levelPrefix = [MaxLevel + 1]string{"B", "I", "J", "K"}

// MatchLevel tests the predicate against the word XORed with every
// combination of level distinct window entries. Level 0 tests the word
// itself. Entries are picked by position, so equal values at different
// positions count as distinct entries.
func MatchLevel(pred Predicate, level int, window []uint64, word uint64) bool {
	if level < 0 || level > MaxLevel {
		log.Panicf("delta level %d out of range", level)
	}

	if level == 0 {
		return pred.Evaluate(word)
	}

	return matchCombination(pred, window, 0, level, word)
}

func matchCombination(
	pred Predicate,
	window []uint64,
	start, remaining int,
	acc uint64,
) bool {
	if remaining == 0 {
		return pred.Evaluate(acc)
	}

	for i := start; i <= len(window)-remaining; i++ {
		if matchCombination(pred, window, i+1, remaining-1, acc^window[i]) {
			return true
		}
	}

	return false
}
