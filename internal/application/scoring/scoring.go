// Package scoring resolves a banked multiset of animal types into a
// poker-style combination and payout. Everything here is pure: no state,
// no dependence on input order.
package scoring

import "sort"

// Combination is the poker-style rank of a banked stack.
type Combination string

const (
	None         Combination = "none"
	Pair         Combination = "pair"
	TwoPair      Combination = "two_pair"
	ThreeOfAKind Combination = "three_of_a_kind"
	Straight     Combination = "straight"
	FullHouse    Combination = "full_house"
	FourOfAKind  Combination = "four_of_a_kind"
	FiveOfAKind  Combination = "five_of_a_kind"
)

// baseScores are fixed per combination; the weight bonus scales them.
var baseScores = map[Combination]float64{
	None:         0,
	Pair:         50,
	TwoPair:      100,
	ThreeOfAKind: 150,
	Straight:     200,
	FullHouse:    250,
	FourOfAKind:  300,
	FiveOfAKind:  500,
}

// MinBankSize is the smallest multiset worth anything.
const MinBankSize = 2

// Result is the boxed outcome of a combination check, consumed by the
// session and UI layers.
type Result struct {
	Combination Combination
	Score       float64
	WeightBonus float64
}

// BaseScore returns the unscaled payout for a combination.
func BaseScore(c Combination) float64 {
	return baseScores[c]
}

// DetectCombination classifies a multiset of entity types and computes its
// payout. weightOf maps a type to its 0..1 weight (nil means weightless).
// Total over any input, including empty; order never matters.
func DetectCombination(types []string, weightOf func(string) float64) Result {
	combo := classify(types)

	bonus := 0.5
	if len(types) > 0 {
		sum := 0.0
		if weightOf != nil {
			for _, t := range types {
				sum += weightOf(t)
			}
		}
		avg := sum / float64(len(types))
		bonus = 0.5 + avg*0.5
	}

	return Result{
		Combination: combo,
		Score:       baseScores[combo] * bonus,
		WeightBonus: bonus,
	}
}

// classify resolves the combination in strict priority order.
func classify(types []string) Combination {
	if len(types) < MinBankSize {
		return None
	}

	byType := make(map[string]int, len(types))
	for _, t := range types {
		byType[t]++
	}

	counts := make([]int, 0, len(byType))
	for _, n := range byType {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	distinct := len(counts)
	top := counts[0]
	second := 0
	if distinct > 1 {
		second = counts[1]
	}

	switch {
	case top >= 5:
		return FiveOfAKind
	case top >= 4:
		return FourOfAKind
	case top >= 3 && second >= 2:
		return FullHouse
	case distinct >= 5:
		return Straight
	case top >= 3:
		return ThreeOfAKind
	case top >= 2 && second >= 2:
		return TwoPair
	case top >= 2:
		return Pair
	}
	return None
}
