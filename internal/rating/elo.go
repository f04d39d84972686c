package rating

import "math"

// ExpectedScore returns A's expected score against B
func ExpectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}

// ActualScore maps final scores to A's result: 1 win, 0 loss, 0.5 draw
func ActualScore(scoreA, scoreB float64) float64 {
	switch {
	case scoreA > scoreB:
		return 1.0
	case scoreA < scoreB:
		return 0.0
	default:
		return 0.5
	}
}

// Delta returns the points A gains (negative when A loses points). B moves
// by exactly the opposite amount.
func Delta(k, ra, rb, actualA float64) float64 {
	return k * (actualA - ExpectedScore(ra, rb))
}
