package usecase

import "math/rand"

// CarbonEstimator produces the carbon savings, in grams, attributed to one
// completed exchange. It is injected so the placeholder policy below can be
// replaced by a real computation without touching the aggregation logic.
type CarbonEstimator interface {
	Estimate() int
}

type randomCarbonEstimator struct{}

// NewRandomCarbonEstimator returns the launch policy: a uniform random
// quantity between 1 and 50 grams per exchange.
func NewRandomCarbonEstimator() CarbonEstimator {
	return randomCarbonEstimator{}
}

func (randomCarbonEstimator) Estimate() int {
	return rand.Intn(50) + 1
}
