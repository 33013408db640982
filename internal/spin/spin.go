package spin

import (
	"math/rand"
)

type PrizeType string

const (
	PrizeSolana PrizeType = "SOL"
	PrizeMusky  PrizeType = "MUSKY"
	PrizeEnergy PrizeType = "ENERGY"
)

type Prize struct {
	Type   PrizeType `json:"type"`
	Amount float64   `json:"amount"`
}

// Entry pairs a prize with its draw probability. Table order is significant:
// selection walks entries in order accumulating probability mass.
type Entry struct {
	Prize       Prize
	Probability float64
}

// Table is the fixed prize table. Probabilities sum to less than 1; the
// remaining mass falls through to the consolation prize.
var Table = []Entry{
	{Prize{PrizeSolana, 1.0}, 0.001},
	{Prize{PrizeSolana, 0.5}, 0.005},
	{Prize{PrizeMusky, 5000}, 0.01},
	{Prize{PrizeMusky, 2000}, 0.03},
	{Prize{PrizeMusky, 1000}, 0.05},
	{Prize{PrizeEnergy, 50}, 0.1},
}

var Consolation = Prize{PrizeMusky, 100}

// Select picks the first entry whose cumulative probability meets or exceeds
// roll, which must be in [0, 1). Rolls past the table's total mass yield the
// consolation prize.
func Select(roll float64) Prize {
	cumulative := 0.0
	for _, entry := range Table {
		cumulative += entry.Probability
		if roll <= cumulative {
			return entry.Prize
		}
	}
	return Consolation
}

// Draw selects a prize with a uniform roll from src.
func Draw(src *rand.Rand) Prize {
	return Select(src.Float64())
}
