package engine

import "github.com/hailam/checkersplay/internal/board"

// Infinity is the score of a lost position for the evaluated side.
// Scores are ratios of opponent material to own material, so lower is
// better for the side being evaluated and 0 is a won position.
const Infinity = 1e9

// Queen weights per scoring mode.
const (
	queenWeight          = 4
	queenWeightPotential = 5
	potentialStep        = 0.05
)

// Evaluate scores b from the point of view of color c.
//
// The result is opponent material divided by own material, queens
// weighted by queenWeight (or queenWeightPotential). With
// NumberAndPotential every man is worth an extra potentialStep per row
// it has advanced from its own back row. A side with no material left
// has lost: Infinity when it is c, 0 when it is the opponent.
func Evaluate(b board.Board, c board.Color, mode ScoringMode) float64 {
	var men, queens [2]float64
	potential := mode == NumberAndPotential

	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			p := b[x][y]
			switch p {
			case board.WhiteMan:
				men[board.White]++
				if potential {
					men[board.White] += potentialStep * float64(board.Size-1-x)
				}
			case board.BlackMan:
				men[board.Black]++
				if potential {
					men[board.Black] += potentialStep * float64(x)
				}
			case board.WhiteQueen:
				queens[board.White]++
			case board.BlackQueen:
				queens[board.Black]++
			}
		}
	}

	coef := float64(queenWeight)
	if potential {
		coef = queenWeightPotential
	}

	us, them := c, c.Other()
	if men[us]+queens[us] == 0 {
		return Infinity
	}
	if men[them]+queens[them] == 0 {
		return 0
	}
	return (men[them] + queens[them]*coef) / (men[us] + queens[us]*coef)
}
