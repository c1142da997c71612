package game

import "fmt"

// Colour is the colour of a stone on a board. In two player board games it doubles as the player.
type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 's': // used in board games
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		}
	default: // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		default:
			fmt.Fprintf(s, "Colour(%d)", int32(cl))
		}
	}
}

// Opponent returns the other player. None has no opponent.
func (cl Colour) Opponent() Colour {
	switch cl {
	case Black:
		return White
	case White:
		return Black
	}
	panic("Unreachable")
}

// RewardFor scores an outcome from the point of view of cl: a win is 1, a loss is 0 and a draw is worth half.
func (cl Colour) RewardFor(o Outcome) float32 {
	switch o.Winner {
	case None:
		return 0.5
	case cl:
		return 1
	}
	return 0
}
