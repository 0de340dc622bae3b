package chat

import "github.com/cuentaescolar133-star/Cat.planner/internal/state"

// avatar renders the ASCII cat with the current accessory.
func avatar(a state.Accessory) string {
	face := "( o.o )"
	if a == state.AccessoryGlasses {
		face = "( 0-0 )"
	}

	top := "  /\\_/\\  "
	if a == state.AccessoryHat {
		top = "  _|=|_  \n  /\\_/\\  "
	}

	bottom := "  > ^ <  "
	if a == state.AccessoryBowTie {
		bottom = "  >}x{<  "
	}

	return top + "\n " + face + " \n" + bottom
}
