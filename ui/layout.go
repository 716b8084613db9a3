package ui

import "github.com/ckgxrg/dwsh/session"

// Button geometry in terminal cells. Each button is a bordered box holding
// the label and its key hint.
const (
	buttonInner  = 12
	buttonWidth  = buttonInner + 2
	buttonHeight = 4
	buttonGap    = 1

	// rows reserved above the buttons: status bar, label and spacing
	headerRows = 3
)

type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// layout places one button per action on a single centered row.
type layout struct {
	buttons map[session.Action]rect
	left    int
	top     int
}

func newLayout(width, height int) layout {
	n := len(session.Actions)
	total := n*buttonWidth + (n-1)*buttonGap

	left := max((width-total)/2, 0)
	top := max((height-buttonHeight)/2, headerRows)

	l := layout{
		buttons: make(map[session.Action]rect, n),
		left:    left,
		top:     top,
	}
	for i, a := range session.Actions {
		l.buttons[a] = rect{
			X: left + i*(buttonWidth+buttonGap),
			Y: top,
			W: buttonWidth,
			H: buttonHeight,
		}
	}
	return l
}

// hitTest returns the action under (x, y). Anything outside a button is the
// background, which selects None.
func (l layout) hitTest(x, y int) session.Action {
	for a, r := range l.buttons {
		if r.contains(x, y) {
			return a
		}
	}
	return session.None
}
