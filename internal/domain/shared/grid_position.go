package shared

import "fmt"

// GridPosition is an immutable cell coordinate on the placement grid.
// Together with a building id it identifies one construction project:
// ids alone are not unique because two buildings of the same type can be
// under construction at different positions simultaneously.
type GridPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewGridPosition creates a grid position value object
func NewGridPosition(x, y int) GridPosition {
	return GridPosition{X: x, Y: y}
}

func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
