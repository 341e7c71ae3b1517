package geometry

import "fmt"

// Edge is one of the four screen borders.
type Edge int

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

// NumEdges is the number of screen edges.
const NumEdges = 4

// Edges lists every edge in snapshot storage order.
var Edges = [NumEdges]Edge{Top, Bottom, Left, Right}

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// ParseEdge maps a configuration name to an Edge.
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid edge %q: expected top, bottom, left or right", s)
}

// Horizontal reports whether the edge runs along the x axis.
func (e Edge) Horizontal() bool {
	return e == Top || e == Bottom
}
