package analysis

import (
	"strings"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Point is one (angle, angular velocity) pair in phase space.
type Point struct{ X, Y float64 }

// PhasePortrait holds the (theta, omega) path of a trajectory.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait samples at most maxPoints points from traj.
func NewPhasePortrait(traj *dynamo.Trajectory, maxPoints int) *PhasePortrait {
	d := traj.Decimate(maxPoints)
	portrait := &PhasePortrait{Points: make([]Point, d.Len())}
	for i := range portrait.Points {
		portrait.Points[i] = Point{X: d.Angles[i], Y: d.Omegas[i]}
	}
	return portrait
}

// ToASCII renders the portrait with early, middle and late samples drawn
// as '.', 'o' and '●'.
func (pp *PhasePortrait) ToASCII(width, height int) string {
	if pp == nil || len(pp.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := pp.Points[0].X, pp.Points[0].X
	minY, maxY := pp.Points[0].Y, pp.Points[0].Y

	for _, p := range pp.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Axes first so samples draw over them.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	n := len(pp.Points)
	for i, p := range pp.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < n/3:
			canvas[row][col] = '.'
		case i < 2*n/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
