package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Braille cells are 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set lights the dot at (x, y) in dot coordinates, (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// OrbitMap projects every body's path onto the (ax, ay) position axes and
// draws it on a w x h cell canvas. The plot keeps a 1:1 aspect ratio so
// circular orbits stay circular.
func OrbitMap(traj dynamo.Trajectory, ax, ay, w, h int) (string, error) {
	if ax < 0 || ax >= dynamo.Dim || ay < 0 || ay >= dynamo.Dim || ax == ay {
		return "", fmt.Errorf("bad projection axes %d, %d", ax, ay)
	}
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("canvas size %dx%d", w, h)
	}
	if len(traj) == 0 {
		return NewCanvas(w, h).String(), nil
	}
	n, err := traj[0].Bodies()
	if err != nil {
		return "", err
	}

	extent := 0.0
	for _, x := range traj {
		for i := range n {
			p := x.Position(i)
			extent = math.Max(extent, math.Max(math.Abs(p[ax]), math.Abs(p[ay])))
		}
	}
	if extent == 0 {
		extent = 1
	}

	dotsX, dotsY := w*2, h*4
	scale := float64(min(dotsX, dotsY)-1) / (2 * extent)
	project := func(p [3]float64) (int, int) {
		px := int(math.Round(float64(dotsX-1)/2 + p[ax]*scale))
		py := int(math.Round(float64(dotsY-1)/2 - p[ay]*scale))
		return px, py
	}

	c := NewCanvas(w, h)
	for i := range n {
		x0, y0 := project(traj[0].Position(i))
		c.Set(x0, y0)
		for _, x := range traj[1:] {
			x1, y1 := project(x.Position(i))
			c.DrawLine(x0, y0, x1, y1)
			x0, y0 = x1, y1
		}
	}
	return c.String(), nil
}
