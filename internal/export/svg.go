package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/viz"
)

// Plane selects the two position axes projected by OrbitSVG.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// Axes returns the state component indices the plane projects onto.
func (p Plane) Axes() (int, int, error) {
	switch p {
	case PlaneXY:
		return 0, 1, nil
	case PlaneXZ:
		return 0, 2, nil
	case PlaneYZ:
		return 1, 2, nil
	default:
		return 0, 0, fmt.Errorf("plane must be xy, xz or yz, got %q", string(p))
	}
}

// OrbitSVG draws every body's path projected onto plane, using a square
// viewport centred on the origin so orbits keep their shape. The final
// position of each body is marked with a dot and its name.
func OrbitSVG(traj dynamo.Trajectory, names []string, plane Plane, size int) (string, error) {
	a, b, err := plane.Axes()
	if err != nil {
		return "", err
	}
	if len(traj) == 0 {
		return "", fmt.Errorf("empty trajectory")
	}
	n := len(names)
	if len(traj[0]) != 6*n {
		return "", fmt.Errorf("%d names for rows of width %d", n, len(traj[0]))
	}

	maxRange := 0.0
	for _, row := range traj {
		for _, v := range row[:3*n] {
			if v > maxRange {
				maxRange = v
			}
			if -v > maxRange {
				maxRange = -v
			}
		}
	}
	if maxRange == 0 {
		maxRange = 1
	}
	maxRange *= 1.05

	half := float64(size) / 2
	scale := half / maxRange
	project := func(row dynamo.State, body int) (float64, float64) {
		return half + row[body*3+a]*scale, half - row[body*3+b]*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	last := traj[len(traj)-1]
	for i, name := range names {
		color := viz.BodyColor(i)

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="1" d="M`, color))
		for k, row := range traj {
			x, y := project(row, i)
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(last, i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10">%s</text>
`, x, y, color, x+5, y-5, color, escape(name)))
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="#666688" font-family="monospace" font-size="10">%s plane, AU</text>
</svg>`, size-8, strings.ToUpper(string(plane))))
	return sb.String(), nil
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
