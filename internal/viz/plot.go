package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries draws one series. Series longer than width are decimated by
// asciigraph's own interpolation.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series, coloring series i like body i.
func PlotMany(series [][]float64, caption string, width, height int) string {
	kept := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		if len(s) == 0 {
			continue
		}
		if len(s) == 1 {
			s = []float64{s[0], s[0]}
		}
		kept = append(kept, s)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(kept) == 0 {
		return ""
	}
	return asciigraph.PlotMany(kept,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Gold,
	asciigraph.Silver,
	asciigraph.Orange,
	asciigraph.DodgerBlue,
	asciigraph.Red,
	asciigraph.Peru,
	asciigraph.Khaki,
	asciigraph.LightSkyBlue,
	asciigraph.RoyalBlue,
	asciigraph.Plum,
}
