// Package viz renders simulation output for the terminal.
//
//   - [PlotSeries] and [PlotMany]: line charts of scalar series
//   - [OrbitMap]: a Braille canvas projection of body paths
//   - [Summary]: a styled table of run metadata and metrics
package viz
