package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type RunSummary struct {
	ID          string
	System      string
	Integrator  string
	Bodies      []string
	Days        float64
	Step        float64
	Samples     int
	Evaluations int
	Elapsed     time.Duration
	Metrics     map[string]float64
}

// Summary renders s as a bordered two-column table. Counts and the span
// are grouped with thousands separators.
func Summary(s RunSummary) string {
	p := message.NewPrinter(language.English)

	rows := [][2]string{
		{"system", s.System},
		{"integrator", s.Integrator},
		{"bodies", strings.Join(s.Bodies, ", ")},
		{"span", p.Sprintf("%.2f days (h=%g)", s.Days, s.Step)},
		{"samples", p.Sprintf("%d", s.Samples)},
	}
	if s.ID != "" {
		rows = append([][2]string{{"run", s.ID}}, rows...)
	}
	if s.Evaluations > 0 {
		rows = append(rows, [2]string{"evaluations", p.Sprintf("%d", s.Evaluations)})
	}
	if s.Elapsed > 0 {
		rows = append(rows, [2]string{"elapsed", s.Elapsed.Round(time.Microsecond).String()})
	}

	names := make([]string, 0, len(s.Metrics))
	for k := range s.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		rows = append(rows, [2]string{k, fmt.Sprintf("%.3e", s.Metrics[k])})
	}

	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Title.Render("orbitsim"))
	for _, r := range rows {
		label := MetricLabel.Render(r[0] + strings.Repeat(" ", width-lipgloss.Width(r[0])))
		lines = append(lines, label+"  "+MetricValue.Render(r[1]))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
