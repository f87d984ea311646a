package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

type TableConfig struct {
	NumberWidth int
	ClientWidth int
	TradeWidth  int
	AmountWidth int
	StatusWidth int
	CountWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NumberWidth: 12,
		ClientWidth: 24,
		TradeWidth:  12,
		AmountWidth: 10,
		StatusWidth: 11,
		CountWidth:  5,
	}
}

// Reporter prints commission reports as a console table. Status badges are
// colored only when the writer is a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
	badges map[domain.QualificationStatus]lipgloss.Style
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	renderer := lipgloss.NewRenderer(writer)
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		badges: map[domain.QualificationStatus]lipgloss.Style{
			domain.QualificationQualified: renderer.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			domain.QualificationPartial:   renderer.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			domain.QualificationExcluded:  renderer.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

func (c *Reporter) badge(status domain.QualificationStatus) string {
	label := fmt.Sprintf("%-*s", c.config.StatusWidth, strings.ToUpper(string(status)))
	style, ok := c.badges[status]
	if !ok {
		return label
	}
	return style.Render(label)
}

const reportTemplate = `
Commission report {{.Month}} ({{.Start.Format "2006-01-02"}} to {{.End.Format "2006-01-02"}})

Jobs: {{.Stats.Total}}  Qualified: {{.Stats.Qualified}}  Partial: {{.Stats.Partial}}  Reassigned: {{.Stats.Reassigned}}  Excluded: {{.Stats.Excluded}}
Total count: {{count .TotalCount}}
Rate: ${{printf "%.2f" .CommissionRate}} per job
Commission: ${{printf "%.2f" .TotalCommission}}
{{if .Jobs}}
{{separator}}
{{header}}
{{separator}}
{{range .Jobs}}{{row .}}
{{end}}{{separator}}
{{else}}
No paid jobs in this period.
{{end}}`

func (c *Reporter) Handle(report *domain.CommissionReport) error {
	cfg := c.config
	funcMap := template.FuncMap{
		"count": func(v float64) string {
			return formatCount(v)
		},
		"separator": func() string {
			widths := []int{cfg.NumberWidth, cfg.ClientWidth, cfg.TradeWidth, cfg.AmountWidth,
				cfg.AmountWidth, cfg.AmountWidth, cfg.StatusWidth, cfg.CountWidth}
			parts := make([]string, 0, len(widths))
			for _, w := range widths {
				parts = append(parts, strings.Repeat("-", w+2))
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
		"header": func() string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %*s | %*s | %*s | %-*s | %*s |",
				cfg.NumberWidth, "WO #",
				cfg.ClientWidth, "Client",
				cfg.TradeWidth, "Trade",
				cfg.AmountWidth, "NTE",
				cfg.AmountWidth, "Cost",
				cfg.AmountWidth, "Profit",
				cfg.StatusWidth, "Status",
				cfg.CountWidth, "Count")
		},
		"row": func(job domain.QualifiedJob) string {
			line := fmt.Sprintf("| %-*s | %-*s | %-*s | %*.2f | %*.2f | %*s | %s | %*s |",
				cfg.NumberWidth, truncate(job.WONumber, cfg.NumberWidth),
				cfg.ClientWidth, truncate(job.Client, cfg.ClientWidth),
				cfg.TradeWidth, truncate(job.Trade, cfg.TradeWidth),
				cfg.AmountWidth, job.NTE,
				cfg.AmountWidth, job.TotalCost,
				cfg.AmountWidth, job.ProfitDisplay(),
				c.badge(job.Qualification),
				cfg.CountWidth, formatCount(job.CountValue))
			if job.Reason != "" {
				line += " " + job.Reason
			}
			return line
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	start, end := report.Month.Window()
	return t.Execute(c.writer, struct {
		*domain.CommissionReport
		Start, End time.Time
	}{report, start, end})
}

func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
