package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

type TierReporter struct {
	writer io.Writer
}

func NewTierReporter(writer io.Writer) *TierReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TierReporter{writer: writer}
}

func (c *TierReporter) Handle(tiers []domain.CommissionTier) error {
	tmpl := `Commission tiers (jobs per month → rate per job)
{{range .}}  {{printf "%-8s" .Label}} ${{printf "%.2f" .Rate}}
{{end}}`
	t, err := template.New("tiers").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, tiers)
}
