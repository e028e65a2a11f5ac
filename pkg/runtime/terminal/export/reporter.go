package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
)

type TableConfig struct {
	IDWidth      int
	StatusWidth  int
	DetailsWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:      36,
		StatusWidth:  8,
		DetailsWidth: 70,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(id string, status string, details string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				c.config.IDWidth, c.truncate(id, c.config.IDWidth),
				c.config.StatusWidth, c.truncate(status, c.config.StatusWidth),
				c.config.DetailsWidth, c.truncate(details, c.config.DetailsWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.IDWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.DetailsWidth+2))
		},
		"upper": strings.ToUpper,
	}
}

// Handle prints the executive summary, framework ranking, critical findings and every control.
func (c *Reporter) Handle(report *domain.Report) error {
	tmpl := `
GRC Compliance Scan ({{.Metadata.ScanTime.Format "2006-01-02 15:04:05"}})
Account: {{.Metadata.AccountID}}  Region: {{.Metadata.Region}}  Execution: {{.Metadata.ExecutionID}}

=== Executive Summary ===
Overall Score: {{printf "%.2f" .Summary.OverallScore}}%
Risk Level: {{.Summary.RiskLevel}}
Total Checks: {{.Summary.TotalChecks}}
Passed: {{.Summary.Passed}}
Failed: {{.Summary.Failed}}
Warnings: {{.Summary.Warnings}}

=== Framework Scores ===
{{range .FrameworkScores}}{{printf "%-12s" .Name}} {{printf "%6.2f" .Score}}% ({{.Passed}}/{{.Total}})
{{end}}
=== Critical Findings ({{len .CriticalFindings}}) ===
{{range .CriticalFindings}}[{{upper (print .Severity)}}] {{.ControlID}} {{.ControlName}}: {{.Details}}
{{end}}
=== Controls ===
{{separator}}
{{formatRow "Control" "Status" "Details"}}
{{separator}}
{{range .Findings}}{{formatRow .ControlID (print .Status) .Details}}
{{end}}{{separator}}
`
	t, err := template.New("report").Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// Controls prints the control catalogue.
func (c *Reporter) Controls(controls []domain.Control) error {
	tmpl := `{{separator}}
{{formatRow "Control" "Checker" "Frameworks"}}
{{separator}}
{{range .}}{{formatRow .ID .Checker (join .Frameworks)}}
{{end}}{{separator}}
`
	funcs := c.funcs()
	funcs["join"] = func(items []string) string { return strings.Join(items, ", ") }

	t, err := template.New("controls").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, controls)
}

// Profiles prints the AWS profiles found in the shared config files.
func (c *Reporter) Profiles(profiles []domain.ConfigProfile) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(c.writer, "No AWS profiles found")
		return err
	}
	for _, p := range profiles {
		region := p.Region
		if region == "" {
			region = "-"
		}
		if _, err := fmt.Fprintf(c.writer, "%-24s %-12s %s\n", p.Name, p.Source, region); err != nil {
			return err
		}
	}
	return nil
}
