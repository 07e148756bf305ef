package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	reportTemplate  = "report.html"
	receiptTemplate = "receipt.html"
)

// Receipt is the data printed on a payment receipt
type Receipt struct {
	Number       string
	PaymentID    uuid.UUID
	HostelName   string
	StudentName  string
	StudentEmail string
	Type         string
	Description  string
	BillingMonth string
	Amount       decimal.Decimal
	Method       string
	Reference    string
	PaidAt       time.Time
	IssuedAt     time.Time
}

// TemplateEngine renders the embedded document templates with html/template
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates *template.Template
	currency  string
	location  *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithCurrencySymbol prefixes formatted amounts, e.g. "$"
func WithCurrencySymbol(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.currency = symbol
	}
}

// WithLocation prints dates in loc instead of UTC
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewTemplateEngine parses the embedded templates. It panics when they are
// malformed since they are compiled into the binary.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{location: time.UTC}
	for _, opt := range opts {
		opt(e)
	}

	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"formatPercent":  formatPercent,
		"statusText":     statusText,
		"shortUUID":      shortUUID,
		"upper":          strings.ToUpper,
		"inc":            func(i int) int { return i + 1 },
		"default":        defaultString,
	}
	e.templates = template.Must(template.New("documents").Funcs(e.funcMap).ParseFS(templateFS, "templates/*.html"))
	return e
}

// RenderReport renders a report table as a standalone HTML document
func (e *TemplateEngine) RenderReport(table *report.Table) (string, error) {
	if table == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "report table is nil", nil)
	}
	return e.execute(reportTemplate, table)
}

// RenderReceipt renders a payment receipt as a standalone HTML document
func (e *TemplateEngine) RenderReceipt(receipt *Receipt) (string, error) {
	if receipt == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "receipt is nil", nil)
	}
	return e.execute(receiptTemplate, receipt)
}

// RenderString parses and executes an ad hoc template with the engine functions
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeTemplateFailed, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to parse template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

func (e *TemplateEngine) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute "+name, err)
	}
	return buf.String(), nil
}

// formatMoney formats an amount with thousands separators and two decimals.
// Example: 1234.5 -> "1,234.50"
func (e *TemplateEngine) formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	parts := strings.SplitN(d.StringFixed(2), ".", 2)
	intPart := parts[0]

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	return sign + e.currency + grouped.String() + "." + parts[1]
}

func (e *TemplateEngine) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("2006-01-02")
}

func (e *TemplateEngine) formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("2006-01-02 15:04")
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// statusText turns an enum value such as CHECKED_IN into "Checked In"
func statusText(status string) string {
	words := strings.ReplaceAll(strings.ToLower(status), "_", " ")
	return cases.Title(language.English).String(words)
}

func shortUUID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func defaultString(def, val string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return val
}
