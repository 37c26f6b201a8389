package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/fatih/color"
)

const labelWidth = 7

// Printer выводит диагностику и результат пробы в человекочитаемом виде.
type Printer struct {
	out io.Writer
	mu  sync.Mutex

	ok   func(a ...any) string
	warn func(a ...any) string
	fail func(a ...any) string
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:  out,
		ok:   color.New(color.FgGreen).SprintFunc(),
		warn: color.New(color.FgYellow).SprintFunc(),
		fail: color.New(color.FgRed, color.Bold).SprintFunc(),
	}
}

// PrintTarget печатает адрес и ключ. Ключ всегда выводится в скрытом виде.
func (p *Printer) PrintTarget(target *domain.ConnectionTarget) {
	p.line("url", target.URL())
	p.line("api_key", target.RedactedCredential())
}

// OnStep печатает итог шага.
func (p *Printer) OnStep(outcome domain.StepOutcome) {
	var status string
	switch outcome.Status {
	case domain.StatusOK:
		status = p.ok(string(outcome.Status))
	case domain.StatusFailed:
		status = p.fail(string(outcome.Status))
		if outcome.Err != nil {
			status += ": " + outcome.Err.Error()
		}
	default:
		status = p.warn(string(outcome.Status))
	}

	p.line(string(outcome.Step), fmt.Sprintf("%s (%s)", status, outcome.Duration.Round(time.Millisecond)))
}

// PrintSearch печатает итог поиска: найденные точки и полный ответ Qdrant либо ошибку.
func (p *Printer) PrintSearch(report *domain.Report) {
	if report.SearchErr != nil {
		p.line("search", p.fail("error")+": "+report.SearchErr.Error())
		return
	}

	if report.Search == nil {
		p.line("search", p.warn("not executed"))
		return
	}

	for i, hit := range report.Search.Hits {
		p.line(fmt.Sprintf("#%d", i+1), fmt.Sprintf("id=%s score=%.4f payload=%v", hit.ID, hit.Score, map[string]any(hit.Payload)))
	}

	p.line("search", fmt.Sprintf("%s %s", p.ok("ok"), report.Search.Raw))
}

// PrintError печатает ошибку, прервавшую пробу.
func (p *Printer) PrintError(err error) {
	p.line("error", p.fail(err.Error()))
}

func (p *Printer) line(label string, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%-*s => %s\n", labelWidth, label, value)
}
