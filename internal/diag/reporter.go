package diag

import "incode/internal/source"

// Reporter is the minimal sink for diagnostics.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// ReportError forwards err to r as an error diagnostic. See FromError.
func ReportError(r Reporter, err error, fallback Code, primary source.Span) {
	if r == nil || err == nil {
		return
	}
	d := FromError(err, fallback, primary)
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}
