package validator

import "fmt"

// Severity grades a finding. Errors make a run invalid; warnings do not.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one graded validation result, optionally tied to a file.
type Finding struct {
	Severity Severity
	File     string
	Message  string
}

func (f Finding) String() string {
	if f.File == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.File, f.Message)
}

// Report accumulates findings in discovery order.
type Report struct {
	findings []Finding
}

// AddError records an error finding against a file. An empty file attaches
// the finding to the run as a whole.
func (r *Report) AddError(file, format string, args ...any) {
	r.findings = append(r.findings, Finding{
		Severity: SeverityError,
		File:     file,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddWarning records a warning finding.
func (r *Report) AddWarning(file, format string, args ...any) {
	r.findings = append(r.findings, Finding{
		Severity: SeverityWarning,
		File:     file,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Findings returns all findings in discovery order.
func (r *Report) Findings() []Finding {
	return r.findings
}

// Errors returns the error findings in discovery order.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning findings in discovery order.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// Valid reports whether the run produced no errors. Warnings alone leave a
// configuration valid.
func (r *Report) Valid() bool {
	for _, f := range r.findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}
