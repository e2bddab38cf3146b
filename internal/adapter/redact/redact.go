package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; later patterns see the placeholders of earlier ones.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`), "[EMAIL]"},
	{regexp.MustCompile(`\b(\+?\d{1,3}[\s\-]?)?(\(?\d{2,5}\)?[\s\-]?)?\d{3,}[\s\-]?\d{2,}\b`), "[PHONE]"},
	{regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`), "[IBAN]"},
	{regexp.MustCompile(`\b[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?\b`), "[BIC]"},
	{regexp.MustCompile(`(?i)(ansprechpartner|kontakt|contact|bearbeiter)\s*:\s*[^\n\r]{1,60}`), "${1}: [PERSON]"},
}

// Redactor masks emails, phone numbers, bank details and named contacts.
// It is heuristic and may mask harmless numbers too.
type Redactor struct{}

// New constructs Redactor.
func New() Redactor {
	return Redactor{}
}

// Redact returns text with personal data replaced by placeholders.
func (Redactor) Redact(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}
