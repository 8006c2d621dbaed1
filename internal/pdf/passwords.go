package pdf

import (
	"regexp"
	"strings"
)

var (
	digitRunRe  = regexp.MustCompile(`\d{4,}`)
	separatorRe = regexp.MustCompile(`[\s_-]+`)
	senhaRe     = regexp.MustCompile(`(?i)senha[^\s_-]*`)
	pdfSuffixRe = regexp.MustCompile(`(?i)\.pdf$`)
	senhaWordRe = regexp.MustCompile(`(?i)senha`)
)

// CandidatePasswords derives likely open-passwords from a file name. Invoice
// exporters frequently embed the password in the name itself, either as a
// CNPJ fragment or behind an explicit "senha" marker; trying these avoids a
// blocking prompt mid-batch. The list is deduplicated, first occurrence wins.
func CandidatePasswords(fileName string) []string {
	var candidates []string

	// Maximal runs of 4+ digits anywhere in the name.
	candidates = append(candidates, digitRunRe.FindAllString(fileName, -1)...)

	// Separator-delimited segments of 4+ characters, trailing ".pdf" stripped.
	for _, part := range separatorRe.Split(fileName, -1) {
		if len(part) >= 4 {
			candidates = append(candidates, pdfSuffixRe.ReplaceAllString(part, ""))
		}
	}

	// Explicit "senha<run>" marker with the prefix stripped.
	if explicit := senhaRe.FindString(fileName); explicit != "" {
		if stripped := senhaWordRe.ReplaceAllString(explicit, ""); stripped != "" {
			candidates = append(candidates, stripped)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// looksLikePasswordError reports whether an open failure smells like a
// password problem rather than a malformed document.
func looksLikePasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
