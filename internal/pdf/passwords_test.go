package pdf

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestCandidatePasswords(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		contains []string
		empty    bool
	}{
		{
			name:     "digit run and senha marker",
			fileName: "NF_1234_senha5678.pdf",
			contains: []string{"1234", "5678", "senha5678"},
		},
		{
			name:     "cnpj fragment",
			fileName: "nota 12345678000190.pdf",
			contains: []string{"12345678000190", "nota"},
		},
		{
			name:     "pdf suffix stripped from segments",
			fileName: "fatura-acme.pdf",
			contains: []string{"acme"},
		},
		{
			name:     "suffix stripped after length check",
			fileName: "nf.pdf",
			contains: []string{"nf"},
		},
		{
			name:     "short segments yield nothing",
			fileName: "ab .pdf",
			empty:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidatePasswords(tt.fileName)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestCandidatePasswordsNoDuplicates(t *testing.T) {
	got := CandidatePasswords("NF_1234_senha5678.pdf")
	seen := map[string]int{}
	for _, c := range got {
		seen[c]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "candidate %q appears %d times", c, n)
	}
}

func TestCandidatePasswordsOrderStable(t *testing.T) {
	a := CandidatePasswords("boleto_4321_senha9999.pdf")
	b := CandidatePasswords("boleto_4321_senha9999.pdf")
	assert.Equal(t, a, b)
	// Digit runs come before name segments.
	assert.Equal(t, "4321", a[0])
}

func TestLooksLikePasswordError(t *testing.T) {
	assert.True(t, looksLikePasswordError(eris.New("pdfcpu: please provide the correct password")))
	assert.True(t, looksLikePasswordError(eris.New("document is encrypted")))
	assert.False(t, looksLikePasswordError(eris.New("malformed xref table")))
	assert.False(t, looksLikePasswordError(nil))
}
