package model

// VerdictStatus is the outcome of checking one extraction against ground truth.
type VerdictStatus string

const (
	VerdictOK        VerdictStatus = "OK"
	VerdictDivergent VerdictStatus = "Divergente"
	VerdictNotFound  VerdictStatus = "Não Encontrado"
)

// Verdict is the validation result for one extraction record. Expected is set
// only for divergent verdicts and carries the ground-truth amount.
type Verdict struct {
	Status   VerdictStatus
	Source   string
	Expected float64
}
