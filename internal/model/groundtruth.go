package model

// GroundTruthStatus is the load state of an authoritative spreadsheet.
type GroundTruthStatus string

const (
	GroundTruthIdle    GroundTruthStatus = "idle"
	GroundTruthSuccess GroundTruthStatus = "success"
	GroundTruthError   GroundTruthStatus = "error"
)

// ColumnMapping names the vendor and amount columns expected in a particular
// ground-truth source. Different sources use different header names.
type ColumnMapping struct {
	VendorColumn string
	AmountColumn string
}

// GroundTruthRecord is one normalized row of an authoritative spreadsheet.
type GroundTruthRecord struct {
	Vendor string
	Amount float64
}

// GroundTruthSet is one loaded spreadsheet's normalized state. It is replaced
// wholesale on re-load and never partially mutated.
type GroundTruthSet struct {
	Label           string
	Path            string
	Status          GroundTruthStatus
	Message         string
	DetectedColumns []string
	Records         []GroundTruthRecord
}
