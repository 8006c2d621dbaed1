package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExtractionStatus is the lifecycle state of a single extraction record.
type ExtractionStatus string

const (
	StatusPending    ExtractionStatus = "pending"
	StatusProcessing ExtractionStatus = "processing"
	StatusSuccess    ExtractionStatus = "success"
	StatusError      ExtractionStatus = "error"
)

// Terminal reports whether the status is a final state.
func (s ExtractionStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// PageMode selects which pages of each file are planned for extraction.
type PageMode string

const (
	FirstPageOnly PageMode = "first-page"
	AllPages      PageMode = "all-pages"
)

// Task is one (file, page) unit of extraction work. Immutable once planned.
type Task struct {
	ID         string
	FilePath   string
	FileName   string
	Page       int // 1-based
	TotalPages int
}

// NewTask creates a task for one page of one file.
func NewTask(path, name string, page, totalPages int) Task {
	return Task{
		ID:         fmt.Sprintf("%s-p%d-%s", name, page, uuid.New().String()),
		FilePath:   path,
		FileName:   name,
		Page:       page,
		TotalPages: totalPages,
	}
}

// ExtractionRecord tracks one task's outcome. Data is populated only when
// Status is StatusSuccess; Error only when Status is StatusError.
type ExtractionRecord struct {
	ID           string               `json:"id"`
	FileName     string               `json:"file_name"`
	Page         int                  `json:"page"`
	Status       ExtractionStatus     `json:"status"`
	Data         *InvoiceData         `json:"data,omitempty"`
	DetailedData *DetailedInvoiceData `json:"detailed_data,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// NewRecord creates a pending record for a planned task.
func NewRecord(t Task) *ExtractionRecord {
	return &ExtractionRecord{
		ID:       t.ID,
		FileName: t.FileName,
		Page:     t.Page,
		Status:   StatusPending,
	}
}

// MarkProcessing transitions the record to the processing state.
func (r *ExtractionRecord) MarkProcessing() {
	r.Status = StatusProcessing
}

// MarkSuccess records a successful basic extraction.
func (r *ExtractionRecord) MarkSuccess(data *InvoiceData) {
	r.Status = StatusSuccess
	r.Data = data
	r.Error = ""
}

// MarkDetailedSuccess records a successful detailed extraction.
func (r *ExtractionRecord) MarkDetailedSuccess(data *DetailedInvoiceData) {
	r.Status = StatusSuccess
	r.DetailedData = data
	r.Error = ""
}

// MarkError records a terminal per-task failure.
func (r *ExtractionRecord) MarkError(msg string) {
	r.Status = StatusError
	r.Error = msg
	r.Data = nil
	r.DetailedData = nil
}

// Batch is the result set of one extraction run.
type Batch struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Folder    string              `json:"folder"`
	CreatedAt time.Time           `json:"created_at"`
	Records   []*ExtractionRecord `json:"records"`
}

// NewBatch creates an empty batch for the given source folder.
func NewBatch(folder string) *Batch {
	name := "Lote de " + time.Now().Format("02/01/2006 15:04")
	if folder != "" {
		name = "Extração: " + folder
	}
	return &Batch{
		ID:        uuid.New().String(),
		Name:      name,
		Folder:    folder,
		CreatedAt: time.Now().UTC(),
	}
}

// HasSuccess reports whether any record completed successfully.
func (b *Batch) HasSuccess() bool {
	for _, r := range b.Records {
		if r.Status == StatusSuccess {
			return true
		}
	}
	return false
}

// TotalLiquid sums the net amount across successful basic extractions.
func (b *Batch) TotalLiquid() float64 {
	var total float64
	for _, r := range b.Records {
		if r.Status == StatusSuccess && r.Data != nil {
			total += r.Data.ValorLiquido
		}
	}
	return total
}

// SuccessRecords returns the records that completed successfully.
func (b *Batch) SuccessRecords() []*ExtractionRecord {
	var out []*ExtractionRecord
	for _, r := range b.Records {
		if r.Status == StatusSuccess {
			out = append(out, r)
		}
	}
	return out
}
