package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordLifecycle(t *testing.T) {
	task := NewTask("/tmp/nota.pdf", "nota.pdf", 1, 3)
	rec := NewRecord(task)

	assert.Equal(t, StatusPending, rec.Status)
	assert.False(t, rec.Status.Terminal())

	rec.MarkProcessing()
	assert.Equal(t, StatusProcessing, rec.Status)

	rec.MarkSuccess(&InvoiceData{Prestador: "ACME", ValorLiquido: 100})
	assert.Equal(t, StatusSuccess, rec.Status)
	assert.True(t, rec.Status.Terminal())
	assert.NotNil(t, rec.Data)
	assert.Empty(t, rec.Error)
}

func TestRecordMarkErrorClearsData(t *testing.T) {
	rec := NewRecord(NewTask("/tmp/nota.pdf", "nota.pdf", 2, 2))
	rec.MarkProcessing()
	rec.MarkSuccess(&InvoiceData{ValorLiquido: 10})

	rec.MarkError("falha na IA")
	assert.Equal(t, StatusError, rec.Status)
	assert.Nil(t, rec.Data)
	assert.Equal(t, "falha na IA", rec.Error)
}

func TestTaskIDsUnique(t *testing.T) {
	a := NewTask("/tmp/nota.pdf", "nota.pdf", 1, 1)
	b := NewTask("/tmp/nota.pdf", "nota.pdf", 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBatchTotalLiquid(t *testing.T) {
	b := NewBatch("setembro")

	ok1 := NewRecord(NewTask("/tmp/a.pdf", "a.pdf", 1, 1))
	ok1.MarkSuccess(&InvoiceData{ValorLiquido: 100.50})
	ok2 := NewRecord(NewTask("/tmp/b.pdf", "b.pdf", 1, 1))
	ok2.MarkSuccess(&InvoiceData{ValorLiquido: 49.50})
	bad := NewRecord(NewTask("/tmp/c.pdf", "c.pdf", 1, 1))
	bad.MarkError("protegido por senha")

	b.Records = []*ExtractionRecord{ok1, ok2, bad}

	assert.True(t, b.HasSuccess())
	assert.InDelta(t, 150.0, b.TotalLiquid(), 0.001)
	assert.Len(t, b.SuccessRecords(), 2)
	assert.Equal(t, "Extração: setembro", b.Name)
}
