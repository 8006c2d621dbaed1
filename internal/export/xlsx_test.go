package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hederw/nfs-extrator/internal/model"
)

func openWorkbook(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestResults(t *testing.T) {
	b := &model.Batch{
		Name: "Extração: notas",
		Records: []*model.ExtractionRecord{
			{
				FileName: "a.pdf", Page: 1, Status: model.StatusSuccess,
				Data: &model.InvoiceData{Prestador: "ACME", NumeroNota: "12", DataEmissao: "2025-08-01", ValorLiquido: 150.5},
			},
			{
				FileName: "b.pdf", Page: 2, Status: model.StatusError,
				Error: "Arquivo protegido por senha.",
			},
		},
	}

	data, err := Results(b)
	require.NoError(t, err)

	rows := openWorkbook(t, data, "Relatório")
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, resultHeaders, rows[0])
	assert.Equal(t, []string{"a.pdf", "1", "Sucesso", "ACME", "12", "2025-08-01", "150.5"}, rows[1])
	assert.Equal(t, "Falha", rows[2][2])
	assert.Equal(t, "Arquivo protegido por senha.", rows[2][7])

	// Trailing total row sums successful net amounts.
	last := rows[len(rows)-1]
	assert.Equal(t, "Total", last[5])
	assert.Equal(t, "150.5", last[6])
}

func TestDetailed(t *testing.T) {
	b := &model.Batch{
		Records: []*model.ExtractionRecord{
			{
				FileName: "a.pdf", Page: 1, Status: model.StatusSuccess,
				DetailedData: &model.DetailedInvoiceData{
					NumeroNota:           "77",
					DataEmissao:          "2025-08-01",
					CNPJPrestador:        "12.345.678/0001-90",
					RazaoSocialPrestador: "ACME LTDA",
					CodigoServico:        "07.02",
					ValorTotalNota:       900,
					AliquotaISSQN:        5,
					ISSRetido:            45,
				},
			},
			{FileName: "b.pdf", Page: 1, Status: model.StatusError, Error: "x"},
		},
	}

	data, err := Detailed(b)
	require.NoError(t, err)

	rows := openWorkbook(t, data, "Detalhamento")
	require.Len(t, rows, 2)
	assert.Equal(t, detailedHeaders, rows[0])
	assert.Equal(t, "77", rows[1][1])
	assert.Equal(t, "ACME LTDA", rows[1][4])
	assert.Equal(t, "900", rows[1][10])
}

func TestResultsEmptyBatch(t *testing.T) {
	data, err := Results(&model.Batch{})
	require.NoError(t, err)

	rows := openWorkbook(t, data, "Relatório")
	assert.Equal(t, resultHeaders, rows[0])
}
