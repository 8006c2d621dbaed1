package groundtruth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/hederw/nfs-extrator/internal/model"
)

var mapping = model.ColumnMapping{VendorColumn: "Razão Social", AmountColumn: "Valor Pagto R$"}

func writeSheet(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Plan1")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, value := range cells {
			row.AddCell().Value = value
		}
	}
	path := filepath.Join(t.TempDir(), "truth.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadBasic(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"Razão Social", "Valor Pagto R$"},
		{"ACME LTDA", "R$ 1.234,56"},
		{"  Beta Serviços  ", "100,00"},
	})

	set := Load(path, "planilha-1", mapping)
	require.Equal(t, model.GroundTruthSuccess, set.Status)
	assert.Equal(t, []string{"Razão Social", "Valor Pagto R$"}, set.DetectedColumns)
	require.Len(t, set.Records, 2)
	assert.Equal(t, "ACME LTDA", set.Records[0].Vendor)
	assert.InDelta(t, 1234.56, set.Records[0].Amount, 0.001)
	assert.Equal(t, "Beta Serviços", set.Records[1].Vendor)
	assert.InDelta(t, 100.0, set.Records[1].Amount, 0.001)
}

func TestLoadHeaderAfterBlankRows(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"", ""},
		{},
		{"Razão Social", "Valor Pagto R$"},
		{"ACME", "10,00"},
	})

	set := Load(path, "p", mapping)
	require.Equal(t, model.GroundTruthSuccess, set.Status)
	assert.Equal(t, []string{"Razão Social", "Valor Pagto R$"}, set.DetectedColumns)
	require.Len(t, set.Records, 1)
}

func TestLoadDropsGarbageRows(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"Razão Social", "Valor Pagto R$"},
		{"ACME", "abc"},
		{"", "50,00"},
		{"Beta", "50,00"},
		{"", ""},
	})

	set := Load(path, "p", mapping)
	require.Equal(t, model.GroundTruthSuccess, set.Status)
	require.Len(t, set.Records, 1)
	assert.Equal(t, "Beta", set.Records[0].Vendor)
}

func TestLoadNoHeaderRow(t *testing.T) {
	path := writeSheet(t, [][]string{{"", ""}, {}})

	set := Load(path, "p", mapping)
	assert.Equal(t, model.GroundTruthError, set.Status)
	assert.Contains(t, set.Message, "cabeçalho")
}

func TestLoadNoDataRows(t *testing.T) {
	path := writeSheet(t, [][]string{{"Razão Social", "Valor Pagto R$"}})

	set := Load(path, "p", mapping)
	assert.Equal(t, model.GroundTruthError, set.Status)
	assert.Contains(t, set.Message, "Nenhuma linha de dados")
	// Detected columns still reported for diagnosis.
	assert.Equal(t, []string{"Razão Social", "Valor Pagto R$"}, set.DetectedColumns)
}

func TestLoadMissingRequiredColumns(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"Fornecedor", "Total"},
		{"ACME", "10,00"},
	})

	set := Load(path, "p", mapping)
	assert.Equal(t, model.GroundTruthError, set.Status)
	assert.Contains(t, set.Message, `"Razão Social"`)
	assert.Contains(t, set.Message, `"Valor Pagto R$"`)
	assert.Contains(t, set.Message, "Fornecedor")
	assert.Contains(t, set.Message, "Total")
}

func TestLoadUnreadableFile(t *testing.T) {
	set := Load(filepath.Join(t.TempDir(), "nope.xlsx"), "p", mapping)
	assert.Equal(t, model.GroundTruthError, set.Status)
	assert.Contains(t, set.Message, "Não foi possível ler")
}

func TestLoadIgnoresUnlabeledColumns(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"Razão Social", "", "Valor Pagto R$"},
		{"ACME", "lixo", "10,00"},
	})

	set := Load(path, "p", mapping)
	require.Equal(t, model.GroundTruthSuccess, set.Status)
	assert.Equal(t, []string{"Razão Social", "Valor Pagto R$"}, set.DetectedColumns)
	require.Len(t, set.Records, 1)
	assert.InDelta(t, 10.0, set.Records[0].Amount, 0.001)
}

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"R$ 1.234,56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"100,00", 100, true},
		{"100", 100, true},
		{"r$ 5,50", 5.5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"   ", 0, false},
	}
	for _, tc := range cases {
		got, ok := NormalizeAmount(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.001, "input %q", tc.in)
		}
	}
}
