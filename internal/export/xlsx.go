// Package export renders batch results as XLSX workbooks.
package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/hederw/nfs-extrator/internal/model"
)

var resultHeaders = []string{
	"Arquivo",
	"Página",
	"Status",
	"Prestador",
	"Nº Nota",
	"Emissão",
	"Valor Líquido",
	"Erro/Motivo",
}

var detailedHeaders = []string{
	"Arquivo",
	"Nº Nota",
	"Data de Emissão",
	"CNPJ Prestador",
	"Razão Social Prestador",
	"CNPJ Tomador",
	"Razão Social Tomador",
	"Local da Prestação",
	"Local de Incidência",
	"Código do Serviço",
	"Valor Total da Nota",
	"Alíquota ISSQN",
	"INSS",
	"ISS Retido",
}

// Results produces the review workbook for a batch, one row per record.
// Failed records keep their row with the failure reason inline.
func Results(b *model.Batch) ([]byte, error) {
	f, sheet, err := newWorkbook("Relatório", resultHeaders)
	if err != nil {
		return nil, err
	}

	for i, rec := range b.Records {
		row := i + 2
		status := "Falha"
		if rec.Status == model.StatusSuccess {
			status = "Sucesso"
		}

		writeCell(f, sheet, 1, row, rec.FileName)
		writeCell(f, sheet, 2, row, rec.Page)
		writeCell(f, sheet, 3, row, status)
		if rec.Data != nil {
			writeCell(f, sheet, 4, row, rec.Data.Prestador)
			writeCell(f, sheet, 5, row, rec.Data.NumeroNota)
			writeCell(f, sheet, 6, row, rec.Data.DataEmissao)
			writeCell(f, sheet, 7, row, rec.Data.ValorLiquido)
		}
		writeCell(f, sheet, 8, row, rec.Error)
	}

	totalRow := len(b.Records) + 3
	writeCell(f, sheet, 6, totalRow, "Total")
	writeCell(f, sheet, 7, totalRow, b.TotalLiquid())

	return save(f)
}

// Detailed produces the thirteen-field breakdown workbook from the batch's
// successful detailed extractions.
func Detailed(b *model.Batch) ([]byte, error) {
	f, sheet, err := newWorkbook("Detalhamento", detailedHeaders)
	if err != nil {
		return nil, err
	}

	row := 2
	for _, rec := range b.SuccessRecords() {
		d := rec.DetailedData
		if d == nil {
			continue
		}
		writeCell(f, sheet, 1, row, rec.FileName)
		writeCell(f, sheet, 2, row, d.NumeroNota)
		writeCell(f, sheet, 3, row, d.DataEmissao)
		writeCell(f, sheet, 4, row, d.CNPJPrestador)
		writeCell(f, sheet, 5, row, d.RazaoSocialPrestador)
		writeCell(f, sheet, 6, row, d.CNPJTomador)
		writeCell(f, sheet, 7, row, d.RazaoSocialTomador)
		writeCell(f, sheet, 8, row, d.LocalPrestacao)
		writeCell(f, sheet, 9, row, d.LocalIncidencia)
		writeCell(f, sheet, 10, row, d.CodigoServico)
		writeCell(f, sheet, 11, row, d.ValorTotalNota)
		writeCell(f, sheet, 12, row, d.AliquotaISSQN)
		writeCell(f, sheet, 13, row, d.INSS)
		writeCell(f, sheet, 14, row, d.ISSRetido)
		row++
	}

	return save(f)
}

func newWorkbook(sheet string, headers []string) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, "", eris.Wrap(err, "export: create sheet")
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", eris.Wrap(err, "export: drop default sheet")
	}
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, "", eris.Wrap(err, "export: sheet index")
	}
	f.SetActiveSheet(index)

	for i, h := range headers {
		writeCell(f, sheet, i+1, 1, h)
	}
	_ = f.SetColWidth(sheet, "A", "A", 32)
	return f, sheet, nil
}

func writeCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

func save(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: write workbook")
	}
	return buf.Bytes(), nil
}
