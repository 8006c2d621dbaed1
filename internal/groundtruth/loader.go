// Package groundtruth loads authoritative spreadsheets and validates
// extracted invoices against them.
package groundtruth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/hederw/nfs-extrator/internal/model"
)

// Load parses one spreadsheet into a normalized record set. Parsing failures
// are recorded on the returned set as an error status with a diagnostic
// message; they never abort the caller, since validation is optional.
func Load(path, label string, mapping model.ColumnMapping) *model.GroundTruthSet {
	set := &model.GroundTruthSet{Label: label, Path: path, Status: model.GroundTruthIdle}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return withError(set, fmt.Sprintf("Não foi possível ler a planilha: %v", err))
	}
	if len(f.Sheets) == 0 {
		return withError(set, "A planilha não contém nenhuma aba.")
	}

	rows := make([][]string, 0, len(f.Sheets[0].Rows))
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	return populate(set, rows, mapping)
}

// populate runs header detection and row normalization over raw rows.
func populate(set *model.GroundTruthSet, rows [][]string, mapping model.ColumnMapping) *model.GroundTruthSet {
	headerIdx, columns := detectHeader(rows)
	if headerIdx < 0 {
		return withError(set, "Nenhuma linha de cabeçalho encontrada na planilha.")
	}
	set.DetectedColumns = headerNames(columns)

	vendorPos, vendorOK := columns[mapping.VendorColumn]
	amountPos, amountOK := columns[mapping.AmountColumn]
	if !vendorOK || !amountOK {
		return withError(set, fmt.Sprintf(
			"Colunas obrigatórias não encontradas: esperado %q e %q; colunas detectadas: %s",
			mapping.VendorColumn, mapping.AmountColumn, strings.Join(set.DetectedColumns, ", ")))
	}

	var records []model.GroundTruthRecord
	dataRows := 0
	for _, row := range rows[headerIdx+1:] {
		if blankAt(row, columns) {
			continue
		}
		dataRows++

		vendor := strings.TrimSpace(cellAt(row, vendorPos))
		amount, ok := NormalizeAmount(cellAt(row, amountPos))
		if vendor == "" || !ok {
			// Garbage rows are common in hand-maintained sheets; drop quietly.
			continue
		}
		records = append(records, model.GroundTruthRecord{Vendor: vendor, Amount: amount})
	}

	if dataRows == 0 {
		return withError(set, fmt.Sprintf(
			"Nenhuma linha de dados encontrada após o cabeçalho. Colunas detectadas: %s",
			strings.Join(set.DetectedColumns, ", ")))
	}

	set.Status = model.GroundTruthSuccess
	set.Message = fmt.Sprintf("%d registros carregados.", len(records))
	set.Records = records
	zap.L().Info("groundtruth: loaded",
		zap.String("label", set.Label),
		zap.Int("records", len(records)),
		zap.Strings("columns", set.DetectedColumns),
	)
	return set
}

// detectHeader returns the index of the first row with any non-blank cell and
// a map from header name to column position. Unlabeled columns are dropped.
func detectHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		columns := make(map[string]int)
		found := false
		for pos, cell := range row {
			name := strings.TrimSpace(cell)
			if name == "" {
				continue
			}
			found = true
			if _, dup := columns[name]; !dup {
				columns[name] = pos
			}
		}
		if found {
			return i, columns
		}
	}
	return -1, nil
}

// headerNames lists detected columns in sheet order.
func headerNames(columns map[string]int) []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if columns[names[j]] < columns[names[i]] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	return names
}

// blankAt reports whether a row is blank across every mapped column.
func blankAt(row []string, columns map[string]int) bool {
	for _, pos := range columns {
		if strings.TrimSpace(cellAt(row, pos)) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// NormalizeAmount converts a pt-BR currency string such as "R$ 1.234,56" to
// its numeric value. The thousands dot is removed and the decimal comma
// becomes a decimal point.
func NormalizeAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("R$", "", "r$", "", " ", "", " ", "").Replace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func withError(set *model.GroundTruthSet, msg string) *model.GroundTruthSet {
	set.Status = model.GroundTruthError
	set.Message = msg
	zap.L().Warn("groundtruth: load failed",
		zap.String("label", set.Label),
		zap.String("path", set.Path),
		zap.String("reason", msg),
	)
	return set
}
