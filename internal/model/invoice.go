package model

// InvoiceData holds the basic field set extracted from an invoice page.
// Prestador, NumeroNota, DataEmissao and ValorLiquido are the user-editable
// fields a reviewer may correct after a successful extraction.
type InvoiceData struct {
	Prestador    string  `json:"prestador"`
	NumeroNota   string  `json:"numeroNota"`
	DataEmissao  string  `json:"dataEmissao"`
	ValorLiquido float64 `json:"valorLiquido"`
}

// DetailedInvoiceData holds the full thirteen-field NFS-e breakdown.
// Numeric fields default to 0 and text fields to "" when the value is not
// visible on the document.
type DetailedInvoiceData struct {
	NumeroNota           string  `json:"numeroNota"`
	DataEmissao          string  `json:"dataEmissao"`
	CNPJPrestador        string  `json:"cnpjPrestador"`
	RazaoSocialPrestador string  `json:"razaoSocialPrestador"`
	CNPJTomador          string  `json:"cnpjTomador"`
	RazaoSocialTomador   string  `json:"razaoSocialTomador"`
	LocalPrestacao       string  `json:"localPrestacao"`
	LocalIncidencia      string  `json:"localIncidencia"`
	CodigoServico        string  `json:"codigoServico"`
	ValorTotalNota       float64 `json:"valorTotalNota"`
	AliquotaISSQN        float64 `json:"aliquotaIssqn"`
	INSS                 float64 `json:"inss"`
	ISSRetido            float64 `json:"issRetido"`
}
