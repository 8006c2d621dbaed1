package gemini

// Response schemas declared to the model, and their JSON Schema twins used to
// reject malformed payloads before they reach a record.

// basicRequestSchema is the Gemini generationConfig schema for the basic
// field set.
var basicRequestSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"prestador":    map[string]any{"type": "STRING", "description": "Nome completo ou razão social do prestador de serviço."},
		"numeroNota":   map[string]any{"type": "STRING", "description": "O número da nota fiscal."},
		"dataEmissao":  map[string]any{"type": "STRING", "description": "A data de emissão no formato AAAA-MM-DD."},
		"valorLiquido": map[string]any{"type": "NUMBER", "description": "O valor líquido da nota, como um número."},
	},
	"required": []string{"prestador", "numeroNota", "dataEmissao", "valorLiquido"},
}

var basicValidationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prestador":    map[string]any{"type": "string", "minLength": 1},
		"numeroNota":   map[string]any{"type": "string", "minLength": 1},
		"dataEmissao":  map[string]any{"type": "string", "minLength": 1},
		"valorLiquido": map[string]any{"type": "number"},
	},
	"required": []any{"prestador", "numeroNota", "dataEmissao", "valorLiquido"},
}

// detailedRequestSchema declares the thirteen-field NFS-e breakdown.
var detailedRequestSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"numeroNota":           map[string]any{"type": "STRING", "description": "O número da nota fiscal."},
		"dataEmissao":          map[string]any{"type": "STRING", "description": "A data de emissão."},
		"cnpjPrestador":        map[string]any{"type": "STRING", "description": "CNPJ do prestador de serviço (apenas números ou formatado)."},
		"razaoSocialPrestador": map[string]any{"type": "STRING", "description": "Razão Social do prestador."},
		"cnpjTomador":          map[string]any{"type": "STRING", "description": "CNPJ do tomador de serviço."},
		"razaoSocialTomador":   map[string]any{"type": "STRING", "description": "Razão Social do tomador."},
		"localPrestacao":       map[string]any{"type": "STRING", "description": "Local onde o serviço foi prestado (Cidade/UF)."},
		"localIncidencia":      map[string]any{"type": "STRING", "description": "Local de incidência do ISSQN."},
		"codigoServico":        map[string]any{"type": "STRING", "description": "Código do serviço prestado."},
		"valorTotalNota":       map[string]any{"type": "NUMBER", "description": "Valor total bruto da nota."},
		"aliquotaIssqn":        map[string]any{"type": "NUMBER", "description": "Alíquota do ISSQN em porcentagem (ex: 5.0)."},
		"inss":                 map[string]any{"type": "NUMBER", "description": "Valor do INSS retido ou calculado."},
		"issRetido":            map[string]any{"type": "NUMBER", "description": "Valor do ISS retido."},
	},
	"required": []string{
		"numeroNota", "dataEmissao",
		"cnpjPrestador", "razaoSocialPrestador", "cnpjTomador", "razaoSocialTomador",
		"localPrestacao", "localIncidencia", "codigoServico", "valorTotalNota",
		"aliquotaIssqn", "inss", "issRetido",
	},
}

var detailedValidationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"numeroNota":           map[string]any{"type": "string"},
		"dataEmissao":          map[string]any{"type": "string"},
		"cnpjPrestador":        map[string]any{"type": "string"},
		"razaoSocialPrestador": map[string]any{"type": "string"},
		"cnpjTomador":          map[string]any{"type": "string"},
		"razaoSocialTomador":   map[string]any{"type": "string"},
		"localPrestacao":       map[string]any{"type": "string"},
		"localIncidencia":      map[string]any{"type": "string"},
		"codigoServico":        map[string]any{"type": "string"},
		"valorTotalNota":       map[string]any{"type": "number"},
		"aliquotaIssqn":        map[string]any{"type": "number"},
		"inss":                 map[string]any{"type": "number"},
		"issRetido":            map[string]any{"type": "number"},
	},
	"required": []any{
		"numeroNota", "dataEmissao",
		"cnpjPrestador", "razaoSocialPrestador", "cnpjTomador", "razaoSocialTomador",
		"localPrestacao", "localIncidencia", "codigoServico", "valorTotalNota",
		"aliquotaIssqn", "inss", "issRetido",
	},
}

const basicPromptPrefix = "Com base na imagem da nota fiscal, extraia as seguintes informações. Instruções adicionais: "

const detailedPrompt = `Analise a nota fiscal e extraia EXATAMENTE os seguintes campos:
1. Número da Nota
2. Data de Emissão
3. CNPJ do Prestador
4. Razão Social do Prestador
5. CNPJ do Tomador
6. Razão Social do Tomador
7. Local de Prestação de Serviço
8. Local de Incidência do ISSQN
9. Código do Serviço
10. Valor Total da Nota
11. Alíquota ISSQN
12. INSS
13. ISS Retido

Se algum valor monetário ou percentual não estiver explícito, use 0. Se texto não for encontrado, use string vazia.`
