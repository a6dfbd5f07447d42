package services

import (
	"strings"

	"epi-compliance-backend/utils"
)

// Header synonyms as they appear across the compliance sheets. Lookup is
// accent- and case-insensitive (both sides run through utils.NormHeader).
var (
	nomeHeaders        = []string{"Colaborador", "Nome"}
	lojaHeaders        = []string{"Sigla", "Loja"}
	consultorHeaders   = []string{"Consultor de Operações", "Consultor"}
	cargoHeaders       = []string{"Cargo"}
	statusGeralHeaders = []string{"Status Geral"}
	epiHeaders         = []string{"EPI"}
	epiStatusHeaders   = []string{"Status EPI"}
	proximoHeaders     = []string{"Próximo Fornecimento"}
	mesHeaders         = []string{"Mês (Próximo Fornecimento)", "Mês Próximo Fornecimento", "Mês"}
)

// ParsedRecord is one fully normalized sheet row, ready for reconciliation.
// Date fields are canonical "YYYY-MM-DD" or nil.
type ParsedRecord struct {
	RowNumber           int
	Nome                string
	Loja                string
	Consultor           string
	Cargo               *string
	StatusGeral         string
	Epi                 string
	EpiStatus           string
	ProximoFornecimento *string
}

// RowRejection reports a row that failed validation. The identity fields
// carry the values as read from the sheet, before carry-down, so the ledger
// shows what the row actually contained.
type RowRejection struct {
	RowNumber   int
	Reason      string
	Nome        string
	Loja        string
	Consultor   string
	Epi         string
	EpiStatus   string
	StatusGeral string
}

// ForwardFillState carries the last non-empty value seen per grouped column
// so that rows relying on vertically merged cells inherit it.
type ForwardFillState struct {
	Nome        string
	Loja        string
	Consultor   string
	Cargo       *string
	StatusGeral string
}

func pick(row SpreadsheetRow, headers []string) string {
	for _, h := range headers {
		want := utils.NormHeader(h)
		for key, val := range row.Cells {
			if utils.NormHeader(key) == want {
				if v := strings.TrimSpace(val); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// NormalizeRow validates and normalizes a single sheet row. Grouped fields
// (nome, loja, consultor, cargo, status geral) missing from the row are
// inherited from fill; a row that still lacks a collaborator name after
// carry-down, or that has no EPI name or EPI status, is rejected. Loja and
// consultor stay empty when never provided.
func NormalizeRow(row SpreadsheetRow, fill *ForwardFillState) (*ParsedRecord, *RowRejection) {
	rawNome := pick(row, nomeHeaders)
	rawLoja := pick(row, lojaHeaders)
	rawConsultor := pick(row, consultorHeaders)
	rawCargo := pick(row, cargoHeaders)
	rawStatusGeral := pick(row, statusGeralHeaders)
	rawEpi := pick(row, epiHeaders)
	rawEpiStatus := pick(row, epiStatusHeaders)

	nome := rawNome
	if nome == "" {
		nome = fill.Nome
	}
	loja := rawLoja
	if loja == "" {
		loja = fill.Loja
	}
	consultor := rawConsultor
	if consultor == "" {
		consultor = fill.Consultor
	}
	statusGeral := rawStatusGeral
	if statusGeral == "" {
		statusGeral = fill.StatusGeral
	}

	var cargoPtr *string
	if rawCargo != "" {
		cargoPtr = &rawCargo
	} else {
		cargoPtr = fill.Cargo
	}

	// Each column carries from the cell itself, even when the row is later
	// rejected, so a group header row still seeds the rows below it.
	if rawNome != "" {
		fill.Nome = rawNome
	}
	if rawLoja != "" {
		fill.Loja = rawLoja
	}
	if rawConsultor != "" {
		fill.Consultor = rawConsultor
	}
	if rawCargo != "" {
		fill.Cargo = cargoPtr
	}
	if rawStatusGeral != "" {
		fill.StatusGeral = rawStatusGeral
	}

	if nome == "" || rawEpi == "" || rawEpiStatus == "" {
		return nil, &RowRejection{
			RowNumber:   row.Number,
			Reason:      "Campos obrigatórios ausentes (Colaborador, EPI, Status EPI)",
			Nome:        rawNome,
			Loja:        rawLoja,
			Consultor:   rawConsultor,
			Epi:         rawEpi,
			EpiStatus:   rawEpiStatus,
			StatusGeral: rawStatusGeral,
		}
	}

	proximo := ParseISODate(pick(row, proximoHeaders))
	if proximo == nil {
		proximo = FirstDayFromMonthText(pick(row, mesHeaders))
	}

	return &ParsedRecord{
		RowNumber:           row.Number,
		Nome:                utils.NormText(nome),
		Loja:                utils.NormText(loja),
		Consultor:           utils.NormText(consultor),
		Cargo:               normTextPtr(cargoPtr),
		StatusGeral:         utils.NormText(statusGeral),
		Epi:                 utils.NormText(rawEpi),
		EpiStatus:           utils.NormText(rawEpiStatus),
		ProximoFornecimento: proximo,
	}, nil
}

func normTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := utils.NormText(*s)
	if v == "" {
		return nil
	}
	return &v
}
