package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"epi-compliance-backend/db/models"
	importservices "epi-compliance-backend/imports/services"
	"epi-compliance-backend/utils"
)

// ErrNoSheets is returned when the workbook has no sheets at all.
var ErrNoSheets = errors.New("workbook has no sheets")

const baseSheetLabel = "base 2025"

// The incident sheets are filled in São Paulo time.
var saoPaulo = time.FixedZone("-03:00", -3*60*60)

// headerFields maps normalized sheet headers to canonical field keys. Headers
// not present here land in the record's extra payload.
var headerFields = map[string]string{
	"ocorrencia":          "ocorrencia",
	"data":                "data",
	"horario":             "horario",
	"hora":                "horario",
	"unidade":             "unidade",
	"area":                "area",
	"natureza_da_lesao":   "natureza_lesao",
	"natureza_lesao":      "natureza_lesao",
	"descricao":           "descricao",
	"descricao_resumida":  "descricao",
	"nome":                "nome",
	"colaborador":         "nome",
	"consultor":           "consultor",
	"data_de_admissao":    "data_admissao",
	"data_admissao":       "data_admissao",
	"periodo":             "periodo",
	"dia_da_semana":       "dia_semana",
	"dias":                "dias",
	"meses":               "meses",
	"anos":                "anos",
	"operacao":            "operacao",
	"estacao/maquina":     "estacao_maquina",
	"estacao_maquina":     "estacao_maquina",
	"situacao_geradora":   "situacao_geradora",
	"parte_do_corpo":      "parte_corpo",
	"parte_corpo":         "parte_corpo",
	"agente_causador":     "agente_causador",
	"dias_de_afastamento": "dias_afastamento",
	"dias_afastamento":    "dias_afastamento",
}

// ParsedOcorrencias is the outcome of decoding one incident workbook.
type ParsedOcorrencias struct {
	Sheet       string
	TotalRows   int
	Records     []models.Ocorrencia
	Failed      int
	Mapped      map[string]string
	SampleError string
}

// ParseWorkbook decodes the incident workbook: picks the "base" sheet, maps
// headers to canonical fields, parses dates and times, and derives the
// identity hash each record is upserted under. Rows that cannot produce an
// identity are counted as failed, never fatal.
func ParseWorkbook(data []byte) (*ParsedOcorrencias, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]
	for _, label := range []string{baseSheetLabel, "base"} {
		found := false
		for _, name := range sheets {
			if strings.Contains(strings.ToLower(name), label) {
				sheet = name
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading rows from sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return &ParsedOcorrencias{Sheet: sheet, Mapped: map[string]string{}}, nil
	}

	headers := rows[0]
	mapped := map[string]string{}
	for _, h := range headers {
		if h == "" {
			continue
		}
		if field, ok := headerFields[utils.NormHeader(h)]; ok {
			mapped[h] = field
		}
	}

	out := &ParsedOcorrencias{Sheet: sheet, Mapped: mapped}
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		fields := map[string]string{}
		extra := map[string]string{}
		empty := true
		for j, h := range headers {
			if h == "" || j >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[j])
			if v == "" {
				continue
			}
			empty = false
			if field, ok := headerFields[utils.NormHeader(h)]; ok {
				fields[field] = v
			} else {
				extra[h] = v
			}
		}
		if empty {
			continue
		}
		out.TotalRows++

		rec, err := buildRecord(fields, extra)
		if err != nil {
			out.Failed++
			if out.SampleError == "" {
				out.SampleError = fmt.Sprintf("linha %d: %v", i+1, err)
			}
			continue
		}
		out.Records = append(out.Records, *rec)
	}
	return out, nil
}

func buildRecord(fields, extra map[string]string) (*models.Ocorrencia, error) {
	data := parseDateField(fields["data"])
	horario := parseTimeField(fields["horario"])
	nome := strField(fields, "nome")

	if data == nil && nome == nil {
		return nil, errors.New("sem data e sem nome, impossível identificar a ocorrência")
	}

	rec := &models.Ocorrencia{
		ID:               uuid.New(),
		Ocorrencia:       strField(fields, "ocorrencia"),
		Data:             data,
		Horario:          horario,
		Unidade:          strField(fields, "unidade"),
		Area:             strField(fields, "area"),
		NaturezaLesao:    strField(fields, "natureza_lesao"),
		Descricao:        strField(fields, "descricao"),
		Nome:             nome,
		Consultor:        strField(fields, "consultor"),
		DataAdmissao:     parseDateField(fields["data_admissao"]),
		Periodo:          strField(fields, "periodo"),
		DiaSemanaTxt:     strField(fields, "dia_semana"),
		Dias:             intField(fields, "dias"),
		Meses:            intField(fields, "meses"),
		Anos:             intField(fields, "anos"),
		Operacao:         strField(fields, "operacao"),
		EstacaoMaquina:   strField(fields, "estacao_maquina"),
		SituacaoGeradora: strField(fields, "situacao_geradora"),
		ParteCorpo:       strField(fields, "parte_corpo"),
		AgenteCausador:   strField(fields, "agente_causador"),
		DiasAfastamento:  intField(fields, "dias_afastamento"),
	}

	if data != nil {
		hhmmss := "00:00:00"
		if horario != nil {
			hhmmss = *horario
		}
		if ts, err := time.ParseInLocation("2006-01-02 15:04:05", *data+" "+hhmmss, saoPaulo); err == nil {
			iso := ts.Format(time.RFC3339)
			rec.Ts = &iso
		}
	}

	if len(extra) > 0 {
		if raw, err := json.Marshal(extra); err == nil {
			rec.ExtraJSON = datatypes.JSON(raw)
		}
	}

	rec.Hash = identityHash(rec)
	return rec, nil
}

// identityHash fingerprints the fields that make two sheet rows "the same
// incident", so re-imports update instead of duplicating.
func identityHash(rec *models.Ocorrencia) string {
	parts := []string{
		deref(rec.Data), deref(rec.Horario), deref(rec.Nome),
		deref(rec.NaturezaLesao), deref(rec.Descricao), deref(rec.Unidade),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strField(fields map[string]string, key string) *string {
	v, ok := fields[key]
	if !ok || v == "" {
		return nil
	}
	return &v
}

func intField(fields map[string]string, key string) *int {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// parseDateField accepts spreadsheet serials, DD/MM/YYYY variants and ISO
// dates; anything else is treated as absent.
func parseDateField(v string) *string {
	if v == "" {
		return nil
	}
	return importservices.ParseISODate(v)
}

// parseTimeField accepts a day-fraction serial ("0.5" = noon) or HH:MM[:SS]
// text, returning "HH:MM:SS".
func parseTimeField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
		secs := int(math.Round(f * 86400))
		out := fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
		return &out
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			out := t.Format("15:04:05")
			return &out
		}
	}
	return nil
}
