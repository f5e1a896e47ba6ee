package plantchart

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ProblemFlagValue is the plot position of a flagged instant on the event axis
const ProblemFlagValue = 1.05

// Record is one normalized sample of plant data
type Record struct {
	Time time.Time

	Steam          float64
	Power          float64
	TempCombustion float64
	TempFlue       float64
	IDF            float64
	RGF            float64
	PAF            float64
	Soot           float64

	ProblemValue float64
	ProblemText  string
	ProblemCodes []int
}

var (
	leadingNumberRE = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	problemCodeRE   = regexp.MustCompile(`[1-5]`)
)

var placeholderTokens = []string{"-", ".", "_", "n/a", "null"}

// parseNumber reads the leading number of a cell, so "12.5 MW" is 12.5
func parseNumber(s string) (float64, bool) {
	match := leadingNumberRE.FindString(strings.TrimSpace(s))
	if match == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

// zeroSafe treats anything that isn't a number as 0
func zeroSafe(s string) float64 {
	v, ok := parseNumber(s)
	if !ok {
		return 0
	}
	return v
}

// parseProblem derives the plot value, label and codes from a problem cell
func parseProblem(raw string) (float64, string, []int) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, "", []int{}
	}

	codes := []int{}
	for _, m := range problemCodeRE.FindAllString(trimmed, -1) {
		codes = append(codes, int(m[0]-'0'))
	}

	if slices.Contains(placeholderTokens, strings.ToLower(trimmed)) {
		return 0, "", codes
	}

	if num, ok := parseNumber(trimmed); ok {
		if num > 0 {
			return ProblemFlagValue, "Problem", codes
		}
		return 0, "", codes
	}

	return ProblemFlagValue, trimmed, codes
}

// Normalize converts raw rows into records using the column mapping. Rows
// without a valid date or a numeric power value are dropped. The result is
// sorted by time.
func Normalize(rows []map[string]string, mapping ColumnMapping, loc *time.Location) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		r, ok := normalizeRow(row, mapping, loc)
		if !ok {
			continue
		}
		records = append(records, r)
	}
	sortRecords(records)
	return records
}

func normalizeRow(row map[string]string, mapping ColumnMapping, loc *time.Location) (Record, bool) {
	cell := func(f Field) string {
		h, ok := mapping.Header(f)
		if !ok {
			return ""
		}
		return row[h]
	}

	t, ok := ParseDate(cell(FieldDate), loc)
	if !ok {
		return Record{}, false
	}

	power, ok := parseNumber(cell(FieldPower))
	if !ok {
		return Record{}, false
	}

	r := Record{
		Time:           t,
		Steam:          zeroSafe(cell(FieldSteam)),
		Power:          power,
		TempCombustion: zeroSafe(cell(FieldTempCombustion)),
		TempFlue:       zeroSafe(cell(FieldTempFlue)),
		IDF:            zeroSafe(cell(FieldIDF)),
		RGF:            zeroSafe(cell(FieldRGF)),
		PAF:            zeroSafe(cell(FieldPAF)),
		Soot:           zeroSafe(cell(FieldSoot)),
	}
	r.ProblemValue, r.ProblemText, r.ProblemCodes = parseProblem(cell(FieldProblem))

	return r, true
}

func sortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return a.Time.Compare(b.Time)
	})
}
