package plantchart

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Field is a canonical column of the plant data
type Field string

const (
	FieldDate           Field = "date"
	FieldSteam          Field = "steam"
	FieldPower          Field = "power"
	FieldTempCombustion Field = "tempCombustion"
	FieldTempFlue       Field = "tempFlue"
	FieldIDF            Field = "idf"
	FieldRGF            Field = "rgf"
	FieldPAF            Field = "paf"
	FieldSoot           Field = "soot"
	FieldProblem        Field = "problem"
)

type keywordGroup struct {
	field    Field
	keywords []string
}

// keywordGroups are checked in order and the first group that matches a
// header claims it
var keywordGroups = []keywordGroup{
	{FieldDate, []string{"date", "time"}},
	{FieldSteam, []string{"steam"}},
	{FieldPower, []string{"export power"}},
	{FieldTempCombustion, []string{"post combustion", "fire temp"}},
	{FieldTempFlue, []string{"inlet bag", "flue temp"}},
	{FieldIDF, []string{"idf"}},
	{FieldRGF, []string{"rgf"}},
	{FieldPAF, []string{"paf running", "pv control"}},
	{FieldSoot, []string{"soot"}},
	{FieldProblem, []string{"problem", "alarm", "trip", "error"}},
}

// ColumnMapping maps canonical fields to the original header they matched
type ColumnMapping map[Field]string

// Header returns the source header for a field and whether it was found
func (m ColumnMapping) Header(f Field) (string, bool) {
	h, ok := m[f]
	return h, ok
}

var lineBreakRE = regexp.MustCompile(`[\r\n]+`)

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.ToLower(lineBreakRE.ReplaceAllString(h, " ")))
}

// MapColumns inspects CSV headers and maps each canonical field to a header.
// When several headers match the same field, the last one wins: exports put
// the authoritative column last when they repeat one.
func MapColumns(headers []string) ColumnMapping {
	mapping := ColumnMapping{}
	for _, h := range headers {
		norm := normalizeHeader(h)
		for _, group := range keywordGroups {
			if lo.SomeBy(group.keywords, func(k string) bool { return strings.Contains(norm, k) }) {
				mapping[group.field] = h
				break
			}
		}
	}
	return mapping
}
