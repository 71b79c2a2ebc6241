// Package parser turns free-form fault narratives into candidate fault records.
package parser

import "strings"

type Field string

const (
	FieldReporter    Field = "reporter"
	FieldTime        Field = "time"
	FieldVehicle     Field = "vehicle_info"
	FieldDescription Field = "alarm_description"
	FieldSolution    Field = "solution"
	FieldResponsible Field = "responsible_person"
)

// Both the ASCII and the full-width colon separate a label from its value.
var labelSeparators = []string{":", "："}

// Rule binds a field to the line labels that introduce it. Labels are matched
// case-sensitively at the very start of a line.
type Rule struct {
	Field  Field
	Labels []string
}

var DefaultRules = []Rule{
	{Field: FieldReporter, Labels: []string{"发现人员"}},
	{Field: FieldTime, Labels: []string{"时间"}},
	{Field: FieldVehicle, Labels: []string{"车辆信息"}},
	{Field: FieldDescription, Labels: []string{"报警描述"}},
	{Field: FieldSolution, Labels: []string{"解决办法"}},
	{Field: FieldResponsible, Labels: []string{"责任人"}},
}

// Extraction maps a recognized field to the raw, untrimmed text that followed
// its label. Fields with no matching line are absent.
type Extraction map[Field]string

type Extractor struct {
	rules []Rule
}

func NewExtractor(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract scans text line by line. The first line matching a field wins.
func (e *Extractor) Extract(text string) Extraction {
	out := make(Extraction, len(e.rules))
	for _, line := range strings.Split(text, "\n") {
		for _, rule := range e.rules {
			value, ok := rule.match(line)
			if !ok {
				continue
			}
			if _, seen := out[rule.Field]; !seen {
				out[rule.Field] = value
			}
			break
		}
	}
	return out
}

func (r Rule) match(line string) (string, bool) {
	for _, label := range r.Labels {
		rest, ok := strings.CutPrefix(line, label)
		if !ok {
			continue
		}
		for _, sep := range labelSeparators {
			if value, ok := strings.CutPrefix(rest, sep); ok {
				return value, true
			}
		}
	}
	return "", false
}
