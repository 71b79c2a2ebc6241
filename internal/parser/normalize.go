package parser

import (
	"strings"
	"time"
	"unicode"

	"fault-service/internal/model"
)

const (
	// reportTimeLayout is the free-text form, e.g. 2025年10月29日15:53.
	reportTimeLayout = "2006年1月2日15:04"
	// FormTimeLayout is the structured-submission form (HTML datetime-local).
	FormTimeLayout = "2006-01-02T15:04"
)

// SanitizeIdentity repairs a person name mangled by chat clients. Runs of any
// character other than CJK ideographs, ASCII letters, digits, whitespace and
// '@' collapse to one space; leading '@' mentions and surrounding whitespace
// are dropped. The result is a fixed point: sanitizing it again is a no-op.
func SanitizeIdentity(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inJunk := false
	for _, r := range raw {
		if identityRune(r) {
			b.WriteRune(r)
			inJunk = false
			continue
		}
		if !inJunk {
			b.WriteByte(' ')
			inJunk = true
		}
	}
	out := strings.TrimLeftFunc(b.String(), func(r rune) bool {
		return r == '@' || unicode.IsSpace(r)
	})
	return strings.TrimRightFunc(out, unicode.IsSpace)
}

func identityRune(r rune) bool {
	switch {
	case r >= 0x4e00 && r <= 0x9fa5:
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '@':
		return true
	}
	return unicode.IsSpace(r)
}

// ParseReportTime reads the free-text timestamp. A value that does not have
// the exact expected shape is reported as absent, never as an error: the
// caller treats absence as an incomplete report.
func ParseReportTime(raw string, loc *time.Location) (time.Time, bool) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), "：", ":")
	if value == "" {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(reportTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ParseFormTime reads the structured-submission timestamp. Unlike
// ParseReportTime any deviation is returned as an error.
func ParseFormTime(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(FormTimeLayout, raw, loc)
}

type categoryRule struct {
	category model.FaultCategory
	keywords []string
}

// Evaluated in order; the first rule with a keyword in the description wins.
var categoryRules = []categoryRule{
	{category: model.FaultCategoryCharging, keywords: []string{"充电", "charging"}},
	{category: model.FaultCategoryObstacle, keywords: []string{"避障", "obstacle"}},
	{category: model.FaultCategoryLocalization, keywords: []string{"定位", "localization"}},
	{category: model.FaultCategoryTask, keywords: []string{"任务", "task"}},
}

func InferCategory(description string) model.FaultCategory {
	text := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return model.FaultCategoryOther
}
