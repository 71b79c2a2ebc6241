package parser

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fault-service/internal/model"
)

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "张三", "张三"},
		{"mojibake around cjk", "￳张三￰", "张三"},
		{"stray symbols", "#*张三!!", "张三"},
		{"leading mention", "@李四", "李四"},
		{"mention after junk", "￳@王五￰", "王五"},
		{"latin and digits", "Bob_Smith2", "Bob Smith2"},
		{"junk runs collapse", "a!!!b", "a b"},
		{"doubled mention", "@@ @赵六", "赵六"},
		{"only junk", "￳￰", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeIdentity(tt.in))
		})
	}
}

func TestSanitizeIdentity_Idempotent(t *testing.T) {
	inputs := []string{
		"@ 张三", "​@李四​", "  x@y.com ", "@@", "张三\t(组长)", "名字😀名字", "@",
	}
	for _, in := range inputs {
		once := SanitizeIdentity(in)
		assert.Equal(t, once, SanitizeIdentity(once), "input %q", in)
		assert.False(t, strings.HasPrefix(once, "@"), "input %q", in)
		for _, r := range once {
			assert.True(t, identityRune(r), "rune %q in %q", r, once)
		}
		assert.Equal(t, strings.TrimFunc(once, unicode.IsSpace), once)
	}
}

func TestParseReportTime_ColonVariantsAgree(t *testing.T) {
	full, ok := ParseReportTime("2025年10月29日15：53", time.UTC)
	require.True(t, ok)
	ascii, ok := ParseReportTime(" 2025年10月29日15:53 ", time.UTC)
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 10, 29, 15, 53, 0, 0, time.UTC), full)
	assert.True(t, full.Equal(ascii))
	assert.Equal(t, full.Format(time.RFC3339), ascii.Format(time.RFC3339))
}

func TestParseReportTime_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"2025-10-29 15:53",
		"2025年10月29日",
		"2025年10月29日15:53:10",
		"2025年13月01日10:00",
		"2025年02月30日10:00",
		"昨天下午",
	} {
		_, ok := ParseReportTime(in, time.UTC)
		assert.False(t, ok, "input %q", in)
	}
}

func TestParseFormTime(t *testing.T) {
	ts, err := ParseFormTime("2025-10-29T15:53", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 29, 15, 53, 0, 0, time.UTC), ts)

	for _, in := range []string{"2025-10-29T15:53:00", "2025-10-29 15:53", "2025-10-29T15:53Z", ""} {
		_, err := ParseFormTime(in, time.UTC)
		assert.Error(t, err, "input %q", in)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		desc string
		want model.FaultCategory
	}{
		{"充电桩无法对接", model.FaultCategoryCharging},
		{"充电后任务未执行", model.FaultCategoryCharging},
		{"避障雷达误报导致任务中断", model.FaultCategoryObstacle},
		{"定位丢失，任务暂停", model.FaultCategoryLocalization},
		{"任务执行超时", model.FaultCategoryTask},
		{"Charging dock timeout", model.FaultCategoryCharging},
		{"obstacle sensor blocked during task", model.FaultCategoryObstacle},
		{"车轮异响", model.FaultCategoryOther},
		{"", model.FaultCategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := InferCategory(tt.desc)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}
