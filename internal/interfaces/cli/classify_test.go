package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const extractText = `【표제부】 (건물의 표시)
표시번호 | 접수 | 소재지번 및 건물번호 | 건물내역 | 등기원인 및 기타사항
1 | 2010년3월2일 | 서울특별시 강남구 역삼동 123-4 | 철근콘크리트구조 84.52㎡ |
【갑구】 (소유권에 관한 사항)
순위번호 | 등기목적 | 접수 | 등기원인 | 권리자 및 기타사항
1 | 소유권보존 | 2010년3월2일 제1234호 | | 소유자 홍길동
2 | 가압류 | 2021년5월6일 제2222호 | 가압류결정 | 청구금액 금30,000,000원
3 | 임의경매개시결정 | 2024년1월2일 제3333호 | 임의경매개시결정 | 채권자 주식회사우리은행
【을구】 (소유권 이외의 권리에 관한 사항)
순위번호 | 등기목적 | 접수 | 등기원인 | 권리자 및 기타사항
1 | 근저당권설정 | 2020년1월1일 제111호 | 설정계약 | 채권최고액 금120,000,000원
  |  |  |  | 근저당권자 주식회사우리은행
`

const extractJSON = `{
  "sections": [
    {"name": "【갑구】", "rows": [
      {"type": "data", "0": "1", "1": "소유권보존", "2": "2010년3월2일 제1234호", "4": "소유자 홍길동"}
    ]},
    {"name": "【을구】", "rows": [
      {"type": "data", "0": "1", "1": "근저당권설정", "2": "2020년1월1일 제111호", "3": "설정계약", "4": "채권최고액 금120,000,000원"}
    ]}
  ]
}`

func writeExtract(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runClassifyCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"classify", "--config", writeConfig(t, quietConfig)}, args...)
	out, _, err := executeCommand(t, NewRootCommand(), full...)
	return out, err
}

func TestClassify_TextOutput(t *testing.T) {
	path := writeExtract(t, "extract.txt", extractText)

	out, err := runClassifyCommand(t, "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "file: "+path)
	assert.Contains(t, out, "근저당권설정")
	assert.Contains(t, out, "base rule: earliest-mortgage")
	assert.Contains(t, out, "extinguished: 1")
	assert.Contains(t, out, "surviving: 0")
	assert.Contains(t, out, "uncertain: 1")
	assert.NotContains(t, out, "rule hits:")
	assert.NotContains(t, out, "warnings:")

	// Summary lines are printed exactly once.
	assert.Equal(t, 1, strings.Count(out, "confidence: MEDIUM"))
	assert.Equal(t, 1, strings.Count(out, "hard stops: none"))
	assert.Equal(t, 1, strings.Count(out, "cancellation base:"))
}

func TestResultView_WarningsAndRuleHitsOnce(t *testing.T) {
	ev := registry.RegistryEvent{Seq: 2, Section: registry.SectionGapgu, StatedPurpose: "신탁", Kind: registry.KindTrust}
	v := resultView{File: "x.txt", Result: registry.ClassificationResult{
		Summary:    "address: 서울\nhard stops: 신탁등기\nconfidence: LOW",
		Confidence: registry.ConfidenceLow,
		HardStops:  []registry.HardStopFlag{{RuleID: "HS003", Name: "신탁등기", Event: ev}},
		Document:   registry.RegistryDocument{ParseWarnings: []string{"row 3: unparseable date"}},
		Warnings:   []string{"row 3: unparseable date"},
	}}

	out := v.String()
	assert.Equal(t, 1, strings.Count(out, "row 3: unparseable date"))
	assert.Equal(t, 1, strings.Count(out, "confidence: LOW"))
	assert.Equal(t, 1, strings.Count(out, "신탁등기"))
	assert.Contains(t, out, "rule hits:\n  HS003 ")
	assert.NotContains(t, out, "base rule:")
}

func TestClassify_JSONOutput(t *testing.T) {
	path := writeExtract(t, "extract.txt", extractText)

	out, err := runClassifyCommand(t, "--file", path, "-o", "json")
	require.NoError(t, err)

	var res registry.ClassificationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, registry.BaseRuleMortgage, res.BaseRule)
	assert.Equal(t, registry.ConfidenceMedium, res.Confidence)
	assert.Equal(t, registry.SourceText, res.Document.Source)
}

func TestClassify_TableOutput(t *testing.T) {
	path := writeExtract(t, "extract.txt", extractText)

	out, err := runClassifyCommand(t, "--file", path, "-o", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+4)
	assert.True(t, strings.HasPrefix(lines[0], "SEQ"))
	assert.Contains(t, lines[0], "HARD STOP")
	assert.Contains(t, out, "BASE")
	assert.Contains(t, out, "EXTINGUISHED")
	assert.Contains(t, out, "UNCERTAIN")
}

func TestClassify_StructuredByExtension(t *testing.T) {
	path := writeExtract(t, "extract.json", extractJSON)

	out, err := runClassifyCommand(t, "--file", path, "-o", "json")
	require.NoError(t, err)

	var res registry.ClassificationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, registry.SourceStructured, res.Document.Source)
	assert.Len(t, res.Document.Events, 2)
}

func TestClassify_Stdin(t *testing.T) {
	root := NewRootCommand()
	root.SetIn(strings.NewReader(extractText))

	out, _, err := executeCommand(t, root, "classify", "--config", writeConfig(t, quietConfig), "--file", "-", "-o", "json")
	require.NoError(t, err)
	var res registry.ClassificationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, registry.BaseRuleMortgage, res.BaseRule)
}

func TestClassify_Batch(t *testing.T) {
	text := writeExtract(t, "a.txt", extractText)
	structured := writeExtract(t, "b.json", extractJSON)

	out, err := runClassifyCommand(t, "--file", text, "--file", structured, "-o", "json")
	require.NoError(t, err)

	var views []resultView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, text, views[0].File)
	assert.Equal(t, registry.SourceText, views[0].Result.Document.Source)
	assert.Equal(t, structured, views[1].File)
	assert.Equal(t, registry.SourceStructured, views[1].Result.Document.Source)

	table, err := runClassifyCommand(t, "--file", text, "--file", structured, "-o", "table")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(table, "FILE"))
	assert.Contains(t, table, structured)
}

func TestClassify_Errors(t *testing.T) {
	big := writeExtract(t, "big.txt", extractText)
	limited := writeConfig(t, quietConfig+"classification:\n  max_content_bytes: 16\n")

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing file", []string{"--config", writeConfig(t, quietConfig), "--file", filepath.Join(t.TempDir(), "none.txt")}, errors.ErrCodeSourceObjectMissing},
		{"unknown format", []string{"--config", writeConfig(t, quietConfig), "--file", big, "--format", "xml"}, errors.ErrCodeBadRequest},
		{"too large", []string{"--config", limited, "--file", big}, errors.ErrCodeInputTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, NewRootCommand(), append([]string{"classify"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), err.Error())
		})
	}
}

func TestClassify_RequiresFile(t *testing.T) {
	_, err := runClassifyCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestInputFormat(t *testing.T) {
	assert.Equal(t, "json", string(inputFormat("a.JSON", "")))
	assert.Equal(t, "text", string(inputFormat("a.txt", "")))
	assert.Equal(t, "text", string(inputFormat("-", "")))
	assert.Equal(t, "json", string(inputFormat("a.txt", "json")))
}

//Personal.AI order the ending
