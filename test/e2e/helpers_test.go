package e2e_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/pkg/client"
)

const (
	gapguHeader = "【갑구】 (소유권에 관한 사항)\n순위번호 | 등기목적 | 접수 | 등기원인 | 권리자 및 기타사항\n"
	eulguHeader = "【을구】 (소유권 이외의 권리에 관한 사항)\n순위번호 | 등기목적 | 접수 | 등기원인 | 권리자 및 기타사항\n"

	baseMortgageRow = "1 | 근저당권설정 | 2019년5월2일 제5555호 | 2019년5월2일 설정계약 | 채권최고액 금120,000,000원 근저당권자 주식회사국민은행"
)

// auctionRow renders an auction-start row with the given rank number.
func auctionRow(rank int) string {
	return fmt.Sprintf("%d | 임의경매개시결정 | 2024년1월2일 제3333호 | 2024년1월2일 임의경매개시결정 | 채권자 주식회사국민은행", rank)
}

// randomSuffix keeps documents unique across runs against a shared server,
// whose cache would otherwise answer repeat submissions.
func randomSuffix() string {
	return fmt.Sprintf("e2e-%d", time.Now().UnixNano())
}

// buildRegister renders a text extract with one ownership row followed by
// the given ownership-section and encumbrance-section rows.
func buildRegister(owner string, gapgu, eulgu []string) string {
	var b strings.Builder
	b.WriteString(gapguHeader)
	b.WriteString("1 | 소유권이전 | 2015년3월2일 제1234호 | 2015년2월1일 매매 | 소유자 " + owner + "\n")
	for _, row := range gapgu {
		b.WriteString(row + "\n")
	}
	if len(eulgu) > 0 {
		b.WriteString(eulguHeader)
		for _, row := range eulgu {
			b.WriteString(row + "\n")
		}
	}
	return b.String()
}

func submitText(t *testing.T, content string) (*client.Classification, bool) {
	t.Helper()
	rec, created, err := env.sdk.Classifications().Submit(testContext(t), &client.SubmitRequest{
		Format:  client.FormatText,
		Content: content,
	})
	require.NoError(t, err)
	return rec, created
}

// rightPurposes lists the stated purposes of a classification bucket.
func rightPurposes(rights []client.Right) []string {
	out := make([]string, 0, len(rights))
	for _, r := range rights {
		out = append(out, r.Event.StatedPurpose)
	}
	return out
}

func hardStopIDs(stops []client.HardStop) []string {
	out := make([]string, 0, len(stops))
	for _, hs := range stops {
		out = append(out, hs.RuleID)
	}
	return out
}

// getBody fetches path from the server under test.
func getBody(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(env.baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

//Personal.AI order the ending
