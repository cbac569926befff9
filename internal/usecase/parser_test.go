package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBriefingResponseWellFormed(t *testing.T) {
	raw := `[Voice Script]
개미님, 좋은 아침입니다. 오늘 포트폴리오는 전일 대비 1.2% 상승했습니다.

[Visual Summary]
` + "```json" + `
{"advice": ["분할 매수를 고려하세요."], "checklist": ["환율 확인"], "stock_rationales": ["삼성전자: 반도체 업황 개선"]}
` + "```"

	script, summary := ParseBriefingResponse(raw)
	require.Equal(t, "개미님, 좋은 아침입니다. 오늘 포트폴리오는 전일 대비 1.2% 상승했습니다.", script)
	require.Equal(t, []string{"분할 매수를 고려하세요."}, summary.Advice)
	require.Equal(t, []string{"환율 확인"}, summary.Checklist)
	require.Equal(t, []string{"삼성전자: 반도체 업황 개선"}, summary.StockRationales)
}

func TestParseBriefingResponseBoldMarkers(t *testing.T) {
	raw := `**[Voice Script]** 오늘도 안정적인 흐름입니다. **[Visual Summary]** {"advice":["관망"],"checklist":["점검"]}`

	script, summary := ParseBriefingResponse(raw)
	require.Equal(t, "오늘도 안정적인 흐름입니다.", script)
	require.Equal(t, []string{"관망"}, summary.Advice)
	require.Equal(t, []string{"점검"}, summary.Checklist)
}

func TestParseBriefingResponseNoSections(t *testing.T) {
	script, summary := ParseBriefingResponse("죄송합니다. 답변을 생성할 수 없습니다.")
	require.Equal(t, DefaultDisclaimer, script)
	require.NotNil(t, summary.Advice)
	require.NotNil(t, summary.Checklist)
	require.Empty(t, summary.Advice)
	require.Empty(t, summary.Checklist)
}

func TestParseBriefingResponseVoiceOnly(t *testing.T) {
	script, summary := ParseBriefingResponse("[Voice Script]\n시장이 혼조세입니다.")
	require.Equal(t, "시장이 혼조세입니다.", script)
	require.Empty(t, summary.Advice)
	require.Empty(t, summary.Checklist)
}

func TestParseBriefingResponseEmptyVoiceSection(t *testing.T) {
	script, _ := ParseBriefingResponse("[Voice Script]\n   \n[Visual Summary]\n{\"advice\":[\"a\"],\"checklist\":[]}")
	require.Equal(t, DefaultDisclaimer, script)
}

func TestParseBriefingResponseMalformedVisualJSON(t *testing.T) {
	raw := "[Voice Script]\n안녕하세요.\n[Visual Summary]\n{advice: broken"
	script, summary := ParseBriefingResponse(raw)
	require.Equal(t, "안녕하세요.", script)
	require.Empty(t, summary.Advice)
	require.Empty(t, summary.Checklist)
}

func TestParseBriefingResponseUnknownKeysIgnored(t *testing.T) {
	raw := `[Voice Script] 요약입니다. [Visual Summary] {"advice":["a"],"checklist":["b"],"mood":"bullish"}`
	_, summary := ParseBriefingResponse(raw)
	require.Equal(t, []string{"a"}, summary.Advice)
	require.Equal(t, []string{"b"}, summary.Checklist)
}

func TestParseBriefingResponseTrailingProse(t *testing.T) {
	raw := `[Voice Script] 오늘의 브리핑입니다. [Visual Summary]
{"advice":["분할 매수"],"checklist":["환율 확인"]}
위 내용은 참고용입니다. {주의} 표시된 항목을 먼저 확인하세요.`

	_, summary := ParseBriefingResponse(raw)
	require.Equal(t, []string{"분할 매수"}, summary.Advice)
	require.Equal(t, []string{"환율 확인"}, summary.Checklist)
}

func TestExtractJSONObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, extractJSONObject(`{"a":1}`))
	require.Equal(t, `{"a":{"b":2}}`, extractJSONObject(`prefix {"a":{"b":2}} suffix }`))
	require.Equal(t, `{"a":"br}ace"}`, extractJSONObject(`{"a":"br}ace"} tail`))
	require.Equal(t, `{"a":"esc\"}"}`, extractJSONObject(`{"a":"esc\"}"}`))
	require.Empty(t, extractJSONObject("no object here"))
	require.Empty(t, extractJSONObject(`{"unbalanced":`))
}

func TestStripCodeFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
