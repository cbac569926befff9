package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
	"AntVillage/pkg/logger"
)

func newTestOrchestrator(gen *stubGen) *Orchestrator {
	return NewOrchestrator(gen, nopMetrics{}, logger.NewNop())
}

func TestComposeUsesGeneratedReply(t *testing.T) {
	gen := &stubGen{reply: `[Voice Script] 오늘 포트폴리오는 상승했습니다. [Visual Summary] {"advice":["보유 유지"],"checklist":["뉴스 확인"]}`}
	o := newTestOrchestrator(gen)

	script, summary := o.Compose(context.Background(), nil, nil, &models.Village{Name: "성장주"}, "개미", models.SlotMorning)
	require.Equal(t, "오늘 포트폴리오는 상승했습니다.", script)
	require.Equal(t, []string{"보유 유지"}, summary.Advice)
	require.Equal(t, 1, gen.callCount())
}

func TestComposeFallbackOnGenerationError(t *testing.T) {
	gen := &stubGen{err: errors.New("provider down")}
	o := newTestOrchestrator(gen)

	stock := &models.StockAnalysis{MarketSummary: "시장은 혼조세였습니다.", PortfolioPerformance: "포트폴리오는 0.5% 상승했습니다."}
	news := &models.NewsAnalysis{MarketSentiment: "투자 심리는 중립적입니다."}

	script, summary := o.Compose(context.Background(), stock, news, &models.Village{Name: "배당주"}, "개미", models.SlotEvening)

	require.True(t, strings.HasSuffix(script, DefaultDisclaimer))
	require.Contains(t, script, "개미님")
	require.Contains(t, script, "배당주 마을")
	require.Contains(t, script, "시장은 혼조세였습니다.")
	require.Contains(t, script, "투자 심리는 중립적입니다.")
	require.Len(t, summary.Advice, 2)
	require.Len(t, summary.Checklist, 3)
}

func TestComposeFallbackOnUnusableReply(t *testing.T) {
	gen := &stubGen{reply: "죄송합니다, 지금은 도와드릴 수 없습니다."}
	o := newTestOrchestrator(gen)

	script, summary := o.Compose(context.Background(), nil, nil, nil, "", models.SlotMorning)

	require.True(t, strings.HasSuffix(script, DefaultDisclaimer))
	require.Contains(t, script, "투자자님")
	require.Contains(t, script, "시장 분석 데이터를 불러오지 못했습니다")
	require.Len(t, summary.Advice, 2)
	require.Len(t, summary.Checklist, 3)
}

func TestComposeFallbackWithoutVillageName(t *testing.T) {
	gen := &stubGen{err: errors.New("timeout")}
	o := newTestOrchestrator(gen)

	script, _ := o.Compose(context.Background(), nil, nil, &models.Village{}, "개미", models.SlotMorning)
	require.NotContains(t, script, "마을")
	require.True(t, strings.HasSuffix(script, DefaultDisclaimer))
}

func TestComposeFallbackCopiesDefaults(t *testing.T) {
	gen := &stubGen{err: errors.New("down")}
	o := newTestOrchestrator(gen)

	_, summary := o.Compose(context.Background(), nil, nil, nil, "", models.SlotMorning)
	summary.Advice[0] = "mutated"
	require.NotEqual(t, "mutated", fallbackAdvice[0])
}
