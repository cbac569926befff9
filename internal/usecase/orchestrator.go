package usecase

import (
	"context"
	"fmt"
	"strings"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
	domservice "AntVillage/internal/domain/service"
	"AntVillage/pkg/logger"
)

var (
	fallbackAdvice = []string{
		"시장 변동성을 주의 깊게 모니터링하세요.",
		"포트폴리오 리밸런싱을 고려해 보세요.",
	}
	fallbackChecklist = []string{
		"시장 뉴스 확인",
		"포트폴리오 점검",
		"투자 계획 검토",
	}
)

// Orchestrator merges the agents' structured outputs into the final
// user-facing briefing with one combined text-generation call. When
// that call fails or its reply is unusable, a deterministic template
// synthesis takes over; the fallback has no external dependency and
// always succeeds.
type Orchestrator struct {
	gen     domservice.TextGenerator
	metrics repository.Metrics
	log     *logger.Logger
}

func NewOrchestrator(gen domservice.TextGenerator, metrics repository.Metrics, log *logger.Logger) *Orchestrator {
	return &Orchestrator{gen: gen, metrics: metrics, log: log}
}

// Compose produces the voice script and visual summary. Either or both
// agent results may be nil.
func (o *Orchestrator) Compose(ctx context.Context, stock *models.StockAnalysis, news *models.NewsAnalysis, village *models.Village, userName, slot string) (string, models.VisualSummary) {
	reply, err := o.gen.Generate(ctx, orchestratorSystemPrompt,
		buildOrchestratorPrompt(stock, news, village, userName, slot))
	if err != nil {
		o.metrics.RecordError("orchestrator")
		o.log.Warn("briefing generation unavailable, using fallback", logger.Error(err))
		return o.fallback(stock, news, village, userName, slot)
	}

	script, summary := ParseBriefingResponse(reply)
	if script == DefaultDisclaimer && len(summary.Advice) == 0 && len(summary.Checklist) == 0 {
		// Reply carried neither section; the template does better.
		o.metrics.RecordError("orchestrator_parse")
		return o.fallback(stock, news, village, userName, slot)
	}
	return script, summary
}

// fallback synthesizes a briefing from whatever agent results exist.
// The script always ends with the fixed disclaimer sentence.
func (o *Orchestrator) fallback(stock *models.StockAnalysis, news *models.NewsAnalysis, village *models.Village, userName, slot string) (string, models.VisualSummary) {
	var parts []string

	name := userName
	if name == "" {
		name = "투자자"
	}
	villageName := ""
	if village != nil && village.Name != "" {
		villageName = fmt.Sprintf(" %s 마을의", village.Name)
	}
	parts = append(parts, fmt.Sprintf("%s님, 좋은 %s입니다.%s 브리핑을 전해드립니다.", name, slotGreeting(slot), villageName))

	if stock != nil {
		if stock.MarketSummary != "" {
			parts = append(parts, stock.MarketSummary)
		}
		if stock.PortfolioPerformance != "" {
			parts = append(parts, stock.PortfolioPerformance)
		}
	}
	if news != nil && news.MarketSentiment != "" {
		parts = append(parts, news.MarketSentiment)
	}
	if stock == nil && news == nil {
		parts = append(parts, "오늘은 시장 분석 데이터를 불러오지 못했습니다. 보유 종목의 시세를 직접 확인해 주세요.")
	}
	parts = append(parts, DefaultDisclaimer)

	summary := models.VisualSummary{
		Advice:    append([]string(nil), fallbackAdvice...),
		Checklist: append([]string(nil), fallbackChecklist...),
	}
	return strings.Join(parts, " "), summary
}
