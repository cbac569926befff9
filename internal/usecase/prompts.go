package usecase

import (
	"fmt"
	"strings"

	"AntVillage/internal/domain/models"
)

const stockAgentSystemPrompt = `당신은 주식 시장 분석 전문가입니다. 제공된 시세 데이터를 바탕으로 사용자 포트폴리오를 분석합니다.
반드시 아래 키를 가진 JSON 객체 하나만 출력하세요. 다른 텍스트는 포함하지 마세요.
{
  "market_summary": "오늘 시장 전반에 대한 2-3문장 요약",
  "portfolio_performance": "사용자 보유 종목의 성과 요약",
  "key_movers": ["주목할 만한 변동 종목과 이유"],
  "technical_insights": "기술적 관점의 짧은 코멘트"
}`

const newsAgentSystemPrompt = `당신은 금융 뉴스 분석 전문가입니다. 제공된 헤드라인을 바탕으로 시장 분위기를 분석합니다.
반드시 아래 키를 가진 JSON 객체 하나만 출력하세요. 다른 텍스트는 포함하지 마세요.
{
  "market_sentiment": "전반적인 시장 심리 (긍정/중립/부정과 근거)",
  "key_headlines": [{"title": "헤드라인", "summary": "한 줄 요약"}],
  "ticker_specific": {"종목코드": "해당 종목 관련 뉴스 요약"},
  "risk_alerts": ["주의해야 할 리스크"]
}
key_headlines는 최대 3개까지만 담으세요.`

const orchestratorSystemPrompt = `당신은 개인 투자 브리핑 작가입니다. 분석 결과를 바탕으로 사용자에게 전달할 브리핑을 작성합니다.
응답은 반드시 아래 두 섹션으로 구성하세요.

[Voice Script]
음성으로 읽어주기 좋은 자연스러운 한국어 브리핑. 인사말로 시작하고, 핵심 내용을 담되 3-5문장으로 간결하게. 마지막 문장은 투자 판단 책임에 대한 고지로 마무리.

[Visual Summary]
아래 키를 가진 JSON 객체:
{
  "advice": ["실행 가능한 조언 2개"],
  "checklist": ["오늘 확인할 항목 3개"],
  "stock_rationales": ["보유 종목별 한 줄 코멘트"]
}`

func slotGreeting(slot string) string {
	if slot == models.SlotEvening {
		return "저녁"
	}
	return "아침"
}

func buildStockAgentPrompt(ctxData models.MarketContext, village *models.Village, userName, slot string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "사용자: %s / 시간대: %s 브리핑\n", userName, slotGreeting(slot))
	if village != nil {
		fmt.Fprintf(&b, "마을(포트폴리오): %s\n", village.Name)
		if village.Profile != "" {
			fmt.Fprintf(&b, "투자 성향: %s\n", village.Profile)
		}
	}
	b.WriteString("\n보유 종목 시세:\n")
	for _, q := range ctxData.Quotes {
		b.WriteString(formatQuoteLine(q))
	}
	return b.String()
}

func buildNewsAgentPrompt(ctxData models.MarketContext, village *models.Village, userName, slot string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "사용자: %s / 시간대: %s 브리핑\n", userName, slotGreeting(slot))
	if village != nil {
		fmt.Fprintf(&b, "마을(포트폴리오): %s\n", village.Name)
	}
	b.WriteString("\n관련 뉴스 헤드라인:\n")
	for _, n := range ctxData.News {
		fmt.Fprintf(&b, "- [%s] %s", strings.Join(n.Tickers, ","), n.Title)
		if n.Summary != "" {
			fmt.Fprintf(&b, " :: %s", n.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func buildOrchestratorPrompt(stock *models.StockAnalysis, news *models.NewsAnalysis, village *models.Village, userName, slot string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "사용자 이름: %s\n시간대: %s\n", userName, slotGreeting(slot))
	if village != nil {
		fmt.Fprintf(&b, "마을(포트폴리오): %s\n", village.Name)
		if village.Profile != "" {
			fmt.Fprintf(&b, "투자 성향: %s\n", village.Profile)
		}
	}

	if stock != nil {
		b.WriteString("\n[주식 분석 결과]\n")
		fmt.Fprintf(&b, "시장 요약: %s\n", stock.MarketSummary)
		fmt.Fprintf(&b, "포트폴리오 성과: %s\n", stock.PortfolioPerformance)
		if len(stock.KeyMovers) > 0 {
			fmt.Fprintf(&b, "주요 변동: %s\n", strings.Join(stock.KeyMovers, " / "))
		}
		if stock.TechnicalInsights != "" {
			fmt.Fprintf(&b, "기술적 분석: %s\n", stock.TechnicalInsights)
		}
	} else {
		b.WriteString("\n[주식 분석 결과] 없음\n")
	}

	if news != nil {
		b.WriteString("\n[뉴스 분석 결과]\n")
		fmt.Fprintf(&b, "시장 심리: %s\n", news.MarketSentiment)
		for _, h := range news.KeyHeadlines {
			fmt.Fprintf(&b, "- %s: %s\n", h.Title, h.Summary)
		}
		if len(news.RiskAlerts) > 0 {
			fmt.Fprintf(&b, "리스크: %s\n", strings.Join(news.RiskAlerts, " / "))
		}
	} else {
		b.WriteString("\n[뉴스 분석 결과] 없음\n")
	}

	return b.String()
}

func formatQuoteLine(q models.TickerQuote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s:", q.Ticker)
	if q.Price != nil {
		fmt.Fprintf(&b, " 현재가 %.2f", *q.Price)
		if q.Currency != "" {
			fmt.Fprintf(&b, " %s", q.Currency)
		}
	} else {
		b.WriteString(" 시세 없음")
	}
	if q.ChangePercent != nil {
		fmt.Fprintf(&b, " (전일 대비 %+.2f%%)", *q.ChangePercent)
	}
	b.WriteString("\n")
	return b.String()
}
