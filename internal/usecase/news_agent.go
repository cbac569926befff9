package usecase

import (
	"context"
	"errors"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
	domservice "AntVillage/internal/domain/service"
	"AntVillage/pkg/logger"
)

var errNoJSONObject = errors.New("no json object in reply")

const maxKeyHeadlines = 3

// NewsAgent condenses raw headlines into a structured sentiment view
// via one text-generation call. A nil result means the analysis is
// unavailable; callers proceed without it.
type NewsAgent struct {
	gen     domservice.TextGenerator
	metrics repository.Metrics
	log     *logger.Logger
}

func NewNewsAgent(gen domservice.TextGenerator, metrics repository.Metrics, log *logger.Logger) *NewsAgent {
	return &NewsAgent{gen: gen, metrics: metrics, log: log}
}

// Analyze runs the news analysis. Empty input short-circuits to nil
// without calling the external service.
func (a *NewsAgent) Analyze(ctx context.Context, mc models.MarketContext, village *models.Village, userName, slot string) *models.NewsAnalysis {
	if len(mc.News) == 0 {
		return nil
	}

	reply, err := a.gen.Generate(ctx, newsAgentSystemPrompt, buildNewsAgentPrompt(mc, village, userName, slot))
	if err != nil {
		a.metrics.RecordError("news_agent")
		a.log.Warn("news analysis unavailable", logger.Error(err))
		return nil
	}

	var result models.NewsAnalysis
	if err := decodeAgentJSON(reply, &result); err != nil {
		a.metrics.RecordError("news_agent_parse")
		a.log.Warn("news analysis reply malformed", logger.Error(err))
		return nil
	}
	if len(result.KeyHeadlines) > maxKeyHeadlines {
		result.KeyHeadlines = result.KeyHeadlines[:maxKeyHeadlines]
	}
	return &result
}
