package usecase

import (
	"context"
	"encoding/json"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
	domservice "AntVillage/internal/domain/service"
	"AntVillage/pkg/logger"
)

// StockAgent turns quote data into a structured market analysis via one
// text-generation call. A nil result means the analysis is unavailable;
// callers proceed without it.
type StockAgent struct {
	gen     domservice.TextGenerator
	metrics repository.Metrics
	log     *logger.Logger
}

func NewStockAgent(gen domservice.TextGenerator, metrics repository.Metrics, log *logger.Logger) *StockAgent {
	return &StockAgent{gen: gen, metrics: metrics, log: log}
}

// Analyze runs the stock analysis. Empty input short-circuits to nil
// without calling the external service.
func (a *StockAgent) Analyze(ctx context.Context, mc models.MarketContext, village *models.Village, userName, slot string) *models.StockAnalysis {
	if len(mc.Quotes) == 0 {
		return nil
	}

	reply, err := a.gen.Generate(ctx, stockAgentSystemPrompt, buildStockAgentPrompt(mc, village, userName, slot))
	if err != nil {
		a.metrics.RecordError("stock_agent")
		a.log.Warn("stock analysis unavailable", logger.Error(err))
		return nil
	}

	var result models.StockAnalysis
	if err := decodeAgentJSON(reply, &result); err != nil {
		a.metrics.RecordError("stock_agent_parse")
		a.log.Warn("stock analysis reply malformed", logger.Error(err))
		return nil
	}
	return &result
}

// decodeAgentJSON extracts the first JSON object from a reply that may
// be wrapped in a markdown code fence or surrounded by prose.
func decodeAgentJSON(reply string, dest interface{}) error {
	obj := extractJSONObject(stripCodeFence(reply))
	if obj == "" {
		return errNoJSONObject
	}
	return json.Unmarshal([]byte(obj), dest)
}
