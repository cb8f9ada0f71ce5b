package data

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/repo"
)

// unsupportedAnswer 不支持的查询的固定回复，不经过模型
const unsupportedAnswer = "I can help you with stock market questions: ask for a quote " +
	"(\"How is AAPL doing?\"), compare two stocks (\"Compare AAPL and TSLA\"), or get the " +
	"top gainers or losers in an industry (\"What are the top gainers in tech?\"). " +
	"Supported industries: technology, finance, healthcare, energy and consumer."

// composeSystemPrompt 生成回答时的统一系统指令
// 数据以 JSON 原样注入，要求模型只引用给定数字，不得编造价格
const composeSystemPrompt = "You are a concise financial assistant. Answer in 2-4 sentences " +
	"of plain English. Use ONLY the numbers provided in the JSON data; never invent or round " +
	"prices beyond two decimals. Do not give investment advice."

// llmComposer 基于 LLM 的回答生成器，按意图分四个策略
// 每个策略都带确定性兜底，保证用户永远能拿到可读的文本
type llmComposer struct {
	cm  model.ChatModel
	log *log.Helper
}

// NewAnswerComposer 创建回答生成器
func NewAnswerComposer(cm model.ChatModel, logger log.Logger) repo.AnswerComposer {
	return &llmComposer{cm: cm, log: log.NewHelper(logger)}
}

// generate 执行一次生成调用，失败返回空串由调用方兜底
func (c *llmComposer) generate(ctx context.Context, instruction string, payload interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Warnf("compose payload marshal failed: %v", err)
		return ""
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: composeSystemPrompt},
		{Role: schema.User, Content: instruction + "\n\nData:\n" + string(data)},
	}

	resp, err := c.cm.Generate(ctx, messages)
	if err != nil {
		c.log.Warnf("answer generation failed, using fallback formatter: %v", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

// ComposeMovers 生成涨跌幅榜回答
func (c *llmComposer) ComposeMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, movers []domain.Mover) string {
	word := "gainers"
	if direction == domain.DirectionLosers {
		word = "losers"
	}
	instruction := fmt.Sprintf(
		"Summarize the top %s in the %s industry, mentioning each symbol with its price and percent change.",
		word, industry)

	if text := c.generate(ctx, instruction, map[string]interface{}{"movers": movers}); text != "" {
		return text
	}
	return fallbackMovers(industry, direction, movers)
}

// ComposeQuote 生成单股行情回答
func (c *llmComposer) ComposeQuote(ctx context.Context, symbol string, quote *domain.Quote, profile *domain.CompanyProfile) string {
	payload := map[string]interface{}{"symbol": symbol, "quote": quote}
	if profile != nil {
		payload["profile"] = map[string]interface{}{
			"name":                  profile.Name,
			"exchange":              profile.Exchange,
			"market_capitalization": profile.MarketCapitalization,
		}
	}
	instruction := fmt.Sprintf("Describe how %s is trading right now: current price, change, and the day's range.", symbol)

	if text := c.generate(ctx, instruction, payload); text != "" {
		return text
	}
	return fallbackQuote(symbol, quote)
}

// ComposeCompare 生成两股对比回答
func (c *llmComposer) ComposeCompare(ctx context.Context, entries []domain.ComparisonEntry) string {
	instruction := "Compare these stocks side by side: price, percent change and, if present, market cap. State which one is performing better today."

	if text := c.generate(ctx, instruction, map[string]interface{}{"comparison": entries}); text != "" {
		return text
	}
	return fallbackCompare(entries)
}

// ComposeUnsupported 固定能力说明
func (c *llmComposer) ComposeUnsupported() string {
	return unsupportedAnswer
}

// fallbackMovers 榜单兜底文案
func fallbackMovers(industry domain.Industry, direction domain.Direction, movers []domain.Mover) string {
	word := "gainers"
	if direction == domain.DirectionLosers {
		word = "losers"
	}
	parts := make([]string, 0, len(movers))
	for _, m := range movers {
		parts = append(parts, fmt.Sprintf("%s $%.2f (%+.2f%%)", m.Symbol, m.CurrentPrice, m.ChangePercent))
	}
	return fmt.Sprintf("Top %s in %s: %s.", word, industry, strings.Join(parts, ", "))
}

// fallbackQuote 单股兜底文案
func fallbackQuote(symbol string, quote *domain.Quote) string {
	pct := 0.0
	if quote.ChangePercent != nil {
		pct = *quote.ChangePercent
	}
	return fmt.Sprintf("%s is trading at $%.2f (%+.2f%%), day range $%.2f - $%.2f.",
		symbol, quote.CurrentPrice, pct, quote.Low, quote.High)
}

// fallbackCompare 对比兜底文案
func fallbackCompare(entries []domain.ComparisonEntry) string {
	if len(entries) == 0 {
		return "Sorry, I couldn't fetch enough data to compare those stocks."
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		pct := 0.0
		if e.ChangePercent != nil {
			pct = *e.ChangePercent
		}
		parts = append(parts, fmt.Sprintf("%s $%.2f (%+.2f%%)", e.Symbol, e.CurrentPrice, pct))
	}
	return strings.Join(parts, " vs ") + "."
}
