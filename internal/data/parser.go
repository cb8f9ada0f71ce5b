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

// parsePrompt 意图分类指令
// 公司名到代码的映射表只是给模型的提示，代码里不做强制校验
const parsePrompt = `You are a query classifier for a stock insights assistant.
Read the user's question and classify it.

Return strictly the following JSON, with no markdown fences and no extra text:
{
	"intent": "one of: top_gainers, top_losers, quote, compare, unsupported",
	"industry": "one of: technology, finance, healthcare, energy, consumer, or empty if not mentioned",
	"symbols": ["ticker symbols mentioned, in order of appearance"],
	"direction": "gainers or losers, or empty"
}

Rules:
- "quote" is a question about how a single stock is doing.
- "compare" needs at least two stocks mentioned.
- "top_gainers"/"top_losers" ask for the biggest movers, usually within an industry.
- Anything else (greetings, news, advice, non-stock topics) is "unsupported".
- Normalize company names to ticker symbols. Common mappings:
  Apple=AAPL, Microsoft=MSFT, Google/Alphabet=GOOGL, Amazon=AMZN, Meta/Facebook=META,
  Tesla=TSLA, Nvidia=NVDA, Netflix=NFLX, JPMorgan=JPM, Goldman Sachs=GS,
  Johnson & Johnson=JNJ, Pfizer=PFE, Exxon=XOM, Chevron=CVX, Walmart=WMT, Coca-Cola=KO.

User question:
%s`

// llmParser 基于 LLM 的查询解析器
type llmParser struct {
	cm  model.ChatModel
	log *log.Helper
}

// NewQueryParser 创建查询解析器
func NewQueryParser(cm model.ChatModel, logger log.Logger) repo.QueryParser {
	return &llmParser{cm: cm, log: log.NewHelper(logger)}
}

// parsedQueryDTO 模型返回的原始分类结果
type parsedQueryDTO struct {
	Intent    string   `json:"intent"`
	Industry  string   `json:"industry"`
	Symbols   []string `json:"symbols"`
	Direction string   `json:"direction"`
}

// Parse 解析用户查询
// 单次尽力调用，不重试；网络失败、输出不可解析等一律退化为 unsupported
func (p *llmParser) Parse(ctx context.Context, query string) domain.ParsedQuery {
	fallback := domain.ParsedQuery{Intent: domain.IntentUnsupported}

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a JSON generator. Output only the JSON string, nothing else."},
		{Role: schema.User, Content: fmt.Sprintf(parsePrompt, query)},
	}

	resp, err := p.cm.Generate(ctx, messages)
	if err != nil {
		p.log.Warnf("query classification failed, falling back to unsupported: %v", err)
		return fallback
	}

	var dto parsedQueryDTO
	if err := json.Unmarshal([]byte(trimJSONFences(resp.Content)), &dto); err != nil {
		p.log.Warnf("classification output not parseable, falling back to unsupported: %v", err)
		return fallback
	}

	parsed := domain.ParsedQuery{
		Intent:   domain.ParseIntent(dto.Intent),
		Industry: domain.ParseIndustry(dto.Industry),
	}
	for _, s := range dto.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			parsed.Symbols = append(parsed.Symbols, s)
		}
	}
	switch domain.Direction(dto.Direction) {
	case domain.DirectionGainers, domain.DirectionLosers:
		parsed.Direction = domain.Direction(dto.Direction)
	}
	return parsed
}

// trimJSONFences 清理模型输出里可能混入的 markdown 代码块标记
func trimJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
