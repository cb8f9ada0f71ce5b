package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/c-emman/stock-insights-assistant/internal/conf"
	"github.com/c-emman/stock-insights-assistant/internal/data"
	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/service"
	"github.com/c-emman/stock-insights-assistant/internal/usecase"
)

// NewAssistantService 按配置装配整条流水线：行情客户端、LLM 解析与生成、编排、服务层
// API Key 允许用环境变量覆盖配置文件，两个 Key 任一缺失直接启动失败
func NewAssistantService(c *conf.Assistant, logger log.Logger) (*service.AssistantService, error) {
	if c == nil || c.Finnhub == nil || c.Llm == nil {
		return nil, fmt.Errorf("assistant config incomplete")
	}

	finnhubKey := c.Finnhub.ApiKey
	if finnhubKey == "" {
		finnhubKey = os.Getenv("FINNHUB_API_KEY")
	}
	llmKey := c.Llm.ApiKey
	if llmKey == "" {
		llmKey = os.Getenv("OPENAI_API_KEY")
	}
	if finnhubKey == "" || llmKey == "" {
		return nil, fmt.Errorf("missing required API keys: FINNHUB_API_KEY and/or OPENAI_API_KEY")
	}

	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		BaseURL: c.Llm.BaseUrl,
		APIKey:  llmKey,
		Model:   c.Llm.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	fhCfg := data.FinnhubConfig{
		APIKey:  finnhubKey,
		BaseURL: c.Finnhub.BaseUrl,
	}
	if c.Retry != nil {
		fhCfg.MaxRetries = int(c.Retry.MaxRetries)
		if d, err := time.ParseDuration(c.Retry.BaseDelay); err == nil {
			fhCfg.BaseDelay = d
		}
	}
	if c.Concurrency != nil {
		fhCfg.RPM = int(c.Concurrency.Rpm)
		fhCfg.QPS = int(c.Concurrency.Qps)
	}

	market := data.NewFinnhubClient(fhCfg, logger)
	parser := data.NewQueryParser(chatModel, logger)
	composer := data.NewAnswerComposer(chatModel, logger)

	var defaultIndustry domain.Industry
	moversLimit := 0
	if c.Movers != nil {
		defaultIndustry = domain.ParseIndustry(c.Movers.DefaultIndustry)
		moversLimit = int(c.Movers.Limit)
	}

	uc := usecase.NewAssistantUseCase(market, parser, composer, defaultIndustry, moversLimit, logger)
	return service.NewAssistantService(uc, int(c.MaxQueryLen), logger), nil
}
