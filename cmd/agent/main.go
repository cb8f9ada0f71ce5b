package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"

	"github.com/c-emman/stock-insights-assistant/internal/config"
	"github.com/c-emman/stock-insights-assistant/internal/data"
	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/logger"
	"github.com/c-emman/stock-insights-assistant/internal/usecase"
)

// agent 是一次性的命令行问答工具：不起服务，直接把问题跑完整条流水线
// 用法: agent -conf configs/agent.yaml "How is AAPL doing?"
func main() {
	var confPath string
	flag.StringVar(&confPath, "conf", "configs/agent.yaml", "config path")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, `usage: agent [-conf config.yaml] "your question about stocks"`)
		os.Exit(2)
	}
	query := strings.Join(flag.Args(), " ")

	// .env 里的 Key 优先级低于已有环境变量
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		stdlog.Fatalf("无法初始化日志: %v", err)
	}

	finnhubKey := cfg.Finnhub.APIKey
	if finnhubKey == "" {
		finnhubKey = os.Getenv("FINNHUB_API_KEY")
	}
	llmKey := cfg.LLM.APIKey
	if llmKey == "" {
		llmKey = os.Getenv("OPENAI_API_KEY")
	}
	if finnhubKey == "" || llmKey == "" {
		logger.Log.Fatal("配置错误: 缺少 FINNHUB_API_KEY 或 OPENAI_API_KEY")
	}

	ctx := context.Background()

	// 3. 初始化 LLM
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  llmKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}

	// 4. 装配流水线，组件内部统一用 kratos logger
	klogger := log.NewStdLogger(os.Stdout)

	fhCfg := data.FinnhubConfig{
		APIKey:     finnhubKey,
		BaseURL:    cfg.Finnhub.BaseURL,
		MaxRetries: cfg.Retry.MaxRetries,
		RPM:        cfg.Concurrency.RPM,
		QPS:        cfg.Concurrency.QPS,
	}
	if d, err := time.ParseDuration(cfg.Retry.BaseDelay); err == nil {
		fhCfg.BaseDelay = d
	}

	uc := usecase.NewAssistantUseCase(
		data.NewFinnhubClient(fhCfg, klogger),
		data.NewQueryParser(chatModel, klogger),
		data.NewAnswerComposer(chatModel, klogger),
		domain.ParseIndustry(cfg.Movers.DefaultIndustry),
		cfg.Movers.Limit,
		klogger,
	)

	// 5. 跑一条查询
	logger.Log.Infof("正在处理查询: %s", query)
	answer, err := uc.ProcessQuery(ctx, query)
	if err != nil {
		logger.Log.Fatalf("查询失败: %v", err)
	}

	fmt.Println(answer.Response)
	if len(answer.Symbols) > 0 {
		fmt.Printf("\n[symbols: %s]\n", strings.Join(answer.Symbols, ", "))
	}
}
