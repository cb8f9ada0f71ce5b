package conf

type Bootstrap struct {
	Server    *Server
	Assistant *Assistant
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Assistant 查询编排核心的配置
type Assistant struct {
	Finnhub     *Finnhub     `json:"finnhub"`
	Llm         *LLM         `json:"llm"`
	Retry       *Retry       `json:"retry"`
	Movers      *Movers      `json:"movers"`
	Concurrency *Concurrency `json:"concurrency"`
	MaxQueryLen int32        `json:"max_query_len"`
}

type Finnhub struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// Retry 行情源重试策略
type Retry struct {
	MaxRetries int32  `json:"max_retries"`
	BaseDelay  string `json:"base_delay"` // time.Duration 格式，如 "1s"
}

// Movers 涨跌幅榜参数
type Movers struct {
	Limit           int32  `json:"limit"`
	DefaultIndustry string `json:"default_industry"`
}

// Concurrency 对行情源的限流配置
type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
