package service

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/usecase"
)

// defaultMaxQueryLen 查询长度上限（字符数），超出即拒绝
const defaultMaxQueryLen = 500

// QueryRequest /api/query 请求体
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse /api/query 响应体
// top_gainers 字段名沿用旧版前端契约，涨跌两个方向都用它承载
type QueryResponse struct {
	Response   string         `json:"response"`
	Symbols    []string       `json:"symbols"`
	TopGainers []domain.Mover `json:"top_gainers,omitempty"`
}

// AssistantService 查询入口的 HTTP 服务层
type AssistantService struct {
	uc          *usecase.AssistantUseCase
	maxQueryLen int
	log         *log.Helper
}

// NewAssistantService 创建服务实例
func NewAssistantService(uc *usecase.AssistantUseCase, maxQueryLen int, logger log.Logger) *AssistantService {
	if maxQueryLen <= 0 {
		maxQueryLen = defaultMaxQueryLen
	}
	return &AssistantService{uc: uc, maxQueryLen: maxQueryLen, log: log.NewHelper(logger)}
}

// HandleQuery POST /api/query
// 校验失败 400，限流 429，其余未知错误 500
func (s *AssistantService) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, errors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST"))
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("VALIDATION_ERROR", "invalid request body"))
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, errors.BadRequest("VALIDATION_ERROR", "query must not be empty"))
		return
	}
	if len([]rune(query)) > s.maxQueryLen {
		writeError(w, errors.BadRequest("VALIDATION_ERROR", "query too long"))
		return
	}

	answer, err := s.uc.ProcessQuery(r.Context(), query)
	if err != nil {
		if stderrors.Is(err, domain.ErrRateLimited) {
			writeError(w, errors.New(http.StatusTooManyRequests, "RATE_LIMITED",
				"the data provider is rate limiting us, please try again shortly"))
			return
		}
		s.log.Errorf("process query failed: %v", err)
		writeError(w, errors.InternalServer("INTERNAL", "something went wrong"))
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Response:   answer.Response,
		Symbols:    answer.Symbols,
		TopGainers: answer.Movers,
	})
}

// HandleHealth GET /api/health
func (s *AssistantService) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON 输出 JSON 响应
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError 按 kratos 错误码输出错误响应
func writeError(w http.ResponseWriter, err *errors.Error) {
	writeJSON(w, int(err.Code), map[string]string{
		"error":  err.Reason,
		"detail": err.Message,
	})
}
