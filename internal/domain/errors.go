package domain

import "errors"

// ErrRateLimited 行情源限流且重试耗尽
// 这是唯一允许穿透编排层的业务错误，调用方用 errors.Is 判断
var ErrRateLimited = errors.New("provider rate limited")
