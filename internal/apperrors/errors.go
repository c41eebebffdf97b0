// Package apperrors 定义跨组件的错误分类。
// 内部组件只返回类型化错误，由最外层的请求边界统一翻译为 HTTP 响应。
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken 令牌缺失、伪造或过期。
	// 所有验证失败都折叠为这一个错误，不向调用方泄露具体原因。
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCredentials 用户名或密码错误，二者不作区分
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden 能力位或所有权检查失败
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound 请求的资源不存在
	ErrNotFound = errors.New("not found")

	// ErrConflict 唯一性约束冲突
	ErrConflict = errors.New("resource already exists")

	// ErrValidation 输入不满足模式约束
	ErrValidation = errors.New("validation failed")
)

// UpstreamError 远程存储返回的失败，状态码和响应体原样保留，
// 由请求边界决定是否透传给客户端。
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream store returned status %d", e.StatusCode)
}

// ConsistencyError 远程调用成功但本地持久化失败（或反之），
// 本地记录与远程存储出现漂移，需要人工对账，绝不能静默吞掉。
type ConsistencyError struct {
	Op        string
	RemoteID  string
	RemoteURL string
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency failure during %s (remote id %s, url %s): %v",
		e.Op, e.RemoteID, e.RemoteURL, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}
