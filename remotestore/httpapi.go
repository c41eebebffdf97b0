package remotestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anoixa/picture-vault/internal/apperrors"
)

// HTTPAPIConfig HTTP JSON 协议存储配置
type HTTPAPIConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// HTTPAPIStorage 通过 JSON API 访问的远程图片服务。
// 认证使用 X-API-Private-Token 头；上游的失败状态码和响应体
// 原样包装成 UpstreamError 交给上层。
type HTTPAPIStorage struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPAPIStorage 创建 HTTP API 存储提供者
func NewHTTPAPIStorage(cfg HTTPAPIConfig) (*HTTPAPIStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote http endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIStorage{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		token:    cfg.Token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// imagePayload 发送给远程服务的请求体，data 按 JSON 约定 base64 编码
type imagePayload struct {
	Data        []byte `json:"data,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// imageResponse 远程服务返回的对象描述
type imageResponse struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"imageUrl"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *HTTPAPIStorage) do(ctx context.Context, method, url string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-API-Private-Token", s.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("remote store request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read remote response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// CreateImage 上传新图片
func (s *HTTPAPIStorage) CreateImage(ctx context.Context, data []byte, contentType string) (*RemoteImage, error) {
	status, body, err := s.do(ctx, http.MethodPost, s.endpoint, imagePayload{Data: data, ContentType: contentType})
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, &apperrors.UpstreamError{StatusCode: status, Body: body}
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode remote create response: %w", err)
	}

	return &RemoteImage{
		ID:          parsed.ID,
		URL:         parsed.ImageURL,
		ContentType: parsed.ContentType,
		CreatedAt:   parsed.CreatedAt,
		UpdatedAt:   parsed.UpdatedAt,
	}, nil
}

// UpdateImage 整体替换远程对象
func (s *HTTPAPIStorage) UpdateImage(ctx context.Context, id string, data []byte, contentType string) (*RemoteImage, error) {
	url := s.endpoint + "/" + id
	status, body, err := s.do(ctx, http.MethodPut, url, imagePayload{Data: data, ContentType: contentType})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return nil, &apperrors.UpstreamError{StatusCode: status, Body: body}
	}

	// 部分实现在 204 时仍带响应体，能解析就用，不能就只回传 id
	remote := &RemoteImage{ID: id, ContentType: contentType}
	if len(body) > 0 {
		var parsed imageResponse
		if err := json.Unmarshal(body, &parsed); err == nil {
			if parsed.ImageURL != "" {
				remote.URL = parsed.ImageURL
			}
			if parsed.ContentType != "" {
				remote.ContentType = parsed.ContentType
			}
			remote.UpdatedAt = parsed.UpdatedAt
		}
	}

	return remote, nil
}

// PatchImage 只替换二进制内容
func (s *HTTPAPIStorage) PatchImage(ctx context.Context, id string, data []byte) error {
	url := s.endpoint + "/" + id
	status, body, err := s.do(ctx, http.MethodPatch, url, imagePayload{Data: data})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return &apperrors.UpstreamError{StatusCode: status, Body: body}
	}
	return nil
}

// DeleteImage 删除远程对象
func (s *HTTPAPIStorage) DeleteImage(ctx context.Context, id string) error {
	url := s.endpoint + "/" + id

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Private-Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote store request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRemoteNotFound
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return &apperrors.UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}
}

// Health 检查远程服务可达性
func (s *HTTPAPIStorage) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Private-Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("remote store unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Name 返回存储名称
func (s *HTTPAPIStorage) Name() string {
	return "httpapi"
}
