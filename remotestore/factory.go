package remotestore

import (
	"fmt"
	"log"

	"github.com/mitchellh/mapstructure"

	"github.com/anoixa/picture-vault/config"
)

// NewProvider 按配置创建远程存储提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	log.Printf("Initializing remote store provider: %s", cfg.RemoteStoreType)

	switch cfg.RemoteStoreType {
	case "httpapi", "":
		return NewHTTPAPIStorage(HTTPAPIConfig{
			Endpoint: cfg.RemoteHTTPEndpoint,
			Token:    cfg.RemoteHTTPToken,
			Timeout:  cfg.RemoteHTTPTimeout,
		})

	case "minio":
		var minioCfg MinioConfig
		if err := decodeOptions(cfg.RemoteStoreOptions, &minioCfg); err != nil {
			return nil, fmt.Errorf("invalid minio options: %w", err)
		}
		if minioCfg.PublicBaseURL == "" {
			minioCfg.PublicBaseURL = cfg.RemotePublicBaseURL
		}
		return NewMinioStorage(minioCfg)

	case "webdav":
		var webdavCfg WebDAVConfig
		if err := decodeOptions(cfg.RemoteStoreOptions, &webdavCfg); err != nil {
			return nil, fmt.Errorf("invalid webdav options: %w", err)
		}
		if webdavCfg.PublicBaseURL == "" {
			webdavCfg.PublicBaseURL = cfg.RemotePublicBaseURL
		}
		return NewWebDAVStorage(webdavCfg)

	default:
		return nil, fmt.Errorf("unsupported remote store type: %s", cfg.RemoteStoreType)
	}
}

// decodeOptions 将通用选项映射解码为具体的提供者配置
func decodeOptions(opts map[string]interface{}, out interface{}) error {
	return mapstructure.Decode(opts, out)
}
