package yandex

import (
	"context"
	"fmt"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/tokencache"
)

func init() {
	provider.Register("yandex", NewProvider())
}

// YandexProvider is the Yandex Cloud compute provider implementation.
type YandexProvider struct {
	client *Client
	config map[string]any
}

// NewProvider creates an uninitialized Yandex Cloud provider.
func NewProvider() provider.Provider {
	return &YandexProvider{}
}

// GetName returns the provider name.
func (p *YandexProvider) GetName() string {
	return "yandex"
}

// Initialize builds the token source and compute client. Expected config
// keys: credential (*config.Credential), iam_endpoint, compute_endpoint,
// cache (tokencache.Store).
func (p *YandexProvider) Initialize(cfg map[string]any) error {
	p.config = cfg

	cred, ok := cfg["credential"].(*config.Credential)
	if !ok || cred == nil {
		return fmt.Errorf("credential is required")
	}

	iamEndpoint, ok := cfg["iam_endpoint"].(string)
	if !ok || iamEndpoint == "" {
		return fmt.Errorf("iam_endpoint is required")
	}

	computeEndpoint, ok := cfg["compute_endpoint"].(string)
	if !ok || computeEndpoint == "" {
		return fmt.Errorf("compute_endpoint is required")
	}

	cache, ok := cfg["cache"].(tokencache.Store)
	if !ok || cache == nil {
		return fmt.Errorf("cache is required")
	}

	tokens, err := NewTokenSource(cred, iamEndpoint, cache)
	if err != nil {
		return fmt.Errorf("failed to create token source: %w", err)
	}

	p.client = NewClient(cred.FolderID, computeEndpoint, tokens)

	logx.Info("Yandex provider initialized, folder %s", cred.FolderID)

	return nil
}

// ListInstances lists one page of instances.
func (p *YandexProvider) ListInstances(ctx context.Context, opts *provider.QueryOptions) (*model.InstanceList, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not initialized")
	}
	if opts == nil {
		opts = &provider.QueryOptions{}
	}
	return p.client.ListInstances(ctx, opts.PageSize, opts.PageToken)
}

// GetInstance returns a single instance.
func (p *YandexProvider) GetInstance(ctx context.Context, instanceID string) (*model.Instance, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not initialized")
	}
	return p.client.GetInstance(ctx, instanceID)
}

// StartInstance starts a stopped instance.
func (p *YandexProvider) StartInstance(ctx context.Context, instanceID string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("provider not initialized")
	}
	return p.client.StartInstance(ctx, instanceID)
}

// StopInstance stops a running instance.
func (p *YandexProvider) StopInstance(ctx context.Context, instanceID string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("provider not initialized")
	}
	return p.client.StopInstance(ctx, instanceID)
}

// HealthCheck verifies the provider can list instances.
func (p *YandexProvider) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("provider not initialized")
	}
	if _, err := p.client.ListInstances(ctx, 1, ""); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
