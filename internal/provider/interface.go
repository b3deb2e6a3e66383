package provider

import (
	"context"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// Provider is the unified interface over a cloud compute API.
type Provider interface {
	// GetName returns the provider name (e.g. yandex)
	GetName() string

	// Initialize configures the provider client
	Initialize(config map[string]any) error

	// ListInstances returns one page of instances plus the next page token
	ListInstances(ctx context.Context, opts *QueryOptions) (*model.InstanceList, error)

	// GetInstance returns a single instance
	GetInstance(ctx context.Context, instanceID string) (*model.Instance, error)

	// StartInstance starts a stopped instance, returning the operation id
	StartInstance(ctx context.Context, instanceID string) (string, error)

	// StopInstance stops a running instance, returning the operation id
	StopInstance(ctx context.Context, instanceID string) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated
	HealthCheck(ctx context.Context) error
}

// QueryOptions are list options. The compute API paginates with opaque
// tokens, so there is no page number: pass the NextPageToken from the
// previous page to continue.
type QueryOptions struct {
	PageSize  int    // page size, provider default when <= 0
	PageToken string // opaque pagination token, empty for the first page
}
