package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// requestTimeout is the fixed per-call timeout for every outbound request.
// No retries: a failed call surfaces immediately.
const requestTimeout = 30 * time.Second

// defaultPageSize applies when the caller does not specify one.
const defaultPageSize = 50

// Client performs authenticated reads and writes against the compute API,
// scoped to a single folder. Every call independently fetches a bearer token
// from the token source.
type Client struct {
	folderID   string
	baseURL    string
	tokens     *TokenSource
	httpClient *http.Client
}

// NewClient creates a compute API client for the folder.
func NewClient(folderID, baseURL string, tokens *TokenSource) *Client {
	return &Client{
		folderID:   folderID,
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// ListInstances lists one page of instances in the folder. The pagination
// token is passed through between caller and provider unmodified.
func (c *Client) ListInstances(ctx context.Context, pageSize int, pageToken string) (*model.InstanceList, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	params := url.Values{}
	params.Set("folderId", c.folderID)
	params.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	logx.Debug("Listing instances, folder %s, page_size %d, page_token %q",
		c.folderID, pageSize, pageToken)

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/instances?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp listInstancesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode instance list: %w", err)
	}

	list := &model.InstanceList{
		Instances:     make([]*model.Instance, 0, len(resp.Instances)),
		NextPageToken: resp.NextPageToken,
	}
	for _, raw := range resp.Instances {
		list.Instances = append(list.Instances, convertToInstance(raw))
	}

	logx.Info("Listed instances, count %d, folder %s", len(list.Instances), c.folderID)

	return list, nil
}

// GetInstance fetches a single instance by id.
func (c *Client) GetInstance(ctx context.Context, instanceID string) (*model.Instance, error) {
	logx.Debug("Getting instance %s", instanceID)

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/instances/"+instanceID)
	if err != nil {
		return nil, err
	}

	var raw rawInstance
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode instance: %w", err)
	}

	return convertToInstance(&raw), nil
}

// StartInstance starts a stopped instance and returns the operation id.
func (c *Client) StartInstance(ctx context.Context, instanceID string) (string, error) {
	logx.Info("Starting instance %s", instanceID)
	return c.instanceAction(ctx, instanceID, "start")
}

// StopInstance stops a running instance and returns the operation id.
func (c *Client) StopInstance(ctx context.Context, instanceID string) (string, error) {
	logx.Info("Stopping instance %s", instanceID)
	return c.instanceAction(ctx, instanceID, "stop")
}

// instanceAction posts to the instance's action endpoint (:start / :stop).
func (c *Client) instanceAction(ctx context.Context, instanceID, action string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/instances/"+instanceID+":"+action)
	if err != nil {
		return "", err
	}

	var op operationResponse
	if err := json.Unmarshal(body, &op); err != nil {
		return "", fmt.Errorf("failed to decode operation: %w", err)
	}

	logx.Info("Instance %s %s operation initiated, operation %s", instanceID, action, op.ID)

	return op.ID, nil
}

// do runs one authenticated request and returns the response body. Non-2xx
// responses become an APIError carrying the status code and body text.
func (c *Client) do(ctx context.Context, method, rawURL string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logx.Error("Compute API request failed, method %s, url %s, status %d",
			method, rawURL, resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
