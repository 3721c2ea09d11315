package platformapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/config"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
)

// Client is the REST adapter for the platform API. It also serves as the
// platform-backed artifact store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

var (
	_ ports.PlatformAPI   = (*Client)(nil)
	_ ports.ArtifactStore = (*Client)(nil)
)

// NewClient creates a REST client for cfg.URL. A zero timeout keeps the
// transport default.
func NewClient(cfg *config.PlatformConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Login(ctx context.Context, userID, password string) error {
	var resp api.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", &api.LoginRequest{UserID: userID, Password: password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) ListServices(ctx context.Context) ([]api.ServiceInfo, error) {
	var resp api.ServiceList
	if err := c.do(ctx, http.MethodGet, "/services", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

// ============================================================================
// Model history server
// ============================================================================

func rpcPath(serverID, resource string, id ...string) string {
	p := fmt.Sprintf("/rpc/%s/%s", url.PathEscape(serverID), resource)
	for _, part := range id {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) AddModelHistory(ctx context.Context, serverID string, req *api.AddModelHistoryRequest) (*api.ModelHistoryEntity, error) {
	var resp api.ModelHistoryEntity
	if err := c.do(ctx, http.MethodPost, rpcPath(serverID, "modelhistory"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetModelHistory(ctx context.Context, serverID, id string) (*api.ModelHistoryEntity, error) {
	var resp api.ModelHistoryEntity
	if err := c.do(ctx, http.MethodGet, rpcPath(serverID, "modelhistory", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteModelHistory(ctx context.Context, serverID, id string) error {
	return c.do(ctx, http.MethodDelete, rpcPath(serverID, "modelhistory", id), nil, nil)
}

func (c *Client) AddExperiment(ctx context.Context, serverID string, req *api.ExperimentEntity) (*api.ExperimentEntity, error) {
	var resp api.ExperimentEntity
	if err := c.do(ctx, http.MethodPost, rpcPath(serverID, "experiment"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetExperiment(ctx context.Context, serverID, id string) (*api.ExperimentEntity, error) {
	var resp api.ExperimentEntity
	if err := c.do(ctx, http.MethodGet, rpcPath(serverID, "experiment", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteExperiment(ctx context.Context, serverID, id string) error {
	return c.do(ctx, http.MethodDelete, rpcPath(serverID, "experiment", id), nil, nil)
}

func (c *Client) AddModelInstance(ctx context.Context, serverID string, req *api.ModelInstanceEntity) (*api.ModelInstanceEntity, error) {
	var resp api.ModelInstanceEntity
	if err := c.do(ctx, http.MethodPost, rpcPath(serverID, "model"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetModelInstance(ctx context.Context, serverID, id string) (*api.ModelInstanceEntity, error) {
	var resp api.ModelInstanceEntity
	if err := c.do(ctx, http.MethodGet, rpcPath(serverID, "model", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteModelInstance(ctx context.Context, serverID, id string) error {
	return c.do(ctx, http.MethodDelete, rpcPath(serverID, "model", id), nil, nil)
}

func (c *Client) AddEvaluationResult(ctx context.Context, serverID string, req *api.EvaluationResultsEntity) (*api.EvaluationResultsEntity, error) {
	var resp api.EvaluationResultsEntity
	if err := c.do(ctx, http.MethodPost, rpcPath(serverID, "evaluation"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ============================================================================
// Deployments
// ============================================================================

func deploymentPath(id string, rest ...string) string {
	p := "/deployment/" + url.PathEscape(id)
	for _, part := range rest {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) CreateDeployment(ctx context.Context, req *api.CreateDeploymentRequest) (*api.DeploymentResponse, error) {
	var resp api.DeploymentResponse
	if err := c.do(ctx, http.MethodPost, "/deployment", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDeployment(ctx context.Context, id string) (*api.DeploymentResponse, error) {
	var resp api.DeploymentResponse
	if err := c.do(ctx, http.MethodGet, deploymentPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListDeployments(ctx context.Context) ([]api.DeploymentResponse, error) {
	var resp api.DeploymentList
	if err := c.do(ctx, http.MethodGet, "/deployments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Deployments, nil
}

func (c *Client) DeleteDeployment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, deploymentPath(id), nil, nil)
}

func (c *Client) DeployModel(ctx context.Context, deploymentID string, req *api.ImportModelRequest) (*api.ModelEntity, error) {
	var resp api.ModelEntity
	if err := c.do(ctx, http.MethodPost, deploymentPath(deploymentID, "model"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDeployedModel(ctx context.Context, deploymentID, modelID string) (*api.ModelEntity, error) {
	var resp api.ModelEntity
	if err := c.do(ctx, http.MethodGet, deploymentPath(deploymentID, "model", modelID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteDeployedModel(ctx context.Context, deploymentID, modelID string) error {
	return c.do(ctx, http.MethodDelete, deploymentPath(deploymentID, "model", modelID), nil, nil)
}

func (c *Client) SetModelState(ctx context.Context, deploymentID, modelID, state string) (*api.ModelEntity, error) {
	var resp api.ModelEntity
	if err := c.do(ctx, http.MethodPost, deploymentPath(deploymentID, "model", modelID, "state"), &api.SetState{State: state}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ============================================================================
// Transport
// ============================================================================

// do sends body as JSON and decodes a 2xx answer into out. Non-2xx answers become
// *domain.APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create platform request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.WithFields(log.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("platform request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode platform response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &domain.APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body api.ErrorResponse
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
