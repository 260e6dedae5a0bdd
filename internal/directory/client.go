// Package directory is an HTTP client for a remote role/permission
// directory service, used when this deployment does not own the role
// store. It satisfies the same repository contract as the local
// postgres store.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	internal "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/role"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type roleRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Permissions []string `json:"permissions"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (c *Client) GetAll(ctx context.Context) ([]*role.Role, error) {
	var payload struct {
		Roles []roleRecord `json:"roles"`
	}
	if err := c.do(ctx, http.MethodGet, "/roles", nil, &payload); err != nil {
		return nil, err
	}

	roles := make([]*role.Role, 0, len(payload.Roles))
	for _, record := range payload.Roles {
		roles = append(roles, recordToRole(record))
	}
	return roles, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*role.Role, error) {
	var record roleRecord
	err := c.do(ctx, http.MethodGet, "/roles/"+id, nil, &record)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeRoleNotFound {
			return nil, nil
		}
		return nil, err
	}
	return recordToRole(record), nil
}

func (c *Client) Create(ctx context.Context, newRole *role.Role) error {
	body := map[string]interface{}{"name": newRole.Name}
	if newRole.ParentID != nil && *newRole.ParentID != "" {
		body["parent_id"] = *newRole.ParentID
	}

	var record roleRecord
	if err := c.do(ctx, http.MethodPost, "/roles", body, &record); err != nil {
		return err
	}

	newRole.ID = record.ID
	return nil
}

func (c *Client) Update(ctx context.Context, updated *role.Role) error {
	body := map[string]interface{}{
		"name":        updated.Name,
		"permissions": updated.Permissions,
	}
	if updated.ParentID != nil {
		body["parent_id"] = *updated.ParentID
	}
	return c.do(ctx, http.MethodPut, "/roles/"+updated.ID, body, nil)
}

func (c *Client) UpdatePermissions(ctx context.Context, id string, permissions []string) (*role.Role, error) {
	body := map[string]interface{}{"permissions": permissions}

	var record roleRecord
	if err := c.do(ctx, http.MethodPatch, "/roles/"+id+"/permissions", body, &record); err != nil {
		return nil, err
	}
	return recordToRole(record), nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/roles/"+id, nil, nil)
}

// FetchPermissions returns the flattened permission codes the session
// holds. A 401 maps to ErrSessionInvalid so callers can trigger the
// session-expiry flow instead of treating the principal as empty.
func (c *Client) FetchPermissions(ctx context.Context, userID string) ([]string, error) {
	var payload struct {
		Permissions []struct {
			Code string `json:"code"`
		} `json:"permissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+userID+"/permissions", nil, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(payload.Permissions))
	codes := make([]string, 0, len(payload.Permissions))
	for _, p := range payload.Permissions {
		if p.Code == "" || seen[p.Code] {
			continue
		}
		seen[p.Code] = true
		codes = append(codes, p.Code)
	}
	return codes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "method", method, "path", path, "error", err)
		return internal.NewExternalError("directory service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode directory response: %w", err)
		}
		return nil
	}

	return c.mapError(resp, method, path)
}

// mapError translates directory failure responses into the shared
// taxonomy. Some deployments return structured codes; older ones only
// return a message, so known phrases are matched as a fallback.
func (c *Client) mapError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var parsed errorBody
	_ = json.Unmarshal(raw, &parsed)

	code := parsed.Error.Code
	message := parsed.Error.Message
	if message == "" {
		message = parsed.Message
	}

	c.logger.Warn("directory request rejected",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"code", code)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return internal.ErrSessionInvalid
	case http.StatusNotFound:
		return internal.ErrRoleNotFound
	case http.StatusForbidden:
		return internal.ErrProtectedRole
	case http.StatusConflict:
		switch code {
		case string(internal.ErrCodeHasDependents):
			return internal.ErrHasDependents
		case string(internal.ErrCodeDuplicateName):
			return internal.ErrDuplicateName
		}
		lower := strings.ToLower(message)
		if strings.Contains(lower, "already exists") || strings.Contains(lower, "duplicate") {
			return internal.ErrDuplicateName
		}
		if strings.Contains(lower, "dependent") || strings.Contains(lower, "child") {
			return internal.ErrHasDependents
		}
		return internal.ErrDuplicateName
	default:
		return internal.NewExternalError(
			fmt.Sprintf("directory service returned %d", resp.StatusCode), nil)
	}
}

func recordToRole(record roleRecord) *role.Role {
	perms := record.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &role.Role{
		ID:          record.ID,
		Name:        record.Name,
		ParentID:    record.ParentID,
		Permissions: perms,
	}
}
