// Package client provides a Go client for the admin user API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/stagecontrol/admin-user-services/models"
)

// Client is a client for interacting with the /users resource.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// APIError carries the status and error message of a failed API request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// New creates a new instance of Client. baseURL includes the API base path,
// e.g. "http://localhost:8080/api".
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// ListUsers retrieves one page of users matching the query.
func (c *Client) ListUsers(ctx context.Context, q models.UserQuery) (*models.UserPage, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("page", strconv.Itoa(q.Skip/q.Limit+1))
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Filter.FullName != "" {
		params.Set("fullName", q.Filter.FullName)
	}
	if q.Filter.Email != "" {
		params.Set("email", q.Filter.Email)
	}
	if q.Filter.Role != "" {
		params.Set("role", q.Filter.Role)
	}
	if q.SortKey != "" {
		params.Set("sort", q.SortKey)
	}
	if q.SortDirection != "" {
		params.Set("direction", q.SortDirection)
	}

	listURL := fmt.Sprintf("%s/users?%s", c.BaseURL, params.Encode())

	respBody, statusCode, err := c.makeRequest(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, apiError(statusCode, respBody)
	}

	var page models.UserPage
	if err := json.Unmarshal(respBody, &page); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}
	return &page, nil
}

// CreateUser inserts a new user and returns it with its assigned ID.
func (c *Client) CreateUser(ctx context.Context, req models.NewUser) (*models.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode create request: %w", err)
	}

	respBody, statusCode, err := c.makeRequest(ctx, http.MethodPost, c.BaseURL+"/users", body)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusCreated {
		return nil, apiError(statusCode, respBody)
	}

	var user models.User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	return &user, nil
}

// UpdateUser replaces the named fields of the user with the given ID.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) error {
	payload := struct {
		ID string `json:"_id"`
		models.UserUpdate
	}{ID: id.String(), UserUpdate: upd}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode update request: %w", err)
	}

	respBody, statusCode, err := c.makeRequest(ctx, http.MethodPut, c.BaseURL+"/users", body)
	if err != nil {
		return err
	}
	if statusCode != http.StatusOK {
		return apiError(statusCode, respBody)
	}
	return nil
}

// DeleteUser removes the user with the given ID. Deleting an ID that no
// longer exists still succeeds.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	body, err := json.Marshal(map[string]string{"id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to encode delete request: %w", err)
	}

	respBody, statusCode, err := c.makeRequest(ctx, http.MethodDelete, c.BaseURL+"/users", body)
	if err != nil {
		return err
	}
	if statusCode != http.StatusOK {
		return apiError(statusCode, respBody)
	}
	return nil
}

// makeRequest performs an HTTP request and returns the response body and status.
func (c *Client) makeRequest(ctx context.Context, method, reqURL string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// apiError decodes the {error} payload of a failed request.
func apiError(status int, body []byte) error {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &APIError{Status: status, Message: fmt.Sprintf("unexpected status %d", status)}
	}
	return &APIError{Status: status, Message: errResp.Error}
}
