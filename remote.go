package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteClient talks to the project server's REST API so a desktop
// session can open and save projects hosted by the web editor.
type RemoteClient struct {
	baseURL string
	http    *http.Client
}

func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ProjectInfo is the listing entry returned by the server.
type ProjectInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (rc *RemoteClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var remote remoteError
		if json.Unmarshal(data, &remote) == nil && remote.Message != "" {
			return &remote
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// ListProjects fetches the server's project index.
func (rc *RemoteClient) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	var projects []ProjectInfo
	if err := rc.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject uploads the current document as a new project and
// returns its assigned id.
func (rc *RemoteClient) CreateProject(ctx context.Context, name string, c *Canvas) (ProjectInfo, error) {
	document, err := MarshalWeb(c, name)
	if err != nil {
		return ProjectInfo{}, err
	}
	payload, err := json.Marshal(map[string]json.RawMessage{
		"name": json.RawMessage(fmt.Sprintf("%q", name)),
		"data": json.RawMessage(document),
	})
	if err != nil {
		return ProjectInfo{}, err
	}
	var info ProjectInfo
	if err := rc.do(ctx, http.MethodPost, "/api/projects", payload, &info); err != nil {
		return ProjectInfo{}, err
	}
	return info, nil
}

// FetchProject loads the named project into the canvas.
func (rc *RemoteClient) FetchProject(ctx context.Context, id string, c *Canvas, cat *Catalog) error {
	var envelope struct {
		ID   string          `json:"id"`
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := rc.do(ctx, http.MethodGet, "/api/projects/"+id, nil, &envelope); err != nil {
		return err
	}
	return LoadDocument(c, cat, envelope.Data)
}

// UpdateProject replaces the stored document for an existing project.
func (rc *RemoteClient) UpdateProject(ctx context.Context, id, name string, c *Canvas) error {
	document, err := MarshalWeb(c, name)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]json.RawMessage{
		"name": json.RawMessage(fmt.Sprintf("%q", name)),
		"data": json.RawMessage(document),
	})
	if err != nil {
		return err
	}
	return rc.do(ctx, http.MethodPut, "/api/projects/"+id, payload, nil)
}
