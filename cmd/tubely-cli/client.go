package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the upload API.
type Client struct {
	http *resty.Client
}

// apiError mirrors the server's error envelope.
type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "tubely-cli/"+version).
		SetTimeout(timeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Client{http: client}
}

func (c *Client) CreateVideo(ctx context.Context, title, description string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"title": title, "description": description}).
		Post("/videos")
	return decode(resp, err)
}

func (c *Client) ListVideos(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/videos")
	return decode(resp, err)
}

func (c *Client) GetVideo(ctx context.Context, id string) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id).Get("/videos/{id}")
	return decode(resp, err)
}

func (c *Client) ListAssets(ctx context.Context, id string) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id).Get("/videos/{id}/assets")
	return decode(resp, err)
}

// Upload posts one file as the multipart field expected by kind ("video" or
// "thumbnail"). An empty contentType is derived from the file extension.
func (c *Client) Upload(ctx context.Context, kind, id, filename, contentType string, body io.Reader) (json.RawMessage, error) {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		return nil, fmt.Errorf("cannot infer content type of %s; pass --content-type", filename)
	}

	path := "/videos/{id}/upload"
	if kind == "thumbnail" {
		path = "/thumbnails/{id}/upload"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetMultipartField(kind, filepath.Base(filename), contentType, body).
		Post(path)
	return decode(resp, err)
}

// GetThumbnail downloads a registry thumbnail and returns its bytes and type.
func (c *Client) GetThumbnail(ctx context.Context, id string) ([]byte, string, error) {
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id).Get("/thumbnails/{id}")
	if _, err := decode(resp, err); err != nil {
		return nil, "", err
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

func decode(resp *resty.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		var apiErr apiError
		if jsonErr := json.Unmarshal(resp.Body(), &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%s (status %d, type %s, request %s)",
				apiErr.Error.Message, resp.StatusCode(), apiErr.Error.Type, apiErr.Error.RequestID)
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
	}
	return json.RawMessage(resp.Body()), nil
}
