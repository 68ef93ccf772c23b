package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient talks to a running tubedash server.
type APIClient struct {
	base string
	http *http.Client
}

func NewAPIClient(base string) *APIClient {
	return &APIClient{
		base: base,
		// Inspect can take a while; yt-dlp does real network work.
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *APIClient) postJSON(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server: %s", bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *APIClient) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server: %s", bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *APIClient) Inspect(url string) (*InspectResponse, error) {
	var out InspectResponse
	err := c.postJSON("/api/inspect", map[string]string{"url": url}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) StartDownload(url, quality string) (*Task, error) {
	var out Task
	err := c.postJSON("/api/downloads", map[string]string{"url": url, "quality": quality}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) TaskStatus(id int64) (*Task, error) {
	var out Task
	err := c.getJSON(fmt.Sprintf("/api/downloads/%d", id), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
