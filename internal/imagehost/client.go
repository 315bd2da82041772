// Package imagehost uploads profile images to a Cloudinary-style CDN.
package imagehost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	uploadURL    string
	uploadPreset string
	defaultImage string
	httpClient   *http.Client
}

// NewClient configures an unsigned-upload client. defaultImage is the public
// URL of the stock avatar the host ingests for new accounts.
func NewClient(uploadURL, uploadPreset, defaultImage string) *Client {
	return &Client{
		uploadURL:    uploadURL,
		uploadPreset: uploadPreset,
		defaultImage: defaultImage,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadDefault asks the host to fetch the stock avatar and store it under
// the user's id, returning the hosted URL.
func (c *Client) UploadDefault(ctx context.Context, userID string) (string, error) {
	if c.uploadURL == "" {
		return "", fmt.Errorf("image host is not configured")
	}

	form := url.Values{}
	form.Set("file", c.defaultImage)
	form.Set("upload_preset", c.uploadPreset)
	form.Set("public_id", "avatars/"+userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image host returned status %d: %s", resp.StatusCode, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("image host response missing secure_url")
	}
	return result.SecureURL, nil
}
