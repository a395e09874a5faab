package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

// Media asset folders at the image host.
const (
	FolderAvatars  = "avatars"
	FolderShops    = "shops"
	FolderProducts = "products"
	FolderEvents   = "events"
	FolderMessages = "messages"
)

type UploadOptions struct {
	Width int
}

type MediaClient interface {
	Upload(ctx context.Context, image, folder string, opts *UploadOptions) (domain.Image, error)
	UploadMany(ctx context.Context, images []string, folder string) ([]domain.Image, error)
	Delete(ctx context.Context, publicIDs []string) error
}

type mediaHTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

func NewMediaHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) MediaClient {
	return &mediaHTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

type uploadRequest struct {
	File   string `json:"file"`
	Folder string `json:"folder"`
	Width  int    `json:"width,omitempty"`
}

type uploadResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

func (c *mediaHTTPClient) Upload(ctx context.Context, image, folder string, opts *UploadOptions) (domain.Image, error) {
	payload := uploadRequest{File: image, Folder: folder}
	if opts != nil {
		payload.Width = opts.Width
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to prepare upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assets", bytes.NewReader(body))
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("MediaClient: upload to folder %s failed: %v", folder, err)
		return domain.Image{}, fmt.Errorf("failed to communicate with media service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Errorf("MediaClient: upload to folder %s returned status %d: %s", folder, resp.StatusCode, string(respBody))
		return domain.Image{}, fmt.Errorf("media service returned status %d", resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return domain.Image{}, fmt.Errorf("failed to decode media response: %w", err)
	}

	c.log.Debugf("MediaClient: uploaded asset %s to folder %s", uploaded.PublicID, folder)
	return domain.Image{PublicID: uploaded.PublicID, URL: uploaded.URL}, nil
}

func (c *mediaHTTPClient) UploadMany(ctx context.Context, images []string, folder string) ([]domain.Image, error) {
	uploaded := make([]domain.Image, 0, len(images))
	for _, image := range images {
		img, err := c.Upload(ctx, image, folder, nil)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, img)
	}
	return uploaded, nil
}

type deleteRequest struct {
	PublicIDs []string `json:"public_ids"`
}

func (c *mediaHTTPClient) Delete(ctx context.Context, publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}

	body, err := json.Marshal(deleteRequest{PublicIDs: publicIDs})
	if err != nil {
		return fmt.Errorf("failed to prepare delete payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assets/delete", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("MediaClient: delete of %d assets failed: %v", len(publicIDs), err)
		return fmt.Errorf("failed to communicate with media service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Errorf("MediaClient: delete returned status %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("media service returned status %d", resp.StatusCode)
	}

	c.log.Debugf("MediaClient: deleted %d assets", len(publicIDs))
	return nil
}
