package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageHost stores image bytes somewhere public and returns their URL.
type ImageHost interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

const ImgBBEndpoint = "https://api.imgbb.com/1/upload"

type ImgBBHost struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewImgBBHost(apiKey string, timeout time.Duration) *ImgBBHost {
	return &ImgBBHost{
		apiKey:   apiKey,
		endpoint: ImgBBEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// WithEndpoint points the host at a different upload URL.
func (h *ImgBBHost) WithEndpoint(endpoint string) *ImgBBHost {
	h.endpoint = endpoint
	return h
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (h *ImgBBHost) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	form := url.Values{}
	form.Set("key", h.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))
	form.Set("name", filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("imgbb: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb: upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("imgbb: read response: %w", err)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("imgbb: unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success || parsed.Data.URL == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("imgbb: upload %s rejected: %s", filename, msg)
	}
	return parsed.Data.URL, nil
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL objects are served from. Defaults to the endpoint.
	PublicURL string
}

type MinioHost struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioHost(ctx context.Context, cfg MinioConfig) (*MinioHost, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	found, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket %s: %w", cfg.Bucket, err)
	}
	if !found {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &MinioHost{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (h *MinioHost) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	object := fmt.Sprintf("listings/%s%s", uuid.New().String(), strings.ToLower(path.Ext(filename)))
	_, err := h.client.PutObject(ctx, h.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		return "", fmt.Errorf("minio: upload %s: %w", filename, err)
	}
	return fmt.Sprintf("%s/%s/%s", h.publicURL, h.bucket, object), nil
}
