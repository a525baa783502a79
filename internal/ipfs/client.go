package ipfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/darshan-stack/Muncipal-Fund/internal/config"
	"go.uber.org/zap"
)

// Client pins content to IPFS through the Pinata HTTP API. Pinning is best
// effort: when credentials are missing or the upstream call fails, Pin falls
// back to a locally derived placeholder hash so uploads never hard-fail.
type Client struct {
	uploadURL  string
	gatewayURL string
	jwt        string
	apiKey     string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func NewClient(cfg config.IPFSConfig, logger *zap.Logger) *Client {
	return &Client{
		uploadURL:  cfg.UploadURL,
		gatewayURL: cfg.GatewayURL,
		jwt:        cfg.PinataJWT,
		apiKey:     cfg.PinataAPIKey,
		secretKey:  cfg.PinataSecret,
		httpClient: &http.Client{Timeout: cfg.UploadTimeout},
		logger:     logger.With(zap.String("service", "ipfs")),
	}
}

// Pin uploads the file to the pinning service and returns the content
// identifier plus whether the content was actually pinned upstream.
func (c *Client) Pin(ctx context.Context, fileName string, content []byte) (string, bool) {
	if c.jwt == "" && c.apiKey == "" {
		return c.fallbackHash(fileName), false
	}

	hash, err := c.pinFile(ctx, fileName, content)
	if err != nil {
		c.logger.Warn("IPFS pin failed, using fallback hash",
			zap.String("file_name", fileName),
			zap.Error(err))
		return c.fallbackHash(fileName), false
	}
	return hash, true
}

func (c *Client) pinFile(ctx context.Context, fileName string, content []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.jwt)
	} else {
		req.Header.Set("pinata_api_key", c.apiKey)
		req.Header.Set("pinata_secret_api_key", c.secretKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pinning service returned %d: %s", resp.StatusCode, data)
	}

	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", err
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("pinning service returned empty hash")
	}
	return pr.IpfsHash, nil
}

// fallbackHash derives a Qm-prefixed placeholder identifier from the file
// name and current time. It is not resolvable through the real gateway.
func (c *Client) fallbackHash(fileName string) string {
	seed := fileName + strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := sha256.Sum256([]byte(seed))
	return "Qm" + hex.EncodeToString(sum[:])[:44]
}

func (c *Client) GatewayURL(hash string) string {
	return c.gatewayURL + "/" + hash
}
