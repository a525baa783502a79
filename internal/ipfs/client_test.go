package ipfs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darshan-stack/Muncipal-Fund/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(uploadURL, jwt string) *Client {
	return NewClient(config.IPFSConfig{
		UploadURL:     uploadURL,
		GatewayURL:    "https://gateway.pinata.cloud/ipfs",
		PinataJWT:     jwt,
		UploadTimeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestPinSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-jwt", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IpfsHash":"QmRealHash","PinSize":42}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-jwt")
	hash, pinned := client.Pin(context.Background(), "photo.jpg", []byte("jpeg bytes"))

	assert.True(t, pinned)
	assert.Equal(t, "QmRealHash", hash)
}

func TestPinUpstreamFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-jwt")
	hash, pinned := client.Pin(context.Background(), "photo.jpg", []byte("jpeg bytes"))

	assert.False(t, pinned)
	assert.True(t, strings.HasPrefix(hash, "Qm"))
	assert.Len(t, hash, 46)
}

func TestPinWithoutCredentialsFallsBack(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	hash, pinned := client.Pin(context.Background(), "photo.jpg", []byte("jpeg bytes"))

	assert.False(t, called)
	assert.False(t, pinned)
	assert.True(t, strings.HasPrefix(hash, "Qm"))
}

func TestPinUnreachableEndpointFallsBack(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", "test-jwt")
	hash, pinned := client.Pin(context.Background(), "photo.jpg", []byte("jpeg bytes"))

	assert.False(t, pinned)
	assert.True(t, strings.HasPrefix(hash, "Qm"))
}

func TestGatewayURL(t *testing.T) {
	client := newTestClient("http://unused", "")
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmHash", client.GatewayURL("QmHash"))
}
