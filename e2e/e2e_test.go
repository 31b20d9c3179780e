//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/pkg/auth"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

var (
	serviceURL string
	token      string
)

func TestMain(m *testing.M) {
	serviceURL = os.Getenv("SERVICE_URL")
	if serviceURL == "" {
		serviceURL = "http://localhost:8080"
	}

	// Mint a token when the service runs with AUTH_ENABLED.
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		issuer := os.Getenv("JWT_ISSUER")
		if issuer == "" {
			issuer = "bib-identity"
		}
		svc, err := auth.NewJWTService(auth.JWTConfig{Secret: secret, Issuer: issuer})
		if err == nil {
			token, _ = svc.GenerateToken("e2e", []string{auth.RoleAdmin})
		}
	}

	// Wait for the service to be ready
	for i := 0; i < 30; i++ {
		resp, err := http.Get(serviceURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(serviceURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestUploadAndListFlow(t *testing.T) {
	ref := "E2E" + uuid.NewString()[:8]

	// Step 1: Upload a message
	resp := upload(t, "/api/v1/messages/upload", testutil.MT799WithRefs(ref, "REL1", "end to end"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created dto.IngestMessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, ref, created.TransactionRef)

	// Step 2: It shows up in the listing
	resp = get(t, "/api/v1/messages")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed dto.ListMessagesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	var found bool
	for _, msg := range listed.Messages {
		if msg.ID == created.ID {
			found = true
			assert.Equal(t, ref, msg.TransactionRef)
			assert.Equal(t, "end to end", msg.MessageText)
		}
	}
	assert.True(t, found, "uploaded message %s not listed", created.ID)
}

func TestUploadRejected(t *testing.T) {
	resp := upload(t, "/api/v1/messages/upload", "not a swift message")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid SWIFT MT799 message format.", body["error"])
}

func TestValidateDoesNotStore(t *testing.T) {
	resp := upload(t, "/api/v1/messages/validate", testutil.SampleMT799())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ValidateMessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Valid)
}

func upload(t *testing.T, path, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "message.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, serviceURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, req)
}

func get(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, serviceURL+path, nil)
	require.NoError(t, err)
	return do(t, req)
}

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
