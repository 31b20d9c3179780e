package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/pkg/auth"
	"github.com/bibbank/mt799-service/pkg/observability"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
	"github.com/bibbank/mt799-service/pkg/testutil"
	"github.com/bibbank/mt799-service/pkg/tlsutil"
)

// --- Mock implementations ---

type mockRepo struct {
	mu      sync.Mutex
	records []model.MessageRecord
	err     error
}

func (m *mockRepo) Save(_ context.Context, record model.MessageRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]model.MessageRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MessageRecord(nil), m.records...), nil
}

func newHandler(repo *mockRepo) *MessageHandler {
	logger := observability.NopLogger()
	assembler := service.NewAssembler()
	return NewMessageHandler(
		usecase.NewIngestMessage(swiftmt.DefaultParser, assembler, repo, nil, logger),
		usecase.NewValidateMessage(swiftmt.DefaultParser, assembler),
		usecase.NewListMessages(repo),
		logger,
	)
}

func TestSubmitMessage(t *testing.T) {
	repo := &mockRepo{}
	h := newHandler(repo)

	resp, err := h.SubmitMessage(context.Background(), &SubmitMessageRequest{Content: testutil.SampleMT799(), Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, "REF1", resp.TransactionRef)
	assert.Equal(t, "Message saved successfully.", resp.Message)
	assert.NotEmpty(t, resp.ID)

	_, err = time.Parse(time.RFC3339Nano, resp.CreatedAt)
	assert.NoError(t, err)

	require.Len(t, repo.records, 1)
	assert.Equal(t, "GRPC", repo.records[0].Channel().String())
}

func TestSubmitMessage_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		repo     *mockRepo
		content  string
		wantCode codes.Code
		wantMsg  string
	}{
		{name: "empty", repo: &mockRepo{}, content: "", wantCode: codes.InvalidArgument, wantMsg: "No file uploaded."},
		{name: "malformed", repo: &mockRepo{}, content: "garbage", wantCode: codes.InvalidArgument, wantMsg: "Invalid SWIFT MT799 message format."},
		{name: "store failure", repo: &mockRepo{err: errors.New("db down")}, content: testutil.SampleMT799(), wantCode: codes.Internal, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHandler(tt.repo).SubmitMessage(context.Background(), &SubmitMessageRequest{Content: tt.content})
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}

func TestListMessages(t *testing.T) {
	repo := &mockRepo{}
	h := newHandler(repo)

	_, err := h.ListMessages(context.Background(), &ListMessagesRequest{})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.SubmitMessage(context.Background(), &SubmitMessageRequest{Content: testutil.SampleMT799()})
	require.NoError(t, err)

	resp, err := h.ListMessages(context.Background(), &ListMessagesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "PRCBBGSFAXXX", resp.Messages[0].BIC)
}

func TestValidateMessage(t *testing.T) {
	h := newHandler(&mockRepo{})

	resp, err := h.ValidateMessage(context.Background(), &ValidateMessageRequest{Content: testutil.SampleMT799()})
	require.NoError(t, err)
	assert.True(t, resp.Valid)

	resp, err = h.ValidateMessage(context.Background(), &ValidateMessageRequest{Content: "{1:F01}"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Reason)
}

// startServer runs a Server over an in-memory listener and returns a client
// connection to it.
func startServer(t *testing.T, repo *mockRepo, cfg ServerConfig, creds ...credentials.TransportCredentials) *grpclib.ClientConn {
	t.Helper()

	clientCreds := insecure.NewCredentials()
	if len(creds) > 0 {
		clientCreds = creds[0]
	}

	srv, err := NewServer(newHandler(repo), cfg, observability.NopLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(clientCreds),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_JSONCodecRoundTrip(t *testing.T) {
	conn := startServer(t, &mockRepo{}, ServerConfig{})
	ctx := context.Background()

	var submitted SubmitMessageResponse
	err := conn.Invoke(ctx, MethodSubmitMessage,
		&SubmitMessageRequest{Content: testutil.SampleMT799()}, &submitted,
		grpclib.CallContentSubtype(CodecName),
	)
	require.NoError(t, err)
	assert.Equal(t, "REF1", submitted.TransactionRef)

	var listed ListMessagesResponse
	err = conn.Invoke(ctx, MethodListMessages, &ListMessagesRequest{}, &listed, grpclib.CallContentSubtype(CodecName))
	require.NoError(t, err)
	require.Len(t, listed.Messages, 1)
	assert.Equal(t, submitted.ID, listed.Messages[0].ID.String())

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.Status)
}

func TestServer_Auth(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret-key", Issuer: "test", Expiration: time.Hour})
	require.NoError(t, err)
	conn := startServer(t, &mockRepo{}, ServerConfig{JWT: jwtSvc})

	withToken := func(roles ...string) context.Context {
		tok, err := jwtSvc.GenerateToken("ops-user", roles)
		require.NoError(t, err)
		return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
	}
	submit := func(ctx context.Context) error {
		var resp SubmitMessageResponse
		return conn.Invoke(ctx, MethodSubmitMessage,
			&SubmitMessageRequest{Content: testutil.SampleMT799()}, &resp,
			grpclib.CallContentSubtype(CodecName),
		)
	}

	assert.Equal(t, codes.Unauthenticated, status.Code(submit(context.Background())))
	assert.Equal(t, codes.PermissionDenied, status.Code(submit(withToken(auth.RoleViewer))))
	assert.NoError(t, submit(withToken(auth.RoleSubmitter)))

	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	assert.NoError(t, err, "health checks skip authentication")
}

func TestServer_TLS(t *testing.T) {
	certFile, keyFile, err := tlsutil.WriteSelfSigned([]string{"localhost"}, t.TempDir())
	require.NoError(t, err)

	clientCfg, err := tlsutil.ClientConfig(certFile, false)
	require.NoError(t, err)
	clientCfg.ServerName = "localhost"

	conn := startServer(t, &mockRepo{}, ServerConfig{CertFile: certFile, KeyFile: keyFile}, credentials.NewTLS(clientCfg))

	var listed ListMessagesResponse
	err = conn.Invoke(context.Background(), MethodListMessages, &ListMessagesRequest{}, &listed, grpclib.CallContentSubtype(CodecName))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
