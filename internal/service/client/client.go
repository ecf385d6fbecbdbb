package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/ollielynas/reanimator-site/internal/api/grpc/release"
	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/domain/release"
)

// Client wraps the ReleaseService client with a default call timeout.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn
	// api is the ReleaseService client.
	api api.ReleaseServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when the server address is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the release-site gRPC listener at address.
// Transport is insecure; the API only serves public release metadata.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial release server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewReleaseServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Latest is a resolution answered by the server.
type Latest struct {
	// Release holds the tag and, when found, the installer as its only asset.
	Release *release.Release
	// Installer is the selected asset or nil.
	Installer *release.Asset
	// Raw is the response message as received.
	Raw *structpb.Struct
}

// GetLatestRelease asks the server to resolve repo; an empty repo means the
// server's configured repository.
func (c *Client) GetLatestRelease(ctx context.Context, repo string) (*Latest, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetLatestRelease(callCtx, wrapperspb.String(repo))
	if err != nil {
		return nil, fmt.Errorf("get latest release: %w", err)
	}

	r, installer := api.FromStruct(resp)

	return &Latest{
		Release:   r,
		Installer: installer,
		Raw:       resp,
	}, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
