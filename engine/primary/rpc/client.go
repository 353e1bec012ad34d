package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/model/messages"
)

const (
	DefaultRetryBase     = 100 * time.Millisecond
	DefaultRetryAttempts = 5
)

// Client is used by workers to report batches to their primary. Calls failing
// with codes.Unavailable, which the primary returns until it is ready, are
// retried with exponential backoff.
type Client struct {
	conn     *grpc.ClientConn
	base     time.Duration
	attempts uint64
}

type ClientOption func(*Client)

// WithRetry sets the initial backoff and the maximum number of retries.
// Zero retries disables retrying.
func WithRetry(base time.Duration, attempts uint64) ClientOption {
	return func(c *Client) {
		c.base = base
		c.attempts = attempts
	}
}

// NewClient wraps an existing connection. The connection must be dialed with
// the Codec forced, see DialOptions.
func NewClient(conn *grpc.ClientConn, opts ...ClientOption) *Client {
	c := &Client{
		conn:     conn,
		base:     DefaultRetryBase,
		attempts: DefaultRetryAttempts,
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// DialOptions returns the options needed to talk to the service.
func DialOptions(maxMsgSize uint) []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.ForceCodec(Codec{}),
			grpc.MaxCallRecvMsgSize(int(maxMsgSize)),
			grpc.MaxCallSendMsgSize(int(maxMsgSize)),
		),
	}
}

// Dial connects to the primary at the given address.
func Dial(ctx context.Context, addr string, maxMsgSize uint, opts ...ClientOption) (*Client, error) {
	conn, err := grpc.DialContext(ctx, addr, DialOptions(maxMsgSize)...)
	if err != nil {
		return nil, fmt.Errorf("could not dial primary at %s: %w", addr, err)
	}
	return NewClient(conn, opts...), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// ReportOwnBatch reports a batch created by the calling worker. It returns once
// the primary acknowledged the digest.
func (c *Client) ReportOwnBatch(ctx context.Context, digest flow.BatchDigest, workerID flow.WorkerID, createdAt time.Time) error {
	req := &messages.OwnBatchReport{
		Digest:    digest,
		WorkerID:  workerID,
		CreatedAt: uint64(createdAt.UnixMilli()),
	}
	return c.withRetry(ctx, func(ctx context.Context) error {
		return c.conn.Invoke(ctx, fullMethod(MethodReportOwnBatch), req, new(messages.Empty))
	})
}

// ReportOthersBatch reports a batch the calling worker received from a peer.
func (c *Client) ReportOthersBatch(ctx context.Context, digest flow.BatchDigest, workerID flow.WorkerID) error {
	req := &messages.PeerBatchReport{
		Digest:   digest,
		WorkerID: workerID,
	}
	return c.withRetry(ctx, func(ctx context.Context) error {
		return c.conn.Invoke(ctx, fullMethod(MethodReportOthersBatch), req, new(messages.Empty))
	})
}

// WorkerInfo returns the workers of the primary.
func (c *Client) WorkerInfo(ctx context.Context) (map[flow.WorkerID]flow.WorkerInfo, error) {
	resp := new(messages.WorkerInfoResponse)
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.conn.Invoke(ctx, fullMethod(MethodWorkerInfo), &messages.WorkerInfoRequest{}, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Workers, nil
}

func (c *Client) withRetry(ctx context.Context, call func(context.Context) error) error {
	if c.attempts == 0 {
		return call(ctx)
	}
	backoff := retry.WithMaxRetries(c.attempts, retry.NewExponential(c.base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := call(ctx)
		if status.Code(err) == codes.Unavailable {
			return retry.RetryableError(err)
		}
		return err
	})
}
