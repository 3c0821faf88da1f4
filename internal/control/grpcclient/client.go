// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient is the pipeline's only dependency on the control plane:
// it dials a control-plane address and watches the standard gRPC health
// service, translating SERVING/NOT_SERVING into Resume/Pause on a shared
// control.State. The control-plane server itself is out of scope here; only
// this consumer is built, in the same connect-then-stream shape this
// codebase previously used for a bidirectional task stream, generalized
// from a custom proto service down to the well-known grpc_health_v1
// service shipped inside google.golang.org/grpc itself, so no protobuf
// stubs are hand-authored.
package grpcclient

import (
	"context"
	"io"
	"time"

	"seedfast/cli/internal/control"
	"seedfast/cli/internal/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Client watches a control-plane's health service and mirrors its serving
// status onto a control.State.
type Client struct {
	conn   *grpc.ClientConn
	health grpc_health_v1.HealthClient
}

// Connect dials addr and blocks until the connection is up, ctx is
// canceled, or 10 seconds pass (insecure transport; the
// control-plane is assumed to live on a private network alongside the
// pipeline, the same trust boundary this codebase's internal bridge client
// assumed for its backend address).
func Connect(ctx context.Context, addr string) (*Client, error) {
	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(dctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:   conn,
		health: grpc_health_v1.NewHealthClient(conn),
	}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// WatchPause runs until ctx is canceled or the stream ends, driving state's
// Pause/Resume from the control plane's serving status: NOT_SERVING pauses
// the pipeline, SERVING (or UNKNOWN, treated as serving to fail open)
// resumes it. Reconnects are left to the caller; a single stream error
// returns rather than looping — termination is a signal, not a fault to
// mask.
func (c *Client) WatchPause(ctx context.Context, state *control.State, service string) error {
	stream, err := c.health.Watch(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			logging.Warn(logging.DescribeGRPCError(err.Error()))
			return err
		}

		switch resp.GetStatus() {
		case grpc_health_v1.HealthCheckResponse_NOT_SERVING:
			state.Pause()
		default:
			state.Resume()
		}
	}
}
