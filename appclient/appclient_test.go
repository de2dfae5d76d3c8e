package appclient_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.viam.com/test"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/protoglue"
)

// pipeConn wires a client's writes to the server's reads and back, both
// served in-process within the same test. Reads block until the other
// side writes, so the server goroutine and the client need no ordering.
type pipeConn struct {
	io.Reader
	io.Writer
}

type loopDialer struct {
	srv *grpcserver.Server
}

func (d *loopDialer) Dial(ctx context.Context) (appclient.Conn, error) {
	serverR, clientW := io.Pipe()
	clientR, serverW := io.Pipe()
	client := &pipeConn{Reader: clientR, Writer: clientW}
	server := &pipeConn{Reader: serverR, Writer: serverW}
	go d.srv.ServeConn(ctx, server)
	return client, nil
}

func TestAuthenticateAndConfig(t *testing.T) {
	// Authenticate only checks that the token is well-formed, so an
	// unsigned token is enough here.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "r1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	test.That(t, err, test.ShouldBeNil)

	srv := grpcserver.New(logging.NewTestLogger("test"))
	srv.RegisterUnary("AppService.Authenticate", func(ctx context.Context, payload []byte) ([]byte, error) {
		var req protoglue.AuthenticateRequest
		test.That(t, protoglue.Decode(payload, &req), test.ShouldBeNil)
		return protoglue.Encode(protoglue.AuthenticateResponse{JWT: token})
	})
	srv.RegisterUnary("AppService.Config", func(ctx context.Context, payload []byte) ([]byte, error) {
		return protoglue.Encode(protoglue.ConfigResponse{
			Components: []protoglue.ComponentConfigWire{{Name: "m1", API: "motor", Model: "fake"}},
		})
	})

	client := appclient.New(&loopDialer{srv: srv})
	ctx := context.Background()

	test.That(t, client.Authenticate(ctx, "r1", "s1"), test.ShouldBeNil)

	cfg, err := client.Config(ctx, "r1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(cfg.Components), test.ShouldEqual, 1)
	test.That(t, cfg.Components[0].Name, test.ShouldEqual, "m1")
}

func TestBackoffDelayCapsAt60s(t *testing.T) {
	test.That(t, appclient.BackoffDelay(0), test.ShouldEqual, time.Second)
	test.That(t, appclient.BackoffDelay(10), test.ShouldEqual, 60*time.Second)
}
