package grpcserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"google.golang.org/grpc/codes"

	"go.viam.com/test"

	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/protoglue"
	"go.viam.com/micrordk/resource"
)

// loopback is an io.ReadWriter splicing a client's writes into the
// server's reads and vice versa, in-process, without a real socket.
type loopback struct {
	toServer   *bytes.Buffer
	fromServer *bytes.Buffer
}

func newLoopback() (*loopback, *loopback) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	return &loopback{toServer: a, fromServer: b}, &loopback{toServer: b, fromServer: a}
}

func (l *loopback) Write(p []byte) (int, error) { return l.toServer.Write(p) }
func (l *loopback) Read(p []byte) (int, error)  { return l.fromServer.Read(p) }

func TestServeConnUnary(t *testing.T) {
	s := grpcserver.New(logging.NewTestLogger("test"))
	s.RegisterUnary("Echo", func(ctx context.Context, payload []byte) ([]byte, error) {
		return append([]byte("echo:"), payload...), nil
	})

	serverSide, clientSide := newLoopback()

	hdr, _ := json.Marshal(grpcserver.CallHeader{Method: "Echo"})
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagHeader, hdr), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagData, []byte("hi")), test.ShouldBeNil)

	test.That(t, s.ServeConn(context.Background(), serverSide), test.ShouldBeNil)

	flag, payload, err := grpcserver.ReadFrame(clientSide)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagData)
	test.That(t, string(payload), test.ShouldEqual, "echo:hi")

	flag, _, err = grpcserver.ReadFrame(clientSide)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagTrailer)
}

// missingDispatcher simulates a resource that was removed from the
// graph between config versions: any lookup fails with NotFoundError.
type missingDispatcher struct{}

func (missingDispatcher) Dispatch(ctx context.Context, name resource.Name) (resource.Resource, error) {
	return nil, resource.NewNotFoundError(name)
}

func TestServeConnDispatchMissingResourceMapsNotFound(t *testing.T) {
	s := grpcserver.New(logging.NewTestLogger("test"))
	s.RegisterUnary("Component.Dispatch", grpcserver.ComponentUnaryHandler(missingDispatcher{}))

	serverSide, clientSide := newLoopback()

	hdr, _ := json.Marshal(grpcserver.CallHeader{Method: "Component.Dispatch"})
	reqBody, err := protoglue.Encode(protoglue.ComponentRequest{ResourceName: "rdk:component:motor/m1", Method: "Stop"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagHeader, hdr), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagData, reqBody), test.ShouldBeNil)

	test.That(t, s.ServeConn(context.Background(), serverSide), test.ShouldBeNil)

	flag, payload, err := grpcserver.ReadFrame(clientSide)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagTrailer)

	var st protoglue.StatusGRPC
	test.That(t, json.Unmarshal(payload, &st), test.ShouldBeNil)
	test.That(t, st.Code, test.ShouldEqual, uint32(codes.NotFound))
}

func TestServeConnUnimplemented(t *testing.T) {
	s := grpcserver.New(logging.NewTestLogger("test"))
	serverSide, clientSide := newLoopback()

	hdr, _ := json.Marshal(grpcserver.CallHeader{Method: "Nope"})
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagHeader, hdr), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(clientSide, grpcserver.FlagData, nil), test.ShouldBeNil)

	test.That(t, s.ServeConn(context.Background(), serverSide), test.ShouldBeNil)

	flag, _, err := grpcserver.ReadFrame(clientSide)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagTrailer)
}
