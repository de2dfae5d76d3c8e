package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
)

func TestServeCallRoundTrip(t *testing.T) {
	rpc := grpcserver.New(logging.NewTestLogger("test"))
	rpc.RegisterUnary("Echo", func(ctx context.Context, payload []byte) ([]byte, error) {
		return append([]byte("echo:"), payload...), nil
	})
	s := &TLSServer{RPC: rpc, Logger: logging.NewTestLogger("test")}

	var reqBody bytes.Buffer
	hdr, _ := json.Marshal(grpcserver.CallHeader{Method: "Echo"})
	test.That(t, grpcserver.WriteFrame(&reqBody, grpcserver.FlagHeader, hdr), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(&reqBody, grpcserver.FlagData, []byte("hi")), test.ShouldBeNil)

	req := httptest.NewRequest("POST", "/rpc", &reqBody)
	rec := httptest.NewRecorder()

	s.serveCall(context.Background(), rec, req)

	flag, payload, err := grpcserver.ReadFrame(rec.Body)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagData)
	test.That(t, string(payload), test.ShouldEqual, "echo:hi")

	flag, _, err = grpcserver.ReadFrame(rec.Body)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagTrailer)
}
