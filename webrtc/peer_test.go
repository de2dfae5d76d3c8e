package webrtc_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pionwebrtc "github.com/pion/webrtc/v3"

	"go.viam.com/test"

	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/webrtc"
)

// callerDataChannelConn adapts a raw pion data channel to io.ReadWriter
// the same way the production dataChannelConn does, so the test can
// drive the "grpc" channel from the caller side without reaching into
// webrtc's unexported types.
type callerDataChannelConn struct {
	dc  *pionwebrtc.DataChannel
	buf []byte
	msg chan []byte
}

func newCallerDataChannelConn(dc *pionwebrtc.DataChannel) *callerDataChannelConn {
	c := &callerDataChannelConn{dc: dc, msg: make(chan []byte, 16)}
	dc.OnMessage(func(m pionwebrtc.DataChannelMessage) { c.msg <- m.Data })
	return c
}

func (c *callerDataChannelConn) Read(p []byte) (int, error) {
	if len(c.buf) == 0 {
		c.buf = <-c.msg
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *callerDataChannelConn) Write(p []byte) (int, error) {
	if err := c.dc.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func callRPC(t *testing.T, conn *callerDataChannelConn, method string, payload []byte) []byte {
	t.Helper()
	hdr, err := json.Marshal(grpcserver.CallHeader{Method: method})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(conn, grpcserver.FlagHeader, hdr), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(conn, grpcserver.FlagData, payload), test.ShouldBeNil)

	flag, resp, err := grpcserver.ReadFrame(conn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagData)

	flag, _, err = grpcserver.ReadFrame(conn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagTrailer)
	return resp
}

// TestWebRTCDataChannelServesMultipleSequentialCalls drives a full
// offer/answer/ICE/DTLS/data-channel handshake between a caller-side raw
// pion PeerConnection and a device-side webrtc.PeerConnection, then sends
// two sequential unary RPCs over the same still-open "grpc" data
// channel, proving the channel outlives a single call.
func TestWebRTCDataChannelServesMultipleSequentialCalls(t *testing.T) {
	logger := logging.NewTestLogger("test")

	rpc := grpcserver.New(logger)
	rpc.RegisterUnary("Echo", func(ctx context.Context, payload []byte) ([]byte, error) {
		return append([]byte("echo:"), payload...), nil
	})

	device, err := webrtc.NewPeerConnection(logger, rpc, nil)
	test.That(t, err, test.ShouldBeNil)
	defer device.Close()

	caller, err := pionwebrtc.NewAPI().NewPeerConnection(pionwebrtc.Configuration{})
	test.That(t, err, test.ShouldBeNil)
	defer caller.Close()

	dc, err := caller.CreateDataChannel("grpc", nil)
	test.That(t, err, test.ShouldBeNil)

	ready := make(chan struct{})
	dc.OnOpen(func() { close(ready) })
	conn := newCallerDataChannelConn(dc)

	offer, err := caller.CreateOffer(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, caller.SetLocalDescription(offer), test.ShouldBeNil)
	<-pionwebrtc.GatheringCompletePromise(caller)

	answerSDP, err := device.CreateAnswer(context.Background(), caller.LocalDescription().SDP)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, caller.SetRemoteDescription(pionwebrtc.SessionDescription{
		Type: pionwebrtc.SDPTypeAnswer,
		SDP:  answerSDP,
	}), test.ShouldBeNil)

	select {
	case <-ready:
	case <-time.After(10 * time.Second):
		t.Fatal("data channel never opened")
	}

	test.That(t, string(callRPC(t, conn, "Echo", []byte("first"))), test.ShouldEqual, "echo:first")
	test.That(t, string(callRPC(t, conn, "Echo", []byte("second"))), test.ShouldEqual, "echo:second")
}
