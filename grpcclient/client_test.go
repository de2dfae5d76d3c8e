package grpcclient_test

import (
	"bytes"
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/grpcclient"
	"go.viam.com/micrordk/grpcserver"
)

type fakeConn struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (c *fakeConn) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c *fakeConn) Read(p []byte) (int, error)  { return c.in.Read(p) }

func TestCallUnary(t *testing.T) {
	out := &bytes.Buffer{}
	in := &bytes.Buffer{}
	test.That(t, grpcserver.WriteFrame(in, grpcserver.FlagData, []byte("result")), test.ShouldBeNil)
	test.That(t, grpcserver.WriteFrame(in, grpcserver.FlagTrailer, []byte(`{"code":0}`)), test.ShouldBeNil)

	conn := &fakeConn{in: in, out: out}
	resp, err := grpcclient.Call(conn, "Whatever", []byte("req"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(resp), test.ShouldEqual, "result")

	flag, payload, err := grpcserver.ReadFrame(out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flag, test.ShouldEqual, grpcserver.FlagHeader)
	test.That(t, len(payload) > 0, test.ShouldBeTrue)
}

func TestCallUnaryErrorStatus(t *testing.T) {
	out := &bytes.Buffer{}
	in := &bytes.Buffer{}
	test.That(t, grpcserver.WriteFrame(in, grpcserver.FlagTrailer, []byte(`{"code":14,"message":"down"}`)), test.ShouldBeNil)

	conn := &fakeConn{in: in, out: out}
	_, err := grpcclient.Call(conn, "Whatever", []byte("req"))
	test.That(t, err, test.ShouldNotBeNil)
}
