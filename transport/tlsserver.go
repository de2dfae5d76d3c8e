// Package transport implements the direct HTTP/2+TLS accept loop: the
// non-WebRTC path by which a caller on the same network reaches the
// device's RPC surface without going through the cloud's signaling
// relay. Each HTTP/2 request is a single RPC call, framed exactly the
// way grpcserver expects on any other connection kind.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"

	"golang.org/x/net/http2"

	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
)

// duplexStream adapts one HTTP/2 request/response pair into the
// io.ReadWriter grpcserver.Server.ServeConn expects: the client streams
// frames in via the request body and reads frames back from the
// response body, both kept open for the life of the call by disabling
// response buffering (http.Flusher) on every write.
type duplexStream struct {
	body io.ReadCloser
	w    http.ResponseWriter
	f    http.Flusher
}

func (d *duplexStream) Read(p []byte) (int, error) { return d.body.Read(p) }

func (d *duplexStream) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	if err == nil {
		d.f.Flush()
	}
	return n, err
}

// TLSServer accepts HTTP/2 connections secured with TLSConfig (which
// cmd/micrordk builds from the TLS_CERT/TLS_KEY credential-store entries)
// and dispatches every request to a grpcserver.Server.
type TLSServer struct {
	Addr      string
	TLSConfig *tls.Config
	RPC       *grpcserver.Server
	Logger    logging.Logger

	listener net.Listener
}

// ListenAndServe blocks accepting connections until ctx is cancelled.
func (s *TLSServer) ListenAndServe(ctx context.Context) error {
	ln, err := tls.Listen("tcp", s.Addr, s.TLSConfig)
	if err != nil {
		return fmt.Errorf("transport: listening on %s: %w", s.Addr, err)
	}
	s.listener = ln
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	h2 := &http2.Server{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.serveCall(r.Context(), w, r)
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("transport: accept: %w", err)
		}
		go h2.ServeConn(conn, &http2.ServeConnOpts{Context: ctx, Handler: handler})
	}
}

func (s *TLSServer) serveCall(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	stream := &duplexStream{body: r.Body, w: w, f: flusher}
	if err := s.RPC.ServeConn(ctx, stream); err != nil {
		s.Logger.Errorw("rpc call failed", "error", err, "remote", r.RemoteAddr)
	}
}
