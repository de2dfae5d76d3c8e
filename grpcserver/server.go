package grpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/protoglue"
)

// UnaryHandler answers exactly one request frame with exactly one
// response frame.
type UnaryHandler func(ctx context.Context, payload []byte) ([]byte, error)

// StreamHandler answers a request frame with zero or more response
// frames delivered through send, for the server-streaming methods (the
// trickled-candidate variant of the signaling answer call).
type StreamHandler func(ctx context.Context, payload []byte, send func([]byte) error) error

// Server dispatches calls arriving on any connection — an HTTP/2 stream
// from transport/tlsserver or a WebRTC data channel from the webrtc
// package — to a handler registered by method name.
type Server struct {
	logger logging.Logger
	unary  map[string]UnaryHandler
	stream map[string]StreamHandler
}

func New(logger logging.Logger) *Server {
	return &Server{
		logger: logger,
		unary:  make(map[string]UnaryHandler),
		stream: make(map[string]StreamHandler),
	}
}

func (s *Server) RegisterUnary(method string, h UnaryHandler) {
	s.unary[method] = h
}

func (s *Server) RegisterStream(method string, h StreamHandler) {
	s.stream[method] = h
}

// ServeConn handles exactly one call over conn: a FlagHeader frame naming
// the method, one FlagData request frame, then either a single FlagData
// response frame (unary) or a sequence of them (streaming), followed in
// all cases by a FlagTrailer frame carrying the final status.
// Cancelling ctx — e.g. because the caller dropped the inbound stream —
// aborts an in-flight handler and still attempts to write a Cancelled
// trailer on a best-effort basis.
func (s *Server) ServeConn(ctx context.Context, conn io.ReadWriter) error {
	flag, hdrPayload, err := ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("grpcserver: reading call header: %w", err)
	}
	if flag != FlagHeader {
		return fmt.Errorf("grpcserver: expected header frame, got flag %d", flag)
	}
	var hdr CallHeader
	if err := json.Unmarshal(hdrPayload, &hdr); err != nil {
		return fmt.Errorf("grpcserver: decoding call header: %w", err)
	}

	flag, reqPayload, err := ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("grpcserver: reading request frame: %w", err)
	}
	if flag != FlagData {
		return fmt.Errorf("grpcserver: expected data frame, got flag %d", flag)
	}

	var callErr error
	switch {
	case ctx.Err() != nil:
		callErr = errkind.Cancelled(ctx.Err())
	default:
		if h, ok := s.unary[hdr.Method]; ok {
			callErr = s.runUnary(ctx, conn, h, reqPayload)
		} else if h, ok := s.stream[hdr.Method]; ok {
			callErr = s.runStream(ctx, conn, h, reqPayload)
		} else {
			callErr = fmt.Errorf("grpcserver: unimplemented method %q", hdr.Method)
			st := status.New(codes.Unimplemented, callErr.Error())
			return writeTrailer(conn, st)
		}
	}

	if callErr != nil && ctx.Err() != nil && !errkind.Is(callErr, errkind.CancelledKind) {
		callErr = errkind.Cancelled(callErr)
	}
	st := errkind.GRPCStatus(callErr)
	return writeTrailer(conn, st)
}

func (s *Server) runUnary(ctx context.Context, conn io.Writer, h UnaryHandler, reqPayload []byte) error {
	resp, err := h(ctx, reqPayload)
	if err != nil {
		return err
	}
	return WriteFrame(conn, FlagData, resp)
}

func (s *Server) runStream(ctx context.Context, conn io.Writer, h StreamHandler, reqPayload []byte) error {
	return h(ctx, reqPayload, func(b []byte) error {
		return WriteFrame(conn, FlagData, b)
	})
}

func writeTrailer(conn io.Writer, st *status.Status) error {
	trailer := protoglue.StatusGRPC{Code: uint32(st.Code()), Message: st.Message()}
	body, err := json.Marshal(trailer)
	if err != nil {
		return fmt.Errorf("grpcserver: encoding trailer: %w", err)
	}
	return WriteFrame(conn, FlagTrailer, body)
}
