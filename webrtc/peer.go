// Package webrtc drives the device side of the peer-connection state
// machine: Idle -> Offering -> IceGathering -> IceChecking ->
// DtlsHandshaking -> Serving -> Closed, using pion/webrtc/v3 for the
// ICE/DTLS/SCTP/data-channel machinery rather than a hand-rolled
// protocol stack. StateSctpEstablished is defined but never entered: the
// state moves from DtlsHandshaking to Serving when the "grpc" data
// channel opens.
package webrtc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v3"
	"go.uber.org/atomic"

	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logging"
)

// errDataChannelClosed is what dataChannelConn.Read returns once its
// underlying data channel's message channel has been closed. ServeConn
// wraps this with context before it surfaces, so callers use
// isDataChannelClosed (errors.Is) rather than comparing directly.
var errDataChannelClosed = errors.New("webrtc: data channel closed")

func isDataChannelClosed(err error) bool {
	return errors.Is(err, errDataChannelClosed)
}

// ICEServer re-exports pion's STUN/TURN server descriptor so callers
// configuring a PeerConnection don't need to import pion directly.
type ICEServer = webrtc.ICEServer

// State names one point in the peer-connection lifecycle.
type State int

const (
	StateIdle State = iota
	StateOffering
	StateIceGathering
	StateIceChecking
	StateDtlsHandshaking
	StateSctpEstablished
	StateServing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOffering:
		return "Offering"
	case StateIceGathering:
		return "IceGathering"
	case StateIceChecking:
		return "IceChecking"
	case StateDtlsHandshaking:
		return "DtlsHandshaking"
	case StateSctpEstablished:
		return "SctpEstablished"
	case StateServing:
		return "Serving"
	default:
		return "Closed"
	}
}

// dataChannelConn adapts a pion DataChannel's message-oriented transport
// into the io.ReadWriter grpcserver.Server.ServeConn consumes: inbound
// messages are buffered and drained by Read, outbound Writes are sent as
// whole SCTP messages (one frame per Send, since the data channel is
// message- not stream-oriented).
type dataChannelConn struct {
	dc *webrtc.DataChannel

	mu  sync.Mutex
	buf []byte
	msg chan []byte
}

func newDataChannelConn(dc *webrtc.DataChannel) *dataChannelConn {
	c := &dataChannelConn{dc: dc, msg: make(chan []byte, 16)}
	dc.OnMessage(func(m webrtc.DataChannelMessage) {
		c.msg <- m.Data
	})
	dc.OnClose(func() {
		close(c.msg)
	})
	return c
}

func (c *dataChannelConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	if len(c.buf) == 0 {
		c.mu.Unlock()
		buf, ok := <-c.msg
		if !ok {
			return 0, errDataChannelClosed
		}
		c.mu.Lock()
		c.buf = buf
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	c.mu.Unlock()
	return n, nil
}

func (c *dataChannelConn) Write(p []byte) (int, error) {
	if err := c.dc.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// PeerConnection owns one device<->caller session established via cloud
// signaling: each opened "grpc" data channel is served by repeated
// grpcserver.Server.ServeConn calls for as long as the channel stays
// open, one RPC per call, in sequence.
type PeerConnection struct {
	logger logging.Logger
	rpc    *grpcserver.Server

	state atomic.Int32
	pc    *webrtc.PeerConnection
}

// NewPeerConnection builds the underlying pion PeerConnection with pion's
// default candidate gathering (no interface or candidate-type filter is
// set) plus whatever STUN/TURN servers are configured, and registers the state
// transitions the ICE/connection state callbacks drive.
func NewPeerConnection(logger logging.Logger, rpc *grpcserver.Server, iceServers []webrtc.ICEServer) (*PeerConnection, error) {
	api := webrtc.NewAPI()
	pc, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: iceServers})
	if err != nil {
		return nil, fmt.Errorf("webrtc: creating peer connection: %w", err)
	}

	p := &PeerConnection{logger: logger, rpc: rpc, pc: pc}
	p.state.Store(int32(StateIdle))

	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		switch s {
		case webrtc.ICEConnectionStateChecking:
			p.state.Store(int32(StateIceChecking))
		case webrtc.ICEConnectionStateConnected, webrtc.ICEConnectionStateCompleted:
			p.state.Store(int32(StateDtlsHandshaking))
		case webrtc.ICEConnectionStateFailed, webrtc.ICEConnectionStateClosed:
			p.state.Store(int32(StateClosed))
		}
	})

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != "grpc" {
			return
		}
		dc.OnOpen(func() {
			p.state.Store(int32(StateServing))
			conn := newDataChannelConn(dc)
			go func() {
				// ServeConn answers exactly one call per invocation; the
				// data channel stays open for the life of the session
				// and carries an arbitrary number of sequential RPCs, so
				// keep calling it until the channel closes out from
				// under conn.Read.
				for {
					if err := p.rpc.ServeConn(context.Background(), conn); err != nil {
						if isDataChannelClosed(err) {
							return
						}
						p.logger.Errorw("webrtc rpc call failed", "error", err)
						return
					}
				}
			}()
		})
	})

	return p, nil
}

// CreateAnswer implements the callee side of the signaling answer
// exchange: given the caller's offer SDP, gather local candidates and
// return the matching answer SDP, progressing through
// Offering -> IceGathering as it does.
func (p *PeerConnection) CreateAnswer(ctx context.Context, offerSDP string) (string, error) {
	p.state.Store(int32(StateOffering))

	if err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: offerSDP}); err != nil {
		return "", fmt.Errorf("webrtc: setting remote description: %w", err)
	}

	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return "", fmt.Errorf("webrtc: creating answer: %w", err)
	}

	gatherComplete := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return "", fmt.Errorf("webrtc: setting local description: %w", err)
	}

	p.state.Store(int32(StateIceGathering))

	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return p.pc.LocalDescription().SDP, nil
}

// AddICECandidate trickles one caller-provided ICE candidate in.
func (p *PeerConnection) AddICECandidate(candidate string) error {
	return p.pc.AddICECandidate(webrtc.ICECandidateInit{Candidate: candidate})
}

func (p *PeerConnection) State() State {
	return State(p.state.Load())
}

func (p *PeerConnection) Close() error {
	p.state.Store(int32(StateClosed))
	return p.pc.Close()
}
