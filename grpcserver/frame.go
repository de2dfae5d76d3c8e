// Package grpcserver implements a framed RPC server: length-prefixed
// messages accepted uniformly from either an HTTP/2 stream
// (transport/tlsserver) or a WebRTC data channel (webrtc package),
// dispatched by name to a registered handler.
package grpcserver

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Flag is the 1-byte frame-kind marker. The low bit is a data-frame
// compression flag (always 0 here — compression is not implemented);
// this package overloads the same byte to also distinguish the call
// header and trailer frames needed to carry a method name and final
// status over an otherwise header-less byte stream.
type Flag byte

const (
	FlagData    Flag = 0x00
	FlagHeader  Flag = 0x01
	FlagTrailer Flag = 0x80
)

const headerSize = 5 // 1-byte flag + 4-byte big-endian length

// WriteFrame writes one frame: 1-byte flag, 4-byte BE length, payload.
func WriteFrame(w io.Writer, flag Flag, payload []byte) error {
	hdr := make([]byte, headerSize)
	hdr[0] = byte(flag)
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(payload)))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("grpcserver: writing frame header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("grpcserver: writing frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (Flag, []byte, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return 0, nil, err
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, nil, fmt.Errorf("grpcserver: reading frame payload: %w", err)
		}
	}
	return Flag(hdr[0]), payload, nil
}

// CallHeader is the JSON body of the FlagHeader frame that opens every
// call, carrying the method name the way an HTTP/2 ":path" pseudo-header
// normally would.
type CallHeader struct {
	Method string `json:"method"`
}
