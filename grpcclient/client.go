// Package grpcclient is the caller side of the grpcserver framing,
// used by appclient to talk to the cloud over an appclient.Conn (an
// HTTP/2 stream, in that direction always — the cloud never opens a
// WebRTC data channel call against the device).
package grpcclient

import (
	"encoding/json"
	"fmt"
	"io"

	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/protoglue"
)

// Call performs one unary RPC: writes the header and request frames,
// reads the response frame, then the trailer, translating a non-OK
// trailer status into an errkind-tagged error.
func Call(conn io.ReadWriter, method string, reqPayload []byte) ([]byte, error) {
	hdr, err := json.Marshal(grpcserver.CallHeader{Method: method})
	if err != nil {
		return nil, fmt.Errorf("grpcclient: encoding call header: %w", err)
	}
	if err := grpcserver.WriteFrame(conn, grpcserver.FlagHeader, hdr); err != nil {
		return nil, err
	}
	if err := grpcserver.WriteFrame(conn, grpcserver.FlagData, reqPayload); err != nil {
		return nil, err
	}

	flag, payload, err := grpcserver.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("grpcclient: reading response: %w", err)
	}

	var respPayload []byte
	if flag == grpcserver.FlagData {
		respPayload = payload
		flag, payload, err = grpcserver.ReadFrame(conn)
		if err != nil {
			return nil, fmt.Errorf("grpcclient: reading trailer: %w", err)
		}
	}
	if flag != grpcserver.FlagTrailer {
		return nil, fmt.Errorf("grpcclient: expected trailer frame, got flag %d", flag)
	}

	var trailer protoglue.StatusGRPC
	if err := json.Unmarshal(payload, &trailer); err != nil {
		return nil, fmt.Errorf("grpcclient: decoding trailer: %w", err)
	}
	if trailer.Code != 0 {
		return nil, statusToErrkind(trailer)
	}
	return respPayload, nil
}

// CallStream performs one server-streaming RPC, invoking onMsg for each
// response frame until the trailer arrives.
func CallStream(conn io.ReadWriter, method string, reqPayload []byte, onMsg func([]byte) error) error {
	hdr, err := json.Marshal(grpcserver.CallHeader{Method: method})
	if err != nil {
		return fmt.Errorf("grpcclient: encoding call header: %w", err)
	}
	if err := grpcserver.WriteFrame(conn, grpcserver.FlagHeader, hdr); err != nil {
		return err
	}
	if err := grpcserver.WriteFrame(conn, grpcserver.FlagData, reqPayload); err != nil {
		return err
	}

	for {
		flag, payload, err := grpcserver.ReadFrame(conn)
		if err != nil {
			return fmt.Errorf("grpcclient: reading stream frame: %w", err)
		}
		switch flag {
		case grpcserver.FlagData:
			if err := onMsg(payload); err != nil {
				return err
			}
		case grpcserver.FlagTrailer:
			var trailer protoglue.StatusGRPC
			if err := json.Unmarshal(payload, &trailer); err != nil {
				return fmt.Errorf("grpcclient: decoding trailer: %w", err)
			}
			if trailer.Code != 0 {
				return statusToErrkind(trailer)
			}
			return nil
		default:
			return fmt.Errorf("grpcclient: unexpected frame flag %d", flag)
		}
	}
}

// statusToErrkind maps a gRPC status code back to the local error
// taxonomy (errkind) so retry/backoff logic (appclient, tasks) can
// branch on Kind without re-parsing gRPC codes itself.
func statusToErrkind(st protoglue.StatusGRPC) error {
	base := fmt.Errorf("grpcclient: rpc failed with code %d: %s", st.Code, st.Message)
	switch st.Code {
	case 3: // INVALID_ARGUMENT
		return errkind.ConfigError(base)
	case 9: // FAILED_PRECONDITION
		return errkind.AuthFailed(base)
	case 14: // UNAVAILABLE
		return errkind.Transient(base)
	case 1: // CANCELLED
		return errkind.Cancelled(base)
	case 13: // INTERNAL
		return errkind.Fatal(base)
	default:
		return base
	}
}
