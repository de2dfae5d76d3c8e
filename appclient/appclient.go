// Package appclient implements the cloud control-plane contract: authenticate, fetch config, push logs, poll for a pending
// restart, answer WebRTC signaling offers, and fetch a device
// certificate, all carried over grpcclient/protoglue framing.
package appclient

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/grpcclient"
	"go.viam.com/micrordk/protoglue"
)

// Conn is the duplex byte stream a call is framed over — one HTTP/2
// stream per call, opened fresh by Dialer for each AppClient method.
type Conn = io.ReadWriter

// Dialer opens a fresh connection to the cloud endpoint for one RPC.
// Concrete implementations wrap golang.org/x/net/http2's client
// transport; tests supply an in-memory loopback.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// AppClient is the authenticated cloud session for one robot.
type AppClient struct {
	dialer    Dialer
	jwt       string
	sessionID string
}

// New starts a fresh client session with a newly generated session ID.
// The ID is included in the error returned when dialing for a unary call
// fails; it is not sent to the cloud with any request.
func New(dialer Dialer) *AppClient {
	return &AppClient{dialer: dialer, sessionID: uuid.NewString()}
}

// SessionID identifies this client instance in logs across reconnects.
func (c *AppClient) SessionID() string { return c.sessionID }

// Authenticate exchanges a robot ID and secret for a JWT.
// A network failure is reported as Transient so callers retry with
// capped exponential backoff; a credential rejection is AuthFailed and
// is not itself retried by this method — the caller (viamserver bring-up)
// owns the N=5-then-reprovision policy.
func (c *AppClient) Authenticate(ctx context.Context, robotID, secret string) error {
	req := protoglue.AuthenticateRequest{Entity: protoglue.AuthEntity{Type: "robot_secret", Payload: robotID + ":" + secret}}
	var resp protoglue.AuthenticateResponse
	if err := c.call(ctx, "AppService.Authenticate", req, &resp); err != nil {
		return err
	}
	if _, err := parseJWT(resp.JWT); err != nil {
		return errkind.AuthFailed(fmt.Errorf("appclient: invalid jwt: %w", err))
	}
	c.jwt = resp.JWT
	return nil
}

// Config fetches the current desired configuration.
func (c *AppClient) Config(ctx context.Context, robotID string) (protoglue.ConfigResponse, error) {
	var resp protoglue.ConfigResponse
	err := c.call(ctx, "AppService.Config", protoglue.ConfigRequest{ID: robotID}, &resp)
	return resp, err
}

// PushLogs uploads up to 150 entries at a time; the caller
// drops the batch on any error rather than retaining it for a retry, to
// bound log memory.
func (c *AppClient) PushLogs(ctx context.Context, entries []protoglue.LogEntry) error {
	if len(entries) > 150 {
		entries = entries[:150]
	}
	var resp protoglue.LogResponse
	return c.call(ctx, "AppService.PushLogs", protoglue.LogRequest{Entries: entries}, &resp)
}

// CheckForRestart polls whether the cloud wants this device to restart;
// the caller emits a Restart system event on true.
func (c *AppClient) CheckForRestart(ctx context.Context, robotID string) (bool, error) {
	var resp protoglue.NeedsRestartResponse
	err := c.call(ctx, "AppService.NeedsRestart", protoglue.NeedsRestartRequest{ID: robotID}, &resp)
	return resp.NeedsRestart, err
}

// Answer exchanges a WebRTC offer for an answer; the
// cloud relay is the signaling server-streaming method, so AnswerStream
// handles the trickled-candidate variant and this convenience wrapper
// handles the plain offer/answer exchange used by tasks.SignalingAnswer.
func (c *AppClient) Answer(ctx context.Context, offerSDP string) (string, error) {
	var resp protoglue.SignalingAnswerResponse
	err := c.call(ctx, "SignalingService.Answer", protoglue.SignalingAnswerRequest{OfferSDP: offerSDP}, &resp)
	return resp.AnswerSDP, err
}

// AnswerStream performs the same exchange but consumes the
// server-streaming variant, delivering the answer followed by any
// trickled ICE candidates to onCandidate.
func (c *AppClient) AnswerStream(ctx context.Context, offerSDP string, onAnswer func(string), onCandidate func(string)) error {
	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		return errkind.Transient(fmt.Errorf("appclient: dialing: %w", err))
	}
	reqPayload, err := protoglue.Encode(protoglue.SignalingAnswerRequest{OfferSDP: offerSDP})
	if err != nil {
		return err
	}
	return grpcclient.CallStream(conn, "SignalingService.Answer", reqPayload, func(payload []byte) error {
		var msg protoglue.SignalingAnswerResponse
		if err := protoglue.Decode(payload, &msg); err != nil {
			return err
		}
		if msg.Candidate != "" {
			onCandidate(msg.Candidate)
		} else {
			onAnswer(msg.AnswerSDP)
		}
		return nil
	})
}

// Certificate fetches the device's TLS certificate, key and CA from the
// cloud. Nothing in this module calls it; the direct HTTP/2+TLS accept
// loop is configured from the TLS_CERT/TLS_KEY credential-store entries.
func (c *AppClient) Certificate(ctx context.Context, robotID string) (protoglue.CertificateResponse, error) {
	var resp protoglue.CertificateResponse
	err := c.call(ctx, "AppService.Certificate", protoglue.CertificateRequest{ID: robotID}, &resp)
	return resp, err
}

func (c *AppClient) call(ctx context.Context, method string, req, resp interface{}) error {
	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		return errkind.Transient(fmt.Errorf("appclient[%s]: dialing %s: %w", c.sessionID, method, err))
	}
	reqPayload, err := protoglue.Encode(req)
	if err != nil {
		return err
	}
	respPayload, err := grpcclient.Call(conn, method, reqPayload)
	if err != nil {
		return err
	}
	return protoglue.Decode(respPayload, resp)
}

func parseJWT(token string) (*jwt.Token, error) {
	// Claims are not verified against a local key here — the cloud is the
	// issuer and the only party that needs to validate the signature; the
	// device only needs to confirm the token parses, so callers can tell
	// a malformed response from a real one.
	return jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
}

// BackoffDelay computes the exponential backoff for a Transient failure
// on attempt (0-indexed), capped at 60s.
func BackoffDelay(attempt int) time.Duration {
	d := time.Second
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= 60*time.Second {
			return 60 * time.Second
		}
	}
	return d
}
