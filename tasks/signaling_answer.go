package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/webrtc"
)

// SignalingAnswer polls the cloud signaling relay for a pending offer
// and, once one arrives, drives a fresh PeerConnection through the
// Offering -> IceGathering state transition and returns the answer. The
// answer SDP carries every candidate gathered before it is sent; no
// candidates are trickled afterwards.
type SignalingAnswer struct {
	NewPeerConnection func() (*webrtc.PeerConnection, error)
	Logger            logging.Logger
	Period            time.Duration
}

func (s *SignalingAnswer) Name() string                { return "SignalingAnswer" }
func (s *SignalingAnswer) DefaultPeriod() time.Duration { return s.Period }

func (s *SignalingAnswer) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	offerSDP, err := client.Answer(ctx, "")
	if err != nil {
		return nil, err
	}
	if offerSDP == "" {
		return nil, nil
	}

	pc, err := s.NewPeerConnection()
	if err != nil {
		return nil, err
	}

	answerSDP, err := pc.CreateAnswer(ctx, offerSDP)
	if err != nil {
		pc.Close()
		return nil, err
	}

	if _, err := client.Answer(ctx, answerSDP); err != nil {
		s.Logger.Errorw("reporting signaling answer failed", "error", err)
	}
	return nil, nil
}
