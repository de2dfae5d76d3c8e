// Package ota implements OtaService: downloads a firmware
// image into the inactive slot, validates its header, marks the slot
// pending-verify, and exposes the supplemented Confirm/Rollback
// operations that close the boot-verification loop.
package ota

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/events"
	"go.viam.com/micrordk/logging"
)

const (
	chunkSize = 20 * 1024
	minExtra  = 1024
	maxSize   = 4 * 1024 * 1024
	headerLen = 16
)

// Header is the leading firmware metadata block read from the first
// chunk of the download.
type Header struct {
	Size     uint32
	Version  uint32
	Checksum [8]byte // first 8 bytes of a sha256, enough to catch truncation
}

// SlotState is the installed-image slot's verification status.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotPendingVerify
	SlotConfirmed
)

// Slot is the inactive firmware image storage this service writes into.
// A real target backs this with a second flash partition; Slot here is
// an in-memory stand-in so OtaService's control flow can be exercised
// without hardware.
type Slot struct {
	Data []byte
}

// Service is OtaService. Downloads are paced with a token bucket so a
// slow device doesn't starve its own RPC handling while streaming a
// multi-megabyte image. slotState is read from the OtaCheck poller task
// concurrently with Download/Confirm/Rollback writing it, so it's kept
// as an atomic rather than guarded by a mutex shared with the slot data.
type Service struct {
	client    *http.Client
	bus       *events.Bus
	logger    logging.Logger
	limiter   *rate.Limiter
	slot      Slot
	slotState atomic.Int32
}

func New(bus *events.Bus, logger logging.Logger) *Service {
	return &Service{
		client:  &http.Client{},
		bus:     bus,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(4*1024*1024), chunkSize), // ~4MiB/s, burst one chunk
	}
}

// Download performs the full happy-path flow: GET,
// header validate, chunked stream into the inactive slot, mark
// pending-verify, emit Restart.
func (s *Service) Download(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errkind.ConfigError(fmt.Errorf("ota: building request: %w", err))
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return errkind.Transient(fmt.Errorf("ota: fetching image: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errkind.Transient(fmt.Errorf("ota: unexpected status %d", resp.StatusCode))
	}

	br := bufio.NewReaderSize(resp.Body, chunkSize)
	hdr, err := readHeader(br)
	if err != nil {
		return errkind.ResourceError(fmt.Errorf("ota: reading header: %w", err))
	}

	min := uint32(headerLen + minExtra)
	if hdr.Size < min || hdr.Size > maxSize {
		return errkind.ConfigError(fmt.Errorf("ota: image size %d outside [%d, %d]", hdr.Size, min, maxSize))
	}

	buf := make([]byte, 0, hdr.Size)
	hasher := sha256.New()
	chunk := make([]byte, chunkSize)
	remaining := int(hdr.Size)
	for remaining > 0 {
		if err := s.limiter.WaitN(ctx, min2(chunkSize, remaining)); err != nil {
			s.abort()
			return errkind.Transient(fmt.Errorf("ota: rate limiter: %w", err))
		}
		want := min2(chunkSize, remaining)
		n, err := io.ReadFull(br, chunk[:want])
		if err != nil {
			s.abort()
			return errkind.ResourceError(fmt.Errorf("ota: streaming chunk: %w", err))
		}
		buf = append(buf, chunk[:n]...)
		hasher.Write(chunk[:n])
		remaining -= n
	}

	sum := hasher.Sum(nil)
	if hex.EncodeToString(sum[:8]) != hex.EncodeToString(hdr.Checksum[:]) {
		s.abort()
		return errkind.ResourceError(fmt.Errorf("ota: checksum mismatch"))
	}

	s.slot = Slot{Data: buf}
	s.slotState.Store(int32(SlotPendingVerify))
	s.logger.Infow("ota image written, pending verify", "size", hdr.Size)
	s.bus.Publish(events.Event{Kind: events.OtaPendingVerify})
	s.bus.Publish(events.Event{Kind: events.Restart, Detail: "ota pending verify"})
	return nil
}

func (s *Service) abort() {
	s.slot = Slot{}
	s.slotState.Store(int32(SlotEmpty))
}

// Confirm marks the pending-verify slot as confirmed, the supplemented
// counterpart to the plain download path: once the new image has booted
// and run long enough, the caller confirms it so a future reboot won't
// roll back to the previous slot.
func (s *Service) Confirm(ctx context.Context) error {
	if SlotState(s.slotState.Load()) != SlotPendingVerify {
		return errkind.ConfigError(fmt.Errorf("ota: no image pending verification"))
	}
	s.slotState.Store(int32(SlotConfirmed))
	s.logger.Infow("ota image confirmed")
	return nil
}

// Rollback discards a pending-verify slot, e.g. because the new image
// failed to come up healthy within the caller's grace window.
func (s *Service) Rollback(ctx context.Context) error {
	if SlotState(s.slotState.Load()) != SlotPendingVerify {
		return errkind.ConfigError(fmt.Errorf("ota: no image pending verification"))
	}
	s.abort()
	s.logger.Infow("ota image rolled back")
	return nil
}

func (s *Service) SlotState() SlotState { return SlotState(s.slotState.Load()) }

func readHeader(r io.Reader) (Header, error) {
	var raw [headerLen]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, err
	}
	var h Header
	h.Size = binary.BigEndian.Uint32(raw[0:4])
	h.Version = binary.BigEndian.Uint32(raw[4:8])
	copy(h.Checksum[:], raw[8:16])
	return h, nil
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}
