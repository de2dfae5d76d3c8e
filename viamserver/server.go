// Package viamserver implements ViamServer: the top-level orchestrator that checks CredentialStore,
// enters provisioning if empty, otherwise starts AppClient, pulls
// config into LocalRobot, and starts PeriodicTasks plus the two accept
// loops (HTTP/2+TLS and WebRTC).
package viamserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/credentials"
	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/events"
	"go.viam.com/micrordk/executor"
	"go.viam.com/micrordk/grpcserver"
	"go.viam.com/micrordk/logbuf"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/ota"
	"go.viam.com/micrordk/protoglue"
	"go.viam.com/micrordk/provisioning"
	"go.viam.com/micrordk/robot"
	"go.viam.com/micrordk/tasks"
	"go.viam.com/micrordk/transport"
	"go.viam.com/micrordk/webrtc"
)

// Server is the composed runtime: one instance per process.
type Server struct {
	Store            credentials.Store
	Logger           logging.Logger
	Ring             *logbuf.Ring
	Bus              *events.Bus
	Dialer           appclient.Dialer
	ProvisioningAddr string
	DirectAddr       string
	TLSConfig        *tls.Config
	ICEServers       []webrtc.ICEServer

	robot      *robot.LocalRobot
	rpc        *grpcserver.Server
	otaService *ota.Service
	currentCfg config.RobotConfig
}

// ICEServer mirrors pion's webrtc.ICEServer shape so callers (cmd/micrordk)
// don't need to import pion directly just to configure viamserver.
type ICEServer = webrtc.ICEServer

// Run is the top-level control loop, re-entering provisioning whenever
// credentials are absent (including after an escalated auth failure
// clears them). It returns nil when normal operation ends because ctx was
// cancelled or a restart was requested (cmd/micrordk then starts a fresh
// Server), and returns an error when checking credentials, provisioning
// or normal operation fails.
func (s *Server) Run(ctx context.Context) error {
	for {
		hasRobot, err := s.Store.HasRobotCredentials(ctx)
		if err != nil {
			return fmt.Errorf("viamserver: checking credentials: %w", err)
		}
		hasNet, err := s.Store.HasNetwork(ctx)
		if err != nil {
			return fmt.Errorf("viamserver: checking network credentials: %w", err)
		}

		if !hasRobot || !hasNet {
			if err := s.runProvisioning(ctx); err != nil {
				return err
			}
			continue
		}

		exitReason, err := s.runNormalOperation(ctx)
		if err != nil {
			return err
		}
		if exitReason == exitShutdown {
			return nil
		}
		// exitReprovision: credentials were cleared (escalated auth
		// failure); loop back around into provisioning.
	}
}

type exitReason int

const (
	exitShutdown exitReason = iota
	exitReprovision
)

// runProvisioning blocks serving the local bootstrap HTTP surface until
// ProvisioningDone fires or ctx is cancelled.
func (s *Server) runProvisioning(ctx context.Context) error {
	sub := s.Bus.Subscribe()
	srv := provisioning.New(s.Store, s.Bus, s.Logger)

	httpSrv := &http.Server{Addr: s.ProvisioningAddr, Handler: srv}
	go httpSrv.ListenAndServe()
	defer httpSrv.Shutdown(context.Background())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-sub:
			if evt.Kind == events.ProvisioningDone {
				return nil
			}
		}
	}
}

// runNormalOperation authenticates, pulls the initial config, and runs
// the accept loops plus periodic tasks until a Fatal/restart condition
// or ctx cancellation ends it.
func (s *Server) runNormalOperation(ctx context.Context) (exitReason, error) {
	robotCreds, err := s.Store.LoadRobotCredentials(ctx)
	if err != nil {
		return exitReprovision, nil
	}

	client := appclient.New(s.Dialer)
	if err := s.authenticateWithRetry(ctx, client, robotCreds); err != nil {
		if ctx.Err() != nil {
			return exitShutdown, nil
		}
		// Escalated auth failure: clear credentials and re-provision,
		// AuthFailed policy and scenario 6.
		_ = s.Store.ResetAll(ctx)
		return exitReprovision, nil
	}
	s.Logger.Infow("authenticated", "session", client.SessionID())

	s.robot = robot.New(s.Logger)
	s.otaService = ota.New(s.Bus, s.Logger)
	s.rpc = grpcserver.New(s.Logger)
	s.rpc.RegisterUnary("Component.Dispatch", grpcserver.ComponentUnaryHandler(s.robot))

	wire, err := client.Config(ctx, robotCreds.ID)
	if err != nil {
		return exitShutdown, fmt.Errorf("viamserver: initial config fetch: %w", err)
	}
	s.currentCfg = fromWireConfig(wire)
	if err := s.robot.ApplyConfig(ctx, s.currentCfg); err != nil {
		s.Logger.Errorw("initial config apply rejected", "error", err)
	}

	// exec is the single logical thread every periodic task body runs
	// on (see tasks.Supervisor.invoke): its one dispatch goroutine runs
	// a queued function to completion before picking up the next, which
	// is exactly why it must stay reserved for short, bounded task
	// bodies. The TLS accept loop and restart watcher below block for
	// the entire session lifetime; enqueuing either of them onto exec
	// would starve every periodic task behind it for as long as the
	// session runs, so those two keep their own errgroup goroutines
	// instead of going through exec.
	exec := executor.New(clock.New())

	g, gctx := errgroup.WithContext(ctx)

	if s.DirectAddr != "" && s.TLSConfig != nil {
		tlsSrv := &transport.TLSServer{Addr: s.DirectAddr, TLSConfig: s.TLSConfig, RPC: s.rpc, Logger: s.Logger}
		g.Go(func() error { return tlsSrv.ListenAndServe(gctx) })
	}

	sup, err := tasks.NewSupervisor(client, s.Logger, exec)
	if err != nil {
		return exitShutdown, fmt.Errorf("viamserver: creating task supervisor: %w", err)
	}
	s.registerTasks(sup, client, robotCreds.ID)
	sup.Start()
	g.Go(func() error {
		<-gctx.Done()
		err := sup.Shutdown()
		exec.Shutdown()
		return err
	})

	restarts := s.Bus.Subscribe()
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		case <-restarts:
			return errRestartRequested
		}
	})

	if err := g.Wait(); err != nil && err != errRestartRequested && ctx.Err() == nil {
		return exitShutdown, err
	}
	return exitShutdown, nil
}

var errRestartRequested = fmt.Errorf("viamserver: restart requested")

// authenticateWithRetry retries authentication with capped exponential
// backoff until it succeeds or ctx is done. Transient (network) failures
// are retried without limit; it gives up on the 5th failure of any other
// kind, such as an AuthFailed credential rejection.
func (s *Server) authenticateWithRetry(ctx context.Context, client *appclient.AppClient, creds credentials.RobotCredentials) error {
	const maxFailures = 5
	failures := 0
	for attempt := 0; ; attempt++ {
		err := client.Authenticate(ctx, creds.ID, creds.Secret)
		if err == nil {
			return nil
		}
		if !errkind.Is(err, errkind.TransientKind) {
			failures++
			if failures >= maxFailures {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(appclient.BackoffDelay(attempt)):
		}
	}
}

func (s *Server) registerTasks(sup *tasks.Supervisor, client *appclient.AppClient, robotID string) {
	_ = sup.Register(&tasks.ConfigRefresh{RobotID: robotID, Robot: s.robot, Period: 10 * time.Second})
	_ = sup.Register(&tasks.LogUpload{Ring: s.Ring, Period: 30 * time.Second})
	_ = sup.Register(&tasks.RestartMonitor{RobotID: robotID, Bus: s.Bus, Period: 15 * time.Second})
	// s.currentCfg is the config fetched when this session started;
	// ConfigRefresh applies later snapshots to the robot without updating
	// it, so OtaCheck does not see services added by a refresh.
	_ = sup.Register(&tasks.OtaCheck{Service: s.otaService, CurrentCfg: func() config.RobotConfig { return s.currentCfg }, Period: 60 * time.Second})
	_ = sup.Register(&tasks.SignalingAnswer{
		NewPeerConnection: func() (*webrtc.PeerConnection, error) {
			return webrtc.NewPeerConnection(s.Logger, s.rpc, s.ICEServers)
		},
		Logger: s.Logger,
		Period: 5 * time.Second,
	})
}

func fromWireConfig(wire protoglue.ConfigResponse) config.RobotConfig {
	components := make([]config.ComponentConfig, 0, len(wire.Components))
	for _, w := range wire.Components {
		components = append(components, config.ComponentConfig{
			Name:       w.Name,
			API:        w.API,
			Model:      w.Model,
			Attributes: config.AttributeMap(w.Attributes),
			DependsOn:  w.DependsOn,
		})
	}
	services := make([]config.ServiceConfig, 0, len(wire.Services))
	for _, w := range wire.Services {
		services = append(services, config.ServiceConfig{
			Name:       w.Name,
			Model:      w.Model,
			Attributes: config.AttributeMap(w.Attributes),
		})
	}
	return config.RobotConfig{Components: components, Services: services, Revision: wire.Revision}
}
