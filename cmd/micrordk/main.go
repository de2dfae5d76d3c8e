// Command micrordk is the Entry layer: it composes the
// platform-concrete modules — durable credential storage, the shared
// logger and log ring, and the event bus — and hands them to ViamServer.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/credentials"
	"go.viam.com/micrordk/events"
	"go.viam.com/micrordk/logbuf"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/transport"
	"go.viam.com/micrordk/viamserver"
)

func main() {
	dbPath := flag.String("db", "micrordk.db", "path to the credential store database")
	provisioningAddr := flag.String("provisioning-addr", ":8080", "address for the local provisioning HTTP service")
	directAddr := flag.String("direct-addr", ":8443", "address for the direct HTTP/2+TLS RPC accept loop")
	flag.Parse()

	ring := logbuf.New()
	logger := logging.NewLogger("micrordk", ring)
	defer logger.Sync()

	store, err := credentials.OpenSQLiteStore(*dbPath)
	if err != nil {
		logger.Errorw("opening credential store failed", "error", err)
		os.Exit(1)
	}

	bus := events.NewBus()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		appAddr, err := store.LoadString(ctx, credentials.AppAddress)
		if err != nil {
			appAddr = ""
		}

		var tlsConfig *tls.Config
		certPEM, certErr := store.LoadBytes(ctx, credentials.TLSCert)
		keyPEM, keyErr := store.LoadBytes(ctx, credentials.TLSKey)
		if certErr == nil && keyErr == nil {
			if cert, err := tls.X509KeyPair(certPEM, keyPEM); err == nil {
				tlsConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
			}
		}

		var dialer appclient.Dialer
		if appAddr != "" {
			dialer = transport.NewHTTP2Dialer(appAddr, &tls.Config{})
		}

		srv := &viamserver.Server{
			Store:            store,
			Logger:           logger,
			Ring:             ring,
			Bus:              bus,
			Dialer:           dialer,
			ProvisioningAddr: *provisioningAddr,
			DirectAddr:       *directAddr,
			TLSConfig:        tlsConfig,
		}

		if err := srv.Run(ctx); err != nil {
			logger.Errorw("viamserver exited", "error", err)
			os.Exit(1)
		}
		if ctx.Err() != nil {
			return
		}
		// A nil error with ctx still live means a restart was requested
		// (RestartMonitor / OtaCheck published events.Restart); loop to
		// re-run Run, which re-checks credentials and re-authenticates.
	}
}
