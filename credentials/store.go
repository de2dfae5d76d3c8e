// Package credentials implements CredentialStore: durable
// key/value storage for network + robot credentials, TLS/DTLS materials,
// and the cloud app address, with atomic-w.r.t.-power-loss mutation.
package credentials

import "context"

// Key names the well-known slots this store holds.
type Key string

const (
	WifiSSID     Key = "WIFI_SSID"
	WifiPassword Key = "WIFI_PASSWORD"
	RobotID      Key = "ROBOT_ID"
	RobotSecret  Key = "ROBOT_SECRET"
	AppAddress   Key = "APP_ADDRESS"
	DTLSCert     Key = "DTLS_CERT"
	DTLSKey      Key = "DTLS_KEY"
	DTLSCertFP   Key = "DTLS_CERT_FP"
	CACert       Key = "CA_CRT"
	TLSCert      Key = "TLS_CERT"
	TLSKey       Key = "TLS_KEY"
	FragmentID   Key = "FRAGMENT_ID"
)

// NetworkCredentials is the {ssid, password} pair set during provisioning.
type NetworkCredentials struct {
	SSID     string
	Password string
}

// RobotCredentials is the {id, secret, app_address} triple set during provisioning.
type RobotCredentials struct {
	ID         string
	Secret     string
	AppAddress string
}

// Store is the CredentialStore contract. Implementations
// must make each Store* call atomic w.r.t. power loss: either the full
// mutation commits, or the prior value is left intact.
type Store interface {
	HasNetwork(ctx context.Context) (bool, error)
	HasRobotCredentials(ctx context.Context) (bool, error)

	StoreNetwork(ctx context.Context, ssid, password string) error
	StoreRobotCredentials(ctx context.Context, creds RobotCredentials) error
	StoreAppAddress(ctx context.Context, addr string) error
	StoreBytes(ctx context.Context, key Key, value []byte) error
	StoreString(ctx context.Context, key Key, value string) error

	LoadNetwork(ctx context.Context) (NetworkCredentials, error)
	LoadRobotCredentials(ctx context.Context) (RobotCredentials, error)
	LoadBytes(ctx context.Context, key Key) ([]byte, error)
	LoadString(ctx context.Context, key Key) (string, error)

	// ResetAll destroys all stored values (factory reset),:
	// RobotCredentials/NetworkCredentials are "destroyed by explicit
	// factory-reset."
	ResetAll(ctx context.Context) error
}

// ErrNotFound is returned by Load* when key has never been stored.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "credentials: key not found" }
