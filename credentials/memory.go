package credentials

import (
	"context"
	"sync"
)

// MemoryStore is a RAM-backed variant: it satisfies
// the same Store contract except durability does not survive a restart.
// Useful for tests and for platforms with no persistent storage.
type MemoryStore struct {
	mu    sync.Mutex
	bytes map[Key][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bytes: map[Key][]byte{}}
}

func (s *MemoryStore) HasNetwork(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bytes[WifiSSID]
	return ok, nil
}

func (s *MemoryStore) HasRobotCredentials(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bytes[RobotID]
	return ok, nil
}

func (s *MemoryStore) StoreNetwork(ctx context.Context, ssid, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes[WifiSSID] = []byte(ssid)
	s.bytes[WifiPassword] = []byte(password)
	return nil
}

func (s *MemoryStore) StoreRobotCredentials(ctx context.Context, creds RobotCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes[RobotID] = []byte(creds.ID)
	s.bytes[RobotSecret] = []byte(creds.Secret)
	s.bytes[AppAddress] = []byte(creds.AppAddress)
	return nil
}

func (s *MemoryStore) StoreAppAddress(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes[AppAddress] = []byte(addr)
	return nil
}

func (s *MemoryStore) StoreBytes(ctx context.Context, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.bytes[key] = cp
	return nil
}

func (s *MemoryStore) StoreString(ctx context.Context, key Key, value string) error {
	return s.StoreBytes(ctx, key, []byte(value))
}

func (s *MemoryStore) LoadNetwork(ctx context.Context) (NetworkCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ssid, ok := s.bytes[WifiSSID]
	if !ok {
		return NetworkCredentials{}, ErrNotFound
	}
	return NetworkCredentials{SSID: string(ssid), Password: string(s.bytes[WifiPassword])}, nil
}

func (s *MemoryStore) LoadRobotCredentials(ctx context.Context) (RobotCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bytes[RobotID]
	if !ok {
		return RobotCredentials{}, ErrNotFound
	}
	return RobotCredentials{
		ID:         string(id),
		Secret:     string(s.bytes[RobotSecret]),
		AppAddress: string(s.bytes[AppAddress]),
	}, nil
}

func (s *MemoryStore) LoadBytes(ctx context.Context, key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.bytes[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *MemoryStore) LoadString(ctx context.Context, key Key) (string, error) {
	v, err := s.LoadBytes(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *MemoryStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes = map[Key][]byte{}
	return nil
}
