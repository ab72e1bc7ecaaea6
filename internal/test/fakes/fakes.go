package fakes

import (
	"sync"

	"github.com/futurehomeno/cliffhanger/storage"

	"github.com/ingm4r/evcc-trmnl-integration/internal/config"
)

// NewConfigStorage returns an in-memory configuration storage seeded with
// the provided settings. Load and Save are no-ops, Reset reinstalls an
// empty configuration. Not suitable for production use.
func NewConfigStorage(cfg *config.Config) storage.Storage[*config.Config] {
	return &configStorage{cfg: cfg}
}

type configStorage struct {
	mu  sync.RWMutex
	cfg *config.Config
}

func (s *configStorage) Load() error { return nil }

func (s *configStorage) Save() error { return nil }

func (s *configStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = &config.Config{}

	return nil
}

func (s *configStorage) Model() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}
