package config

import (
	"sync"
	"time"

	"github.com/futurehomeno/cliffhanger/config"
	"github.com/futurehomeno/cliffhanger/storage"
)

const (
	defaultPollingInterval = 300 * time.Second
	defaultHTTPTimeout     = 30 * time.Second
	defaultMinSendInterval = 300 * time.Second
)

// Config is a model containing all application configuration settings.
type Config struct {
	config.Default

	EvccBaseURL      string `json:"evccBaseURL"`
	TRMNLBaseURL     string `json:"trmnlBaseURL"`
	TRMNLAccessToken string `json:"trmnlAccessToken"`
	TRMNLDeviceID    string `json:"trmnlDeviceID"`
	TemplatePath     string `json:"templatePath"`
	PollingInterval  string `json:"pollingInterval"`
	HTTPTimeout      string `json:"httpTimeout"`
	MinSendInterval  string `json:"minSendInterval"`
}

// New creates new instance of a configuration object.
func New(workDir string) *Config {
	return &Config{
		Default: config.NewDefault(workDir),
	}
}

// Service is a configuration service responsible for:
// - providing concurrency safe access to settings
// - persistence of settings
type Service struct {
	storage.Storage[*Config]
	lock *sync.RWMutex
}

// NewService creates a new configuration service.
func NewService(storage storage.Storage[*Config]) *Service {
	return &Service{
		Storage: storage,
		lock:    &sync.RWMutex{},
	}
}

// GetEvccBaseURL allows to safely access a configuration setting.
func (cs *Service) GetEvccBaseURL() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().EvccBaseURL
}

// GetTRMNLBaseURL allows to safely access a configuration setting.
func (cs *Service) GetTRMNLBaseURL() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().TRMNLBaseURL
}

// GetTRMNLAccessToken allows to safely access a configuration setting.
func (cs *Service) GetTRMNLAccessToken() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().TRMNLAccessToken
}

// GetTRMNLDeviceID allows to safely access a configuration setting.
func (cs *Service) GetTRMNLDeviceID() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().TRMNLDeviceID
}

// GetTemplatePath allows to safely access a configuration setting.
func (cs *Service) GetTemplatePath() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().TemplatePath
}

// GetPollingInterval allows to safely access a configuration setting.
func (cs *Service) GetPollingInterval() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().PollingInterval, defaultPollingInterval)
}

// GetHTTPTimeout allows to safely access a configuration setting.
func (cs *Service) GetHTTPTimeout() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().HTTPTimeout, defaultHTTPTimeout)
}

// GetMinSendInterval allows to safely access a configuration setting.
func (cs *Service) GetMinSendInterval() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().MinSendInterval, defaultMinSendInterval)
}

// SetLogLevel allows to safely set and persist configuration settings.
func (cs *Service) SetLogLevel(logLevel string) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().LogLevel = logLevel

	return cs.Storage.Save()
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return duration
}
