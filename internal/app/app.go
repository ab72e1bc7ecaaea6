// Package app wires the poll cycle together: fetch state from evcc, map it
// into the domain model, render the display document, gate it through the
// change detector and deliver it to the TRMNL device. Every cycle level
// error is contained here so the scheduling loop can never die.
package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/michalkurzeja/go-clock"
	log "github.com/sirupsen/logrus"

	"github.com/ingm4r/evcc-trmnl-integration/internal/config"
	"github.com/ingm4r/evcc-trmnl-integration/internal/evcc"
	"github.com/ingm4r/evcc-trmnl-integration/internal/model"
	"github.com/ingm4r/evcc-trmnl-integration/internal/render"
	"github.com/ingm4r/evcc-trmnl-integration/internal/trmnl"
)

// Application is the control surface of the integration. One shot
// operations and the background scheduler share the same poll cycle.
type Application interface {
	// PollOnce runs one full poll cycle: fetch, map, render, gate, send.
	PollOnce() error
	// Send runs a poll cycle with the change gate bypassed.
	Send() error
	// SendTest delivers a fixed test dataset, bypassing the change gate.
	SendTest() error
	// RawState fetches the raw upstream state document.
	RawState() (json.RawMessage, error)
	// RenderHTML fetches and renders the display document without sending it.
	RenderHTML() (string, error)
	// Start launches the background polling loop.
	Start() error
	// Stop terminates the background polling loop.
	Stop() error
	// Running reports whether the background polling loop is active.
	Running() bool
	// Stats returns a snapshot of the runtime counters.
	Stats() Stats
}

// Stats are runtime counters of the integration.
type Stats struct {
	APICalls     uint64
	APISuccesses uint64
	APIErrors    uint64
	HTTPErrors   uint64
	DataSent     uint64
	LastSuccess  time.Time
	LastError    time.Time
}

type app struct {
	cfgSrv      *config.Service
	evccClient  evcc.Client
	trmnlClient trmnl.Client
	formatter   *trmnl.Formatter
	template    *render.Template
	session     *trmnl.Session

	statsMu sync.Mutex
	stats   Stats

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// New returns a new Application.
func New(
	cfgSrv *config.Service,
	evccClient evcc.Client,
	trmnlClient trmnl.Client,
	formatter *trmnl.Formatter,
	template *render.Template,
	session *trmnl.Session,
) Application {
	return &app{
		cfgSrv:      cfgSrv,
		evccClient:  evccClient,
		trmnlClient: trmnlClient,
		formatter:   formatter,
		template:    template,
		session:     session,
	}
}

func (a *app) PollOnce() error {
	return a.poll(false)
}

func (a *app) Send() error {
	return a.poll(true)
}

func (a *app) poll(force bool) error {
	rendered, err := a.renderCurrent()
	if err != nil {
		return err
	}

	if !trmnl.ShouldSend(clock.Now(), rendered, a.session, a.cfgSrv.GetMinSendInterval(), force) {
		log.Debug("no significant changes, skipping TRMNL update")

		return nil
	}

	return a.deliver(rendered)
}

func (a *app) SendTest() error {
	system, points := testData()

	return a.deliver(a.template.Render(a.formatter.BuildContext(system, points)))
}

func (a *app) RawState() (json.RawMessage, error) {
	raw, err := a.evccClient.FetchState()
	a.countFetch(err)

	return raw, err
}

func (a *app) RenderHTML() (string, error) {
	return a.renderCurrent()
}

func (a *app) renderCurrent() (string, error) {
	raw, err := a.evccClient.FetchState()
	a.countFetch(err)

	if err != nil {
		return "", err
	}

	system, points, err := evcc.Map(raw)
	if err != nil {
		a.countMapping(raw, err)

		return "", err
	}

	a.statsMu.Lock()
	a.stats.APISuccesses++
	a.statsMu.Unlock()

	return a.template.Render(a.formatter.BuildContext(system, points)), nil
}

func (a *app) deliver(rendered string) error {
	if err := a.trmnlClient.Send(rendered); err != nil {
		a.statsMu.Lock()
		a.stats.HTTPErrors++
		a.stats.LastError = clock.Now()
		a.statsMu.Unlock()

		return err
	}

	a.statsMu.Lock()
	a.stats.DataSent++
	a.stats.LastSuccess = clock.Now()
	a.statsMu.Unlock()

	return nil
}

func (a *app) countFetch(err error) {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()

	a.stats.APICalls++

	if err != nil {
		a.stats.HTTPErrors++
		a.stats.LastError = clock.Now()
	}
}

func (a *app) countMapping(raw json.RawMessage, err error) {
	a.statsMu.Lock()
	a.stats.APIErrors++
	a.stats.LastError = clock.Now()
	a.statsMu.Unlock()

	log.WithError(err).WithField("document", string(raw)).Error("failed to map state document")
}

// Start launches the background polling loop. The loop polls immediately
// and then on every interval tick until Stop closes the done channel, so a
// stop request takes effect without waiting out a full poll interval.
func (a *app) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	a.done = make(chan struct{})

	go a.run(a.done)

	a.running = true

	log.WithField("interval", a.cfgSrv.GetPollingInterval().String()).Info("started polling")

	return nil
}

func (a *app) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	close(a.done)

	a.running = false

	log.Info("stopped polling")

	return nil
}

func (a *app) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.running
}

func (a *app) run(done chan struct{}) {
	ticker := time.NewTicker(a.cfgSrv.GetPollingInterval())
	defer ticker.Stop()

	for {
		if err := a.PollOnce(); err != nil {
			log.WithError(err).Error("poll cycle failed")
		}

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

func (a *app) Stats() Stats {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()

	return a.stats
}

// testData is the fixed dataset used by the test send operation.
func testData() (model.SystemData, []model.ChargingPoint) {
	soc := 65
	vehicleRange := 280
	batterySoc := 85

	system := model.SystemData{
		GridPower:    2500,
		SolarPower:   4800,
		HomePower:    1800,
		BatteryPower: -1200,
		BatterySoc:   &batterySoc,
	}

	points := []model.ChargingPoint{
		{
			Name:        "Garage",
			Status:      model.StatusCharging,
			Power:       7200,
			Vehicle:     "Test Vehicle (API)",
			Soc:         &soc,
			Range:       &vehicleRange,
			LastUpdated: clock.Now().Format(time.RFC3339),
		},
		{
			Name:        "Stellplatz",
			Status:      model.StatusIdle,
			Power:       0,
			Vehicle:     "None",
			LastUpdated: clock.Now().Format(time.RFC3339),
		},
	}

	return system, points
}
