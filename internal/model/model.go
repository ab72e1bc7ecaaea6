package model

// Status represents the state of a charging point derived from the
// connected and charging flags reported by evcc.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusConnected Status = "connected"
	StatusCharging  Status = "charging"
	// StatusError is never produced by the mapper. It is injected by the
	// formatter when no charging points are available at all.
	StatusError Status = "error"
)

// String returns a string representation of the status.
func (s Status) String() string {
	return string(s)
}

// StatusFromFlags derives a charging point status from the connected and
// charging flags. Charging implies connected implies not idle.
func StatusFromFlags(connected, charging bool) Status {
	if !connected {
		return StatusIdle
	}

	if charging {
		return StatusCharging
	}

	return StatusConnected
}

// ChargingPoint holds the state of a single loadpoint for one poll cycle.
// Instances are created fresh on every poll and never mutated afterwards.
type ChargingPoint struct {
	Name        string
	Status      Status
	Power       float64
	Vehicle     string
	Soc         *int
	Range       *int
	LastUpdated string
}

// SystemData holds site-wide power flows for one poll cycle.
// Negative grid power means exporting, negative battery power discharging.
type SystemData struct {
	GridPower    float64
	SolarPower   float64
	HomePower    float64
	BatteryPower float64
	BatterySoc   *int
}
