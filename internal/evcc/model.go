package evcc

// State is the envelope returned by the evcc state endpoint.
// All payload data is nested under the result key.
type State struct {
	Result *Result `json:"result"`
}

// Result carries site-wide power flows, vehicles and loadpoints.
type Result struct {
	Grid       *Grid              `json:"grid"`
	HomePower  float64            `json:"homePower"`
	PV         []PV               `json:"pv"`
	Battery    []Battery          `json:"battery"`
	Vehicles   map[string]Vehicle `json:"vehicles"`
	Loadpoints []Loadpoint        `json:"loadpoints"`
}

// Grid structure
type Grid struct {
	Power float64 `json:"power"`
}

// PV structure
type PV struct {
	Power float64 `json:"power"`
}

// Battery structure
type Battery struct {
	Power float64 `json:"power"`
	Soc   *int    `json:"soc"`
}

// Vehicle structure, keyed by vehicle name in the state document.
type Vehicle struct {
	Title string `json:"title"`
}

// Loadpoint structure for a single charging point.
type Loadpoint struct {
	Title        string  `json:"title"`
	ChargePower  float64 `json:"chargePower"`
	Connected    bool    `json:"connected"`
	Charging     bool    `json:"charging"`
	VehicleName  string  `json:"vehicleName"`
	VehicleTitle string  `json:"vehicleTitle"`
	VehicleSoc   *int    `json:"vehicleSoc"`
	VehicleRange *int    `json:"vehicleRange"`
}
