package test

var (
	// AccessToken is the TRMNL access token used in tests.
	AccessToken = "test-access-token"
	// DeviceID is the TRMNL device identifier used in tests.
	DeviceID = "AA:BB:CC:DD:EE:FF"
)

// StateDocument is a representative evcc state document with one charging
// loadpoint, one idle loadpoint, pv, battery and a known vehicle.
const StateDocument = `{
  "result": {
    "grid": {"power": -2500.4},
    "homePower": 1800.2,
    "pv": [{"power": 4800.7}, {"power": 120.0}],
    "battery": [{"power": -1200.1, "soc": 85}],
    "vehicles": {
      "tesla": {"title": "Tesla Model 3"}
    },
    "loadpoints": [
      {
        "title": "Loadpoint 1",
        "chargePower": 7200.5,
        "connected": true,
        "charging": true,
        "vehicleName": "tesla",
        "vehicleSoc": 65,
        "vehicleRange": 280
      },
      {
        "title": "Carport",
        "chargePower": 0,
        "connected": false,
        "charging": false
      }
    ]
  }
}`
