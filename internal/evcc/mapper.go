package evcc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/michalkurzeja/go-clock"
	"github.com/thoas/go-funk"

	"github.com/ingm4r/evcc-trmnl-integration/internal/model"
)

// Title overrides applied when a loadpoint still carries the evcc
// placeholder title. Only the first two loadpoints are covered, matching
// the physical setup this integration was built for.
var defaultTitles = map[int]string{
	0: "Garage",
	1: "Stellplatz",
}

// Map converts a raw state document into the domain model, applying the
// fallback rules for absent fields. Every failure is reported as a
// MappingError carrying the offending document; a missing result envelope
// wraps ErrMissingEnvelope. Mapping never partially succeeds: on error no
// system data or charging points are returned.
func Map(raw json.RawMessage) (model.SystemData, []model.ChargingPoint, error) {
	state := &State{}

	if err := json.Unmarshal(raw, state); err != nil {
		return model.SystemData{}, nil, newMappingError(err, raw)
	}

	if funk.IsEmpty(state.Result) {
		return model.SystemData{}, nil, newMappingError(ErrMissingEnvelope, raw)
	}

	result := state.Result

	system := model.SystemData{
		HomePower: result.HomePower,
	}

	if result.Grid != nil {
		system.GridPower = result.Grid.Power
	}

	// Only the first pv entry is used, additional inverters are ignored.
	if len(result.PV) > 0 {
		system.SolarPower = result.PV[0].Power
	}

	if len(result.Battery) > 0 {
		system.BatteryPower = result.Battery[0].Power
		system.BatterySoc = result.Battery[0].Soc
	}

	points := make([]model.ChargingPoint, 0, len(result.Loadpoints))

	for i, loadpoint := range result.Loadpoints {
		points = append(points, mapLoadpoint(i, loadpoint, result.Vehicles))
	}

	return system, points, nil
}

func mapLoadpoint(index int, loadpoint Loadpoint, vehicles map[string]Vehicle) model.ChargingPoint {
	return model.ChargingPoint{
		Name:        loadpointTitle(index, loadpoint),
		Status:      model.StatusFromFlags(loadpoint.Connected, loadpoint.Charging),
		Power:       loadpoint.ChargePower,
		Vehicle:     resolveVehicle(loadpoint, vehicles),
		Soc:         loadpoint.VehicleSoc,
		Range:       loadpoint.VehicleRange,
		LastUpdated: clock.Now().Format(time.RFC3339),
	}
}

func loadpointTitle(index int, loadpoint Loadpoint) string {
	placeholder := fmt.Sprintf("Loadpoint %d", index+1)

	title := loadpoint.Title
	if title == "" {
		title = placeholder
	}

	if title != placeholder {
		return title
	}

	if override, ok := defaultTitles[index]; ok {
		return override
	}

	return title
}

// resolveVehicle determines the display name for a loadpoint's vehicle.
// Preference order: title from the vehicles mapping, inline vehicle title,
// inline vehicle name, "Connected" while a vehicle is plugged in, "None".
func resolveVehicle(loadpoint Loadpoint, vehicles map[string]Vehicle) string {
	if loadpoint.VehicleName != "" {
		if vehicle, ok := vehicles[loadpoint.VehicleName]; ok && vehicle.Title != "" {
			return vehicle.Title
		}
	}

	if loadpoint.VehicleTitle != "" {
		return loadpoint.VehicleTitle
	}

	if loadpoint.VehicleName != "" {
		return loadpoint.VehicleName
	}

	if loadpoint.Connected {
		return "Connected"
	}

	return "None"
}
