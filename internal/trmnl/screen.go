package trmnl

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/michalkurzeja/go-clock"
	log "github.com/sirupsen/logrus"

	"github.com/ingm4r/evcc-trmnl-integration/internal/model"
	"github.com/ingm4r/evcc-trmnl-integration/internal/render"
)

const lastUpdateLayout = "15:04, 02.01.2006"

var statusIcons = map[model.Status]string{
	model.StatusCharging:  "⚡",
	model.StatusConnected: "🔌",
	model.StatusIdle:      "⏸️",
	model.StatusError:     "❌",
}

// Formatter builds render contexts for the display template from domain
// values and carries the presentation conventions of the screen: status
// glyphs, uppercased status text, sign classes and watt formatting.
type Formatter struct {
	siteTitle string
}

// NewFormatter returns a formatter for the given site. The site title is
// derived from the evcc base URL, scheme and path stripped.
func NewFormatter(evccBaseURL string) *Formatter {
	return &Formatter{siteTitle: siteTitle(evccBaseURL)}
}

// BuildContext flattens system data and charging points into the key to
// value mapping consumed by the display template. When no charging points
// are available two fixed ERROR placeholder entries are produced so the
// display keeps its layout and clearly signals the outage.
func (f *Formatter) BuildContext(system model.SystemData, points []model.ChargingPoint) render.Context {
	items := make([]render.Context, 0, len(points))

	for _, point := range points {
		items = append(items, pointContext(point))
	}

	if len(items) == 0 {
		items = fallbackPoints()
	}

	ctx := render.Context{
		"site_title":      f.siteTitle,
		"system_offline":  len(points) == 0,
		"charging_points": items,
		"grid_power":      watts(system.GridPower),
		"grid_class":      signClass(system.GridPower),
		"solar_power":     watts(system.SolarPower),
		"home_power":      watts(system.HomePower),
		"battery_class":   signClass(system.BatteryPower),
		"battery_soc":     optionalInt(system.BatterySoc),
		"last_update":     clock.Now().Format(lastUpdateLayout),
	}

	// A battery at exactly zero watts is treated as absent so the template
	// can drop the battery line entirely.
	if system.BatteryPower != 0 {
		ctx["battery_power"] = watts(system.BatteryPower)
	} else {
		ctx["battery_power"] = nil
	}

	return ctx
}

func pointContext(point model.ChargingPoint) render.Context {
	return render.Context{
		"name":         point.Name,
		"status":       point.Status.String(),
		"status_icon":  statusIcon(point.Status),
		"status_text":  strings.ToUpper(point.Status.String()),
		"power":        watts(point.Power),
		"vehicle":      point.Vehicle,
		"soc":          optionalInt(point.Soc),
		"range":        optionalInt(point.Range),
		"last_updated": point.LastUpdated,
	}
}

// fallbackPoints are shown when the upstream system reported no loadpoints
// at all, mirroring the two charging points of the known setup.
func fallbackPoints() []render.Context {
	errorPoint := func(name string) render.Context {
		return render.Context{
			"name":         name,
			"status":       model.StatusError.String(),
			"status_icon":  statusIcon(model.StatusError),
			"status_text":  strings.ToUpper(model.StatusError.String()),
			"power":        watts(0),
			"vehicle":      "No Data",
			"soc":          nil,
			"range":        nil,
			"last_updated": clock.Now().Format(time.RFC3339),
		}
	}

	return []render.Context{errorPoint("Garage"), errorPoint("Stellplatz")}
}

func statusIcon(status model.Status) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}

	return "❓"
}

func watts(power float64) string {
	return fmt.Sprintf("%.0f", power)
}

func signClass(power float64) string {
	if power < 0 {
		return "negative"
	}

	return "positive"
}

func optionalInt(value *int) any {
	if value == nil {
		return nil
	}

	return *value
}

func siteTitle(baseURL string) string {
	title := strings.TrimPrefix(baseURL, "http://")
	title = strings.TrimPrefix(title, "https://")

	if idx := strings.Index(title, "/"); idx >= 0 {
		title = title[:idx]
	}

	return title
}

// LoadTemplate parses the display template from the given path, falling
// back to the built-in default when the file cannot be read. The template
// file is an external collaborator; its absence is not an error.
func LoadTemplate(path string) *render.Template {
	if path != "" {
		text, err := os.ReadFile(path)
		if err == nil {
			return render.Parse(string(text))
		}

		log.WithError(err).WithField("path", path).Warn("template file not readable, using built-in default")
	}

	return render.Parse(DefaultTemplate)
}

// DefaultTemplate is the built-in display markup used when no external
// template file is available.
const DefaultTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>EVCC Status</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .point { border: 1px solid black; padding: 10px; margin: 10px 0; }
    </style>
</head>
<body>
    <h1>EV Charging - {{site_title}}</h1>
    {{#each charging_points}}
    <div class="point">
        <h3>{{name}}</h3>
        <p>Status: {{status_text}} ({{power}}W)</p>
        <p>Vehicle: {{vehicle}}</p>
    </div>
    {{/each}}
    <p>Grid: {{grid_power}}W | Solar: {{solar_power}}W | Home: {{home_power}}W</p>
    <p>Last updated: {{last_update}}</p>
</body>
</html>`
