package trmnl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/michalkurzeja/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingm4r/evcc-trmnl-integration/internal/model"
	"github.com/ingm4r/evcc-trmnl-integration/internal/render"
	"github.com/ingm4r/evcc-trmnl-integration/internal/trmnl"
)

func TestFormatter_BuildContext(t *testing.T) { //nolint:paralleltest
	now := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	clock.Mock(now)
	t.Cleanup(func() { clock.Restore() })

	soc := 65
	vehicleRange := 280
	batterySoc := 85

	system := model.SystemData{
		GridPower:    -2500.4,
		SolarPower:   4800.7,
		HomePower:    1800.2,
		BatteryPower: -1200.1,
		BatterySoc:   &batterySoc,
	}

	points := []model.ChargingPoint{
		{
			Name:        "Garage",
			Status:      model.StatusCharging,
			Power:       7200.5,
			Vehicle:     "Tesla Model 3",
			Soc:         &soc,
			Range:       &vehicleRange,
			LastUpdated: now.Format(time.RFC3339),
		},
	}

	ctx := trmnl.NewFormatter("http://evcc.local/some/path").BuildContext(system, points)

	assert.Equal(t, "evcc.local", ctx["site_title"])
	assert.Equal(t, false, ctx["system_offline"])
	assert.Equal(t, "-2500", ctx["grid_power"])
	assert.Equal(t, "negative", ctx["grid_class"])
	assert.Equal(t, "4801", ctx["solar_power"])
	assert.Equal(t, "1800", ctx["home_power"])
	assert.Equal(t, "-1200", ctx["battery_power"])
	assert.Equal(t, "negative", ctx["battery_class"])
	assert.Equal(t, 85, ctx["battery_soc"])
	assert.Equal(t, "09:30, 14.03.2026", ctx["last_update"])
}

func TestFormatter_PointContext(t *testing.T) { //nolint:paralleltest
	now := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	clock.Mock(now)
	t.Cleanup(func() { clock.Restore() })

	soc := 65

	ctx := trmnl.NewFormatter("http://evcc.local").BuildContext(model.SystemData{}, []model.ChargingPoint{
		{
			Name:    "Garage",
			Status:  model.StatusCharging,
			Power:   7200.5,
			Vehicle: "Tesla Model 3",
			Soc:     &soc,
		},
	})

	points := pointsOf(t, ctx)
	require.Len(t, points, 1)

	assert.Equal(t, "Garage", points[0]["name"])
	assert.Equal(t, "charging", points[0]["status"])
	assert.Equal(t, "CHARGING", points[0]["status_text"])
	assert.Equal(t, "⚡", points[0]["status_icon"])
	assert.Equal(t, "7200", points[0]["power"])
	assert.Equal(t, "Tesla Model 3", points[0]["vehicle"])
	assert.Equal(t, 65, points[0]["soc"])
	assert.Nil(t, points[0]["range"])
}

func TestFormatter_ZeroBatteryPowerIsAbsent(t *testing.T) { //nolint:paralleltest
	clock.Mock(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	t.Cleanup(func() { clock.Restore() })

	ctx := trmnl.NewFormatter("http://evcc.local").BuildContext(model.SystemData{}, nil)

	assert.Nil(t, ctx["battery_power"])
	assert.Equal(t, "positive", ctx["battery_class"])
}

func TestFormatter_FallbackErrorPoints(t *testing.T) { //nolint:paralleltest
	clock.Mock(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	t.Cleanup(func() { clock.Restore() })

	ctx := trmnl.NewFormatter("http://evcc.local").BuildContext(model.SystemData{}, nil)

	assert.Equal(t, true, ctx["system_offline"])

	points := pointsOf(t, ctx)
	require.Len(t, points, 2)

	assert.Equal(t, "Garage", points[0]["name"])
	assert.Equal(t, "Stellplatz", points[1]["name"])

	for _, point := range points {
		assert.Equal(t, "ERROR", point["status_text"])
		assert.Equal(t, "❌", point["status_icon"])
		assert.Equal(t, "No Data", point["vehicle"])
		assert.Equal(t, "0", point["power"])
	}
}

func TestFormatter_RenderedFallbackMarkup(t *testing.T) { //nolint:paralleltest
	clock.Mock(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	t.Cleanup(func() { clock.Restore() })

	formatter := trmnl.NewFormatter("http://evcc.local")
	template := trmnl.LoadTemplate("")

	html := template.Render(formatter.BuildContext(model.SystemData{}, nil))

	assert.Equal(t, 2, strings.Count(html, "ERROR"))
	assert.Contains(t, html, "Garage")
	assert.Contains(t, html, "Stellplatz")
	assert.Contains(t, html, "Grid: 0W | Solar: 0W | Home: 0W")
	assert.NotContains(t, html, "{{")
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "template.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>{{site_title}}</p>"), 0o600))

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "external template file",
			path: path,
			want: "<p>evcc.local</p>",
		},
		{
			name: "unreadable path falls back to built-in default",
			path: filepath.Join(dir, "missing.html"),
			want: "EV Charging - evcc.local",
		},
		{
			name: "empty path uses built-in default",
			path: "",
			want: "EV Charging - evcc.local",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			template := trmnl.LoadTemplate(tt.path)
			html := template.Render(trmnl.NewFormatter("http://evcc.local").BuildContext(model.SystemData{}, []model.ChargingPoint{{Name: "Garage"}}))

			assert.Contains(t, html, tt.want)
		})
	}
}

func pointsOf(t *testing.T, ctx render.Context) []render.Context {
	t.Helper()

	points, ok := ctx["charging_points"].([]render.Context)
	require.True(t, ok)

	return points
}
