package cmd

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/futurehomeno/cliffhanger/bootstrap"
	log "github.com/sirupsen/logrus"
)

// Execute is an entry point to the application.
func Execute() {
	var (
		workDir     string
		testSend    bool
		pollOnce    bool
		showRaw     bool
		showHTML    bool
		interactive bool
	)

	flag.StringVar(&workDir, "c", "", "work dir")
	flag.BoolVar(&testSend, "test", false, "send test data to TRMNL and exit")
	flag.BoolVar(&pollOnce, "once", false, "poll evcc once and exit")
	flag.BoolVar(&showRaw, "raw", false, "print raw evcc state document and exit")
	flag.BoolVar(&showHTML, "html", false, "print generated display document and exit")
	flag.BoolVar(&interactive, "i", false, "run in interactive mode")
	flag.Parse()

	cfgSrv := getConfigService(workDir)
	cfg := cfgSrv.Model()

	bootstrap.InitializeLogger(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)

	application := getApplication(cfgSrv)

	switch {
	case testSend:
		if err := application.SendTest(); err != nil {
			log.WithError(err).Fatal("failed to send test data")
		}

		fmt.Println("Test data sent successfully to TRMNL!")

	case pollOnce:
		if err := application.PollOnce(); err != nil {
			log.WithError(err).Fatal("failed to poll or send data")
		}

		fmt.Println("Successfully polled and sent data")

	case showRaw:
		raw, err := application.RawState()
		if err != nil {
			log.WithError(err).Fatal("failed to fetch state document")
		}

		fmt.Println(prettyJSON(raw))

	case showHTML:
		html, err := application.RenderHTML()
		if err != nil {
			log.WithError(err).Fatal("failed to render display document")
		}

		fmt.Println(html)

	case interactive:
		runInteractive(application)

	default:
		if err := application.Start(); err != nil {
			log.WithError(err).Fatal("failed to start the application")
		}

		bootstrap.WaitForShutdown()

		if err := application.Stop(); err != nil {
			log.WithError(err).Fatal("failed to stop the application")
		}
	}
}

func prettyJSON(raw json.RawMessage) string {
	var buf map[string]interface{}

	if err := json.Unmarshal(raw, &buf); err != nil {
		return string(raw)
	}

	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(raw)
	}

	return string(pretty)
}
