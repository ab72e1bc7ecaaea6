package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ingm4r/evcc-trmnl-integration/internal/app"
)

// runInteractive drives the application from a command prompt. Every
// command maps onto one of the application's entry points.
func runInteractive(application app.Application) {
	fmt.Println("evcc-trmnl - Interactive Mode")
	fmt.Println("Commands: stats, test, poll, send, start, stop, raw, html, quit")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch cmd {
		case "stats":
			printStats(application.Stats(), application.Running())

		case "test":
			if err := application.SendTest(); err != nil {
				log.WithError(err).Error("failed to send test data")

				continue
			}

			fmt.Println("Test data sent successfully to TRMNL!")

		case "poll":
			if err := application.PollOnce(); err != nil {
				log.WithError(err).Error("poll cycle failed")
			}

		case "send":
			if err := application.Send(); err != nil {
				log.WithError(err).Error("forced send failed")
			}

		case "start":
			if application.Running() {
				fmt.Println("Already running")

				continue
			}

			if err := application.Start(); err != nil {
				log.WithError(err).Error("failed to start polling")
			}

		case "stop":
			if !application.Running() {
				fmt.Println("Not running")

				continue
			}

			if err := application.Stop(); err != nil {
				log.WithError(err).Error("failed to stop polling")
			}

		case "raw":
			raw, err := application.RawState()
			if err != nil {
				log.WithError(err).Error("failed to fetch state document")

				continue
			}

			fmt.Println(prettyJSON(raw))

		case "html":
			html, err := application.RenderHTML()
			if err != nil {
				log.WithError(err).Error("failed to render display document")

				continue
			}

			fmt.Println(html)

		case "quit":
			if application.Running() {
				_ = application.Stop()
			}

			fmt.Println("Goodbye!")

			return

		case "":

		default:
			fmt.Println("Unknown command. Use: stats, test, poll, send, start, stop, raw, html, quit")
		}
	}
}

func printStats(stats app.Stats, running bool) {
	fmt.Println("\n=== evcc-trmnl statistics ===")
	fmt.Printf("API calls: %d\n", stats.APICalls)
	fmt.Printf("API successes: %d\n", stats.APISuccesses)
	fmt.Printf("API errors: %d\n", stats.APIErrors)
	fmt.Printf("HTTP errors: %d\n", stats.HTTPErrors)
	fmt.Printf("Data sent to TRMNL: %d\n", stats.DataSent)

	if !stats.LastSuccess.IsZero() {
		fmt.Printf("Last success: %s\n", stats.LastSuccess)
	}

	if !stats.LastError.IsZero() {
		fmt.Printf("Last error: %s\n", stats.LastError)
	}

	fmt.Printf("Running: %t\n", running)
}
