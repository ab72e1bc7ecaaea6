package cmd

import (
	"crypto/tls"
	"net/http"

	"github.com/futurehomeno/cliffhanger/bootstrap"
	cliffCfg "github.com/futurehomeno/cliffhanger/config"
	log "github.com/sirupsen/logrus"

	"github.com/ingm4r/evcc-trmnl-integration/internal/app"
	"github.com/ingm4r/evcc-trmnl-integration/internal/config"
	"github.com/ingm4r/evcc-trmnl-integration/internal/evcc"
	"github.com/ingm4r/evcc-trmnl-integration/internal/render"
	"github.com/ingm4r/evcc-trmnl-integration/internal/trmnl"
)

// services is a container for services that are common dependencies.
var services = &serviceContainer{}

// serviceContainer is a type representing a dependency injection container to be used during bootstrap of the application.
type serviceContainer struct {
	configService *config.Service

	evccHTTPClient  *http.Client
	trmnlHTTPClient *http.Client
	evccClient      evcc.Client
	trmnlClient     trmnl.Client
	formatter       *trmnl.Formatter
	template        *render.Template
	session         *trmnl.Session
	application     app.Application
}

// getConfigService initiates a configuration service and loads the config.
func getConfigService(workDir string) *config.Service {
	if services.configService == nil {
		if workDir == "" {
			workDir = bootstrap.GetConfigurationDirectory()
		}

		cfg := config.New(workDir)
		services.configService = config.NewService(cliffCfg.NewStorage(cfg, workDir))

		err := services.configService.Load()
		if err != nil {
			log.WithError(err).Fatal("failed to load configuration")
		}
	}

	return services.configService
}

// getEvccHTTPClient creates or returns existing HTTP client with predefined timeout.
func getEvccHTTPClient(cfgSrv *config.Service) *http.Client {
	if services.evccHTTPClient == nil {
		services.evccHTTPClient = &http.Client{
			Timeout: cfgSrv.GetHTTPTimeout(),
		}
	}

	return services.evccHTTPClient
}

// getTRMNLHTTPClient creates or returns existing HTTP client for the BYOS
// server. Certificate verification is disabled on purpose: self-hosted
// TRMNL endpoints routinely serve self-signed certificates.
func getTRMNLHTTPClient(cfgSrv *config.Service) *http.Client {
	if services.trmnlHTTPClient == nil {
		services.trmnlHTTPClient = &http.Client{
			Timeout: cfgSrv.GetHTTPTimeout(),
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		}
	}

	return services.trmnlHTTPClient
}

// getEvccClient creates or returns existing evcc API client.
func getEvccClient(cfgSrv *config.Service) evcc.Client {
	if services.evccClient == nil {
		services.evccClient = evcc.NewHTTPClient(
			getEvccHTTPClient(cfgSrv),
			cfgSrv.GetEvccBaseURL(),
		)
	}

	return services.evccClient
}

// getSession creates or returns existing transmission session.
func getSession() *trmnl.Session {
	if services.session == nil {
		services.session = trmnl.NewSession()
	}

	return services.session
}

// getTRMNLClient creates or returns existing TRMNL delivery client.
func getTRMNLClient(cfgSrv *config.Service) trmnl.Client {
	if services.trmnlClient == nil {
		services.trmnlClient = trmnl.NewClient(
			getTRMNLHTTPClient(cfgSrv),
			cfgSrv.GetTRMNLBaseURL(),
			cfgSrv.GetTRMNLAccessToken(),
			cfgSrv.GetTRMNLDeviceID(),
			trmnl.DefaultEndpoints(),
			getSession(),
		)
	}

	return services.trmnlClient
}

// getFormatter creates or returns existing screen formatter.
func getFormatter(cfgSrv *config.Service) *trmnl.Formatter {
	if services.formatter == nil {
		services.formatter = trmnl.NewFormatter(cfgSrv.GetEvccBaseURL())
	}

	return services.formatter
}

// getTemplate creates or returns existing parsed display template.
func getTemplate(cfgSrv *config.Service) *render.Template {
	if services.template == nil {
		services.template = trmnl.LoadTemplate(cfgSrv.GetTemplatePath())
	}

	return services.template
}

// getApplication creates or returns existing application.
func getApplication(cfgSrv *config.Service) app.Application {
	if services.application == nil {
		services.application = app.New(
			cfgSrv,
			getEvccClient(cfgSrv),
			getTRMNLClient(cfgSrv),
			getFormatter(cfgSrv),
			getTemplate(cfgSrv),
			getSession(),
		)
	}

	return services.application
}
