package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-profile/pkg/accountclient"
	pkgconfig "github.com/tendant/simple-profile/pkg/config"
	"github.com/tendant/simple-profile/pkg/metrics"
	"github.com/tendant/simple-profile/pkg/webui"
)

// Config holds the server settings read with cleanenv. Account service,
// upload and web session settings come from the pkg/config constructors.
type Config struct {
	AppConfig   app.AppConfig
	Environment string `env:"APP_ENV" env-default:"development"`
	ServiceName string `env:"SERVICE_NAME" env-default:"signup-web"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	accountConfig := pkgconfig.NewAccountServiceConfigFromEnv()
	webConfig := pkgconfig.NewWebConfigFromEnv()
	uploadConfig := pkgconfig.NewUploadConfigFromEnv()
	for _, err := range []error{accountConfig.Validate(), webConfig.Validate(), uploadConfig.Validate()} {
		if err != nil {
			slog.Error("Invalid configuration", "error", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	submissionMetrics := metrics.NewSignupMetrics(registry, metrics.Config{
		ServiceName: config.ServiceName,
		Environment: config.Environment,
	})

	client := accountclient.New(accountConfig)
	slog.Info("Using account service", "url", client.SignupURL(), "timeout", accountConfig.Timeout)

	handle := webui.NewHandle(
		webui.WithAccountService(client),
		webui.WithSubmissionRecorder(submissionMetrics),
		webui.WithWebConfig(webConfig),
		webui.WithUploadConfig(uploadConfig),
		webui.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Mount("/", webui.Handler(handle))

	server.Run()
}

// loadEnvFile loads environment variables from .env file if it exists
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}

	slog.Info("Loading .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
