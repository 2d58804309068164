// signup-tui is a terminal front end for creating an account.
//
// The account service is configured from the environment
// (ACCOUNT_SERVICE_URL, ACCOUNT_SERVICE_SIGNUP_PATH, ACCOUNT_SERVICE_TIMEOUT),
// optionally overridden with --server and --signup-path. Logs go to a file
// so they do not draw over the form.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/tendant/simple-profile/pkg/accountclient"
	pkgconfig "github.com/tendant/simple-profile/pkg/config"
	"github.com/tendant/simple-profile/pkg/tui"
)

type Config struct {
	LogFile  string `env:"SIGNUP_TUI_LOG" env-default:"signup-tui.log"`
	LogLevel string `env:"SIGNUP_TUI_LOG_LEVEL" env-default:"info"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var server, signupPath string

	flagSet := pflag.NewFlagSet("signup-tui", pflag.ContinueOnError)
	flagSet.StringVar(&server, "server", "", "account service base URL (overrides ACCOUNT_SERVICE_URL)")
	flagSet.StringVar(&signupPath, "signup-path", "", "create-account path (overrides ACCOUNT_SERVICE_SIGNUP_PATH)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	loadEnvFile()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}

	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})))

	accountConfig := pkgconfig.NewAccountServiceConfigFromEnv()
	if server != "" {
		accountConfig.BaseURL = server
	}
	if signupPath != "" {
		accountConfig.SignupPath = signupPath
	}
	if err := accountConfig.Validate(); err != nil {
		return err
	}
	uploadConfig := pkgconfig.NewUploadConfigFromEnv()
	if err := uploadConfig.Validate(); err != nil {
		return err
	}

	client := accountclient.New(accountConfig)
	slog.Info("Starting signup TUI", "url", client.SignupURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	model := tui.NewModel(
		tui.WithAccountService(client),
		tui.WithMaxPictureBytes(uploadConfig.MaxProfilePictureBytes),
		tui.WithContext(ctx),
	)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run signup screen: %w", err)
	}

	result := tui.ResultNone
	if m, ok := final.(tui.Model); ok {
		result = m.Result()
	}
	slog.Info("Signup TUI finished", "result", result)

	if result == tui.ResultLogin {
		fmt.Println("Account created. Please log in.")
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: signup-tui [flags]\n\nCreate an account from the terminal.\n\nFlags:\n")
	flagSet.PrintDefaults()
}

// loadEnvFile loads environment variables from .env file if it exists
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	envFile := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}
}
