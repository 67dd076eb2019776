package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/i18n"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/birthdaydesk/birthdaydesk/internal/server"
	"github.com/birthdaydesk/birthdaydesk/internal/settings"
	"github.com/joho/godotenv"
)

// main delegates to runMain so deferred cleanups (log file close) run before
// the process exits; os.Exit skips defers.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing and exit codes.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	port := flag.String(config.FlagPort, "", config.FlagDescPort)
	rosterPath := flag.String(config.FlagRosterPath, "", config.FlagDescRosterPath)
	rosterURL := flag.String(config.FlagRosterURL, "", config.FlagDescRosterURL)
	lang := flag.String(config.FlagLang, "", config.FlagDescLang)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// Best effort: a missing .env file is the normal case in production.
	if err := godotenv.Load(config.EnvFileName); err != nil {
		slog.Debug(config.MsgEnvFileMissing, config.LogKeyComponent, config.CompMain)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, *port, *rosterPath, *rosterURL, *lang); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the stores, roster loader, translator and HTTP server together
// and blocks until the context is cancelled. Flags override persisted
// settings, which override defaults.
func run(ctx context.Context, port, rosterPath, rosterURL, lang string) error {
	settingsPath, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	store, err := settings.Open(settingsPath, slog.Default())
	if err != nil {
		return err
	}

	if port == "" {
		port = store.Get(config.SettingServerPort, config.DefaultPort)
	}
	if lang == "" {
		lang = store.Get(config.SettingLanguage, config.DefaultLanguage)
	}
	if !slices.Contains(config.SupportedLanguages, lang) {
		slog.Warn(config.MsgLangFallback,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyLang, lang,
		)
		lang = config.DefaultLanguage
	}
	leapDay, err := engine.ParseLeapDayPolicy(store.Get(config.SettingLeapDayPolicy, ""))
	if err != nil {
		return err
	}

	translator, err := i18n.New(lang, slog.Default())
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:    port,
		Clock:   engine.RealClock{},
		LeapDay: leapDay,
		Summary: translator.Summary,
		Notify:  translator.NotificationThisMonth,
		Logger:  slog.Default(),
	})

	records, err := loadRoster(ctx, store, rosterPath, rosterURL)
	if err != nil {
		return err
	}
	if err := srv.SetRoster(records); err != nil {
		return err
	}

	return srv.Start(ctx)
}

// loadRoster resolves the roster source from flags, then persisted settings,
// then the embedded sample data.
func loadRoster(ctx context.Context, store *settings.Store, rosterPath, rosterURL string) ([]roster.StaffRecord, error) {
	cfg := roster.SourceConfig{
		Mode:   store.Get(config.SettingSourceMode, config.SourceModeEmbedded),
		Format: store.Get(config.SettingSourceFormat, ""),
		Path:   store.Get(config.SettingSourcePath, ""),
		URL:    store.Get(config.SettingSourceURL, ""),
		User:   store.Get(config.SettingSourceUser, ""),
	}
	switch {
	case rosterPath != "":
		cfg.Mode = config.SourceModeLocal
		cfg.Path = rosterPath
	case rosterURL != "":
		cfg.Mode = config.SourceModeWeb
		cfg.URL = rosterURL
	}

	if cfg.Mode == config.SourceModeWeb {
		pass, err := settings.SourcePassword()
		if err != nil {
			slog.Warn(config.ErrKeyringAccess,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
		cfg.Pass = pass
	}

	loader := &roster.Loader{
		Fetcher: roster.NewHTTPFetcher(),
		Options: roster.NormalizeOptions{DefaultCelebrationTime: config.DefaultCelebrationTime},
	}
	return loader.Load(ctx, cfg)
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger to write JSON to stdout
// and, best effort, to a log file in the user cache directory.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	writers = append(writers, os.Stdout)

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
