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
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
	"github.com/tartampluch/go-growth/internal/server"
	"github.com/tartampluch/go-growth/internal/ui"
	"github.com/zalando/go-keyring"
)

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and runs the application.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	envHelp := flag.Bool(config.FlagEnvHelp, false, config.FlagDescEnvHelp)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}
	if *envHelp {
		usage, err := config.EnvUsage()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return config.ExitCodeError
		}
		fmt.Println(usage)
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// Cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the server, the directory fetcher and the growth backend into the
// tray application and blocks until it quits.
func run(ctx context.Context) error {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()
	prefs.SetString(config.PrefLastRun, config.Version)

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	applyEnvOverrides(prefs, env)

	port := prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewGrowthServer(port)
	fetcher := engine.NewHTTPFetcher()
	newBackend := func(baseURL, token string) engine.Backend {
		return engine.NewHTTPBackend(baseURL, token)
	}

	gui := ui.NewGrowthApp(a, ctx, srv, fetcher, newBackend)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	gui.Run()
	return nil
}

// applyEnvOverrides copies the GO_GROWTH_* variables over the stored
// preferences. The token goes to the keyring.
func applyEnvOverrides(prefs fyne.Preferences, env config.EnvOverrides) {
	if env.Empty() {
		return
	}
	log := slog.With(config.LogKeyComponent, config.CompConfig)

	set := func(key, value string) {
		if value == "" {
			return
		}
		prefs.SetString(key, value)
		log.Info(config.MsgEnvOverride, config.LogKeyKey, key)
	}
	set(config.PrefAPIURL, env.APIURL)
	set(config.PrefAccountID, env.AccountID)
	set(config.PrefServerPort, env.Port)
	set(config.PrefLanguage, env.Language)

	if env.APIToken != "" {
		if err := keyring.Set(config.KeyringService, config.KeyringTokenUser, env.APIToken); err != nil {
			log.Error(config.ErrKeyringSave, config.LogKeyError, err)
			return
		}
		log.Info(config.MsgEnvOverride, config.LogKeyKey, config.KeyringTokenUser)
	}
}

func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs build and host details.
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

// setupLogging sends JSON logs to stdout and to a log file in the user cache
// directory. The returned closer is nil when no file could be opened.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := logFilePath(); err == nil {
		// Truncated on each start.
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

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

func logFilePath() (string, error) {
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
