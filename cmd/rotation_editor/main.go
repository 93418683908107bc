package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/courtside/rotations/internal/config"
	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/dispatcher"
	"github.com/courtside/rotations/internal/editor"
	"github.com/courtside/rotations/internal/export"
	"github.com/courtside/rotations/internal/logging"
	"github.com/courtside/rotations/internal/otel"
	"github.com/courtside/rotations/internal/position"
	"github.com/courtside/rotations/internal/storage"
	"github.com/courtside/rotations/internal/tui"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// AppName prefixes log and metrics files.
const AppName = "rotation_editor"

var (
	// SessionStartTime stamps the log file names of this run.
	SessionStartTime = time.Now()

	// stderr receives fatal start-up errors.
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run parses flags and starts either the interactive editor or the
// headless export. It returns the process exit code.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config", ".", "directory holding "+config.FileName)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-config dir] [export [-out file]]\n", AppName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfgErr := config.Load(*configDir)
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrNotFound) {
		fmt.Fprintln(stderr, cfgErr)
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return runEditor(cfgErr)
	}
	switch rest[0] {
	case "edit":
		return runEditor(cfgErr)
	case "export":
		return runExport(rest[1:], stdout, cfgErr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fs.Usage()
		return 2
	}
}

// app is the state shared by both entry points.
type app struct {
	log      *slog.Logger
	trace    zerolog.Logger
	store    storage.Backend
	resolver *position.Resolver
	roster   court.Roster
	provider logging.ContextProvider
}

// newApp sets up logging, loads the position table and opens the override
// store. logOut receives every log record, errOut (optional) warnings and
// errors only.
func newApp(logOut, errOut io.Writer, provider logging.ContextProvider, cfgErr error) (*app, error) {
	level := config.GetString("logLevel")

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logOut, errOut, level, provider)
	log := slogManager.Logger()
	if cfgErr != nil {
		log.Warn("no config file, using defaults", "error", cfgErr)
	}

	trace := logging.NewTraceLogger(logOut, level, "trace")

	edCfg := config.GetEditorConfig()
	table := court.DefaultTable()
	if edCfg.PositionsFile != "" {
		t, err := court.LoadTableFile(edCfg.PositionsFile)
		if err != nil {
			return nil, err
		}
		table = t
		log.Info("loaded position table", "file", edCfg.PositionsFile)
	}

	store, err := newBackend(config.GetStorageConfig(), trace, log)
	if err != nil {
		return nil, err
	}

	return &app{
		log:      log,
		trace:    trace,
		store:    store,
		resolver: position.NewResolver(table, store),
		roster:   court.DefaultRoster().Merge(config.GetRoster()),
		provider: provider,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("closing override store", "error", err)
	}
}

func runEditor(cfgErr error) int {
	logsDir := config.GetString("logsDir")
	logFile, err := logging.OpenLogFile(logging.LogFilePath(logsDir, AppName, SessionStartTime))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logFile.Close()
	errFile, err := logging.OpenLogFile(logging.LogFilePath(logsDir, AppName+".errors", SessionStartTime))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer errFile.Close()

	// The provider is called for every record; the session is set once
	// it exists.
	var current atomic.Pointer[editor.Session]
	provider := logging.SessionAttrs(func() (string, string) {
		s := current.Load()
		if s == nil {
			return "", ""
		}
		st := s.Status()
		return string(st.Rotation), string(st.Phase)
	})

	a, err := newApp(logFile, errFile, provider, cfgErr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, court.ErrIncompleteTable) {
			fmt.Fprintln(stderr, "the position table must define every rotation, mode and role")
		}
		return 1
	}
	defer a.close()

	metrics, err := newMetrics(a.log)
	if err != nil {
		a.log.Error("metrics disabled", "error", err)
	} else {
		defer metrics.shutdown(a.log)
	}

	edCfg := config.GetEditorConfig()
	s, err := editor.New(a.resolver, editor.Options{
		StartRotation: court.Rotation(edCfg.StartRotation),
		PathThreshold: edCfg.PathThreshold,
		Logger:        a.log,
	})
	if err != nil {
		a.log.Error("creating session", "error", err)
		fmt.Fprintln(stderr, err)
		return 1
	}
	current.Store(s)

	d, err := dispatcher.New(logging.NewDispatcherLogger(a.trace, a.provider))
	if err != nil {
		a.log.Error("creating dispatcher", "error", err)
		return 1
	}
	defer d.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer screen.Fini()

	ui := tui.New(screen, s, d, a.roster, a.log)
	clipboard := export.NewCommandClipboard(config.GetExportConfig().ClipboardCommands)
	editor.RegisterHandlers(d, s, clipboard, ui.Delivered)

	a.log.Info("editor started", "rotation", s.Rotation(), "storage", config.GetStorageConfig().Type)
	ui.Run()
	a.log.Info("editor stopped")
	return 0
}

// metricsRun owns the metrics file and provider of one editor run.
type metricsRun struct {
	provider *otel.Provider
	file     *os.File
}

func newMetrics(log *slog.Logger) (*metricsRun, error) {
	cfg := config.GetOTelConfig()
	if !cfg.Enabled {
		return &metricsRun{provider: disabledProvider()}, nil
	}

	path := filepath.Join(config.GetString("logsDir"),
		fmt.Sprintf("%s.metrics.%s.json", AppName, SessionStartTime.Format("20060102_150405")))
	f, err := logging.OpenLogFile(path)
	if err != nil {
		return nil, err
	}

	p, err := otel.New(otel.Config{
		Enabled:        true,
		ServiceName:    cfg.ServiceName,
		ExportInterval: cfg.ExportInterval,
		MetricWriter:   f,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	p.Install()
	log.Info("metrics enabled", "file", path, "interval", cfg.ExportInterval)
	return &metricsRun{provider: p, file: f}, nil
}

func disabledProvider() *otel.Provider {
	p, _ := otel.New(otel.Config{})
	return p
}

func (m *metricsRun) shutdown(log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.provider.Shutdown(ctx); err != nil {
		log.Error("metrics shutdown", "error", err)
	}
	if m.file != nil {
		m.file.Close()
	}
}
