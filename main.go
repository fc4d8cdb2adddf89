package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"midnightfront/pkg/config"
	"midnightfront/pkg/countdown"
	"midnightfront/pkg/dashboard"
	"midnightfront/pkg/logging"
	"midnightfront/pkg/metrics"
	"midnightfront/pkg/refresh"
	"midnightfront/pkg/render"
)

const appVersion = "0.1.0"

// Output formats of the one-shot report.
const (
	formatText = "text"
	formatJSON = "json"
	formatHTML = "html"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		g            globalFlags
		format       string
		atStr        string
		withHolidays bool
	)

	cmd := &cobra.Command{
		Use:           "midnightfront",
		Short:         "Where on Earth is it about to be midnight (one-shot report)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, _ := cmd.Flags().GetBool("version"); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "midnightfront v%s\n", appVersion)
				return nil
			}

			closeLog, err := setupLogging(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}
			roster, err := cfg.Roster()
			if err != nil {
				return err
			}

			at := time.Now()
			if strings.TrimSpace(atStr) != "" {
				if at, err = time.Parse(time.RFC3339, strings.TrimSpace(atStr)); err != nil {
					return fmt.Errorf("invalid --at %q, expected RFC3339: %w", atStr, err)
				}
			}

			d := refresh.New(roster, refresh.WithClock(fixedClock{at}))
			report := render.FromSnapshot(d.Tick())
			report.Version = appVersion

			if withHolidays {
				report.ShowHolidays = true
				report.Holidays, report.HolidaysErr = cfg.HolidaysClient().Upcoming(cmd.Context())
				if report.HolidaysErr != nil {
					slog.Error("holidays fetch failed", "err", report.HolidaysErr)
				}
			}

			return writeReport(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("midnightfront v{{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (roster, refresh interval, holidays API)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Write logs to this file, rotated at local midnight")

	cmd.Flags().StringVar(&format, "format", formatText, "Report format: text, json or html")
	cmd.Flags().StringVar(&atStr, "at", "", "Compute for this instant (RFC3339) instead of now")
	cmd.Flags().BoolVar(&withHolidays, "holidays", false, "Include upcoming public holidays")

	cmd.AddCommand(newWatchCmd(&g), newRosterCmd(&g))
	return cmd
}

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		interval        time.Duration
		metricsTextfile string
		noHolidays      bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live terminal dashboard refreshed every second",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal UI owns the screen, so logs go to --log-file or nowhere.
			closeLog, err := setupLogging(*g, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = cfg.RefreshInterval
			}
			roster, err := cfg.Roster()
			if err != nil {
				return err
			}

			return runWatch(cmd.Context(), *g, cfg, roster, interval, metricsTextfile, !noHolidays)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from config, 1s)")
	cmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on every tick")
	cmd.Flags().BoolVar(&noHolidays, "no-holidays", false, "Do not fetch upcoming public holidays")
	return cmd
}

func runWatch(parent context.Context, g globalFlags, cfg *config.Config, roster countdown.Roster, interval time.Duration, metricsTextfile string, withHolidays bool) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector := metrics.New()
	sink := refresh.NewChannelSink()
	driver := refresh.New(roster,
		refresh.WithInterval(interval),
		refresh.WithSink(collector.Sink(metricsTextfile)),
		refresh.WithSink(sink),
		refresh.WithLogger(slog.Default()),
	)

	if g.configPath != "" {
		if err := config.Watch(ctx, g.configPath, reloadHandler(driver, cfg)); err != nil {
			slog.Warn("config hot reload disabled", "path", g.configPath, "err", err)
		}
	}

	driverDone := make(chan error, 1)
	go func() { driverDone <- driver.Run(ctx) }()

	var source dashboard.HolidaysSource
	if withHolidays {
		source = cfg.HolidaysClient()
	}
	model := dashboard.New(ctx, cancel, sink.C(), source).OnHolidays(func(err error) {
		collector.RecordHolidaysFetch(err)
		if err != nil {
			slog.Error("holidays fetch failed", "err", err)
		}
	})

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	<-driverDone

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// reloadHandler applies a reloaded config to a running driver. Only the
// roster is swapped live; other changed settings are reported as needing a
// restart, compared against the config the process started with.
func reloadHandler(driver *refresh.Driver, started *config.Config) func(*config.Config) {
	return func(next *config.Config) {
		r, err := next.Roster()
		if err != nil {
			slog.Warn("ignoring reloaded roster", "err", err)
			return
		}
		driver.SetRoster(r)

		var pending []string
		if next.RefreshInterval != started.RefreshInterval {
			pending = append(pending, "refresh_interval")
		}
		if next.Holidays != started.Holidays {
			pending = append(pending, "holidays")
		}
		if len(pending) > 0 {
			slog.Warn("config changes take effect after restart", "fields", strings.Join(pending, ","))
		}
	}
}

func newRosterCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Validate the roster and show each zone's current UTC offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(*g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}
			roster, err := cfg.Roster()
			if err != nil {
				return err
			}
			printRoster(cmd.OutOrStdout(), roster, time.Now())
			return nil
		},
	}
}

/* ---------------- output ---------------- */

func writeReport(w io.Writer, format string, report render.Report) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatText:
		return render.Text(w, report)
	case formatJSON:
		return render.JSON(w, report)
	case formatHTML:
		return render.HTML(w, report)
	default:
		return fmt.Errorf("unknown --format %q (text, json, html)", format)
	}
}

func printRoster(w io.Writer, roster countdown.Roster, now time.Time) {
	for i, c := range roster.Countries() {
		local := now.In(roster.Location(i))
		_, offset := local.Zone()
		dst := ""
		if local.IsDST() {
			dst = " DST"
		}
		fmt.Fprintf(w, "%s %-16s %-22s %s%s\n", c.Glyph(), c.Name, c.Timezone, fmtOffset(offset), dst)
	}
}

/* ---------------- helpers ---------------- */

// fmtOffset renders a zone offset in seconds as UTC±HH:MM.
func fmtOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

func loadConfig(path string) (*config.Config, error) {
	if strings.TrimSpace(path) == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// setupLogging installs the default logger. fallback is used when no
// --log-file is set. The returned func releases the log file.
func setupLogging(g globalFlags, fallback io.Writer) (func(), error) {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	if g.logFile == "" {
		logging.Setup(fallback, level)
		return func() {}, nil
	}

	w, err := logging.NewRotatingFileWriter(g.logFile)
	if err != nil {
		return nil, fmt.Errorf("open --log-file: %w", err)
	}
	logging.Setup(w, level)

	ctx, cancel := context.WithCancel(context.Background())
	go logging.RotateAtMidnight(ctx, w)
	return func() {
		cancel()
		_ = w.Close()
	}, nil
}

// fixedClock pins the one-shot report to a single instant.
type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func (fixedClock) NewTicker(d time.Duration) refresh.Ticker {
	return refresh.RealClock{}.NewTicker(d)
}
