// cli — командная строка админки: `serve` поднимает HTTP-сервер дашборда,
// остальные команды выполняют одно действие модератора и завершаются.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/kickoffzone-admin/internal/config"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/metrics"
	"github.com/pribylovaa/kickoffzone-admin/internal/remote"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var _ lifecycle.Remote = (*remote.Client)(nil)

// RemoteFactory строит клиента удалённого API по конфигурации.
type RemoteFactory func(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (lifecycle.Remote, error)

func defaultRemote(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (lifecycle.Remote, error) {
	return remote.New(cfg.Remote, log, remote.WithMetrics(m))
}

// app — общее состояние одного запуска CLI.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	output     string
	yes        bool
	verbose    bool

	newRemote RemoteFactory
	clock     func() time.Time

	cfg  *config.Config
	log  *slog.Logger
	ctrl *lifecycle.Controller

	// reported — ошибка уже показана пользователю через Notifier.
	reported bool
}

// Option настраивает CLI (используется в тестах).
type Option func(*app)

// WithIO подменяет stdin/stdout/stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}

// WithRemoteFactory подменяет клиента удалённого API.
func WithRemoteFactory(f RemoteFactory) Option {
	return func(a *app) {
		if f != nil {
			a.newRemote = f
		}
	}
}

// WithClock подменяет часы контроллера.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.clock = now }
}

func newApp(opts ...Option) *app {
	a := &app{
		in:        os.Stdin,
		out:       os.Stdout,
		errOut:    os.Stderr,
		newRemote: defaultRemote,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// NewRootCmd возвращает корневую команду.
func NewRootCmd(opts ...Option) *cobra.Command {
	return newApp(opts...).rootCmd()
}

// Execute запускает CLI и возвращает код выхода процесса.
func Execute(ctx context.Context, args []string, opts ...Option) int {
	a := newApp(opts...)

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		// Отказ в подтверждении не считается ошибкой.
		if errors.Is(err, lifecycle.ErrDeclined) {
			return 0
		}
		if !a.reported {
			fmt.Fprintln(a.errOut, "error:", err)
		}
		return 1
	}

	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kickoffzone-admin",
		Short:         "KickOffZone content moderation",
		Long:          "Review, approve, schedule and publish KickOffZone news and birthday posts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "output format: table|json|yaml")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.scheduledCmd())
	root.AddCommand(a.missingImagesCmd())
	for _, action := range []string{"approve", "reject", "publish", "delete"} {
		root.AddCommand(a.actionCmd(action))
	}
	root.AddCommand(a.cancelScheduleCmd())
	root.AddCommand(a.bulkCmd())
	root.AddCommand(a.fetchNewsCmd())
	root.AddCommand(a.generateBirthdaysCmd())
	root.AddCommand(a.postCmd())
	root.AddCommand(a.birthdayDirectCmd())
	root.AddCommand(a.uploadVideoCmd())
	root.AddCommand(a.setImageCmd())
	root.AddCommand(a.countdownCmd())

	return root
}

// setup загружает конфигурацию и логгер. Для serve логгер пишет в stdout,
// для остальных команд — в stderr и только ошибки (с -v — всё): итог действия печатает notify.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.output {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q: must be table, json or yaml", a.output)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cmd.Name() == "serve" {
		a.log = setupLogger(cfg.Env, a.out, nil)
		return nil
	}

	level := slog.LevelError
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = setupLogger(cfg.Env, a.errOut, &level)

	return nil
}

// setupLogger — text для local, JSON для dev/prod. level переопределяет уровень окружения.
func setupLogger(env string, w io.Writer, level *slog.Level) *slog.Logger {
	lvl := slog.LevelDebug
	if env == envProd {
		lvl = slog.LevelInfo
	}
	if level != nil {
		lvl = *level
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch env {
	case envDev, envProd:
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// controllerOptions — общие параметры контроллера из конфигурации.
func (a *app) controllerOptions(m *metrics.Metrics) ([]lifecycle.Option, error) {
	loc, err := a.cfg.Schedule.Location()
	if err != nil {
		return nil, fmt.Errorf("schedule timezone: %w", err)
	}

	opts := []lifecycle.Option{
		lifecycle.WithLogger(a.log),
		lifecycle.WithLocation(loc),
		lifecycle.WithPolicy(schedule.Policy{
			MinLead: a.cfg.Schedule.MinLead,
			SameDay: a.cfg.Schedule.SameDay(),
		}),
		lifecycle.WithBulkConcurrency(a.cfg.Bulk.Concurrency),
		lifecycle.WithMetrics(m),
	}
	if a.clock != nil {
		opts = append(opts, lifecycle.WithClock(a.clock))
	}

	return opts, nil
}

// controller — контроллер для разовой команды: подтверждение через stdin, итог в stderr.
func (a *app) controller() (*lifecycle.Controller, error) {
	if a.ctrl != nil {
		return a.ctrl, nil
	}

	rm, err := a.newRemote(a.cfg, a.log, nil)
	if err != nil {
		return nil, err
	}

	opts, err := a.controllerOptions(nil)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		lifecycle.WithConfirmer(lifecycle.ConfirmFunc(a.confirm)),
		lifecycle.WithNotifier(lifecycle.NotifyFunc(a.notify)),
	)

	a.ctrl = lifecycle.New(rm, store.New(), opts...)

	return a.ctrl, nil
}

// notify печатает итог действия. Ошибка, показанная здесь, повторно не выводится.
func (a *app) notify(o lifecycle.Outcome) {
	if !o.OK() {
		a.reported = true
	}
	if o.Message != "" {
		fmt.Fprintln(a.errOut, o.Message)
	}
}
