package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/report"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - solves the game, prints the root report and plays the configured self-play series.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return Run(ctx, logger, conf, os.Stdout)
}

// Run - the body of RunApp, writing the report to out.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, out io.Writer) error {
	log := logger.With("component", "app")

	table, closeTable, err := newTable(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeTable(); err != nil {
			log.Error("could not release memo table", "error", err)
		}
	}()

	log.Info("Solving", "workers", conf.Workers, "memo", conf.Memo.Backend)

	rootReport, err := solver.NewDriver(logger, table, conf.Workers).Run(ctx)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	if redisTable, ok := table.(*repository.MemoTable); ok {
		if err = redisTable.Err(); err != nil {
			log.Warn("memo table degraded during solve", "error", err)
		}
	}

	printer := report.NewPrinter(out, !conf.Report.NoColor)
	if err = printer.Root(rootReport); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}

	if conf.Arena.Games == 0 {
		return nil
	}

	bot := service.NewBotService(solver.New(table), nil)
	tally, err := usecase.NewArena(logger, bot).Play(ctx, conf.Arena.Games)
	if err != nil {
		return fmt.Errorf("self-play failed: %w", err)
	}

	if err = printer.Tally(tally); err != nil {
		return fmt.Errorf("could not print tally: %w", err)
	}

	return nil
}

// newTable - builds the memo for one solve and the function releasing it.
func newTable(ctx context.Context, logger *slog.Logger, conf *config.Config) (solver.Table, func() error, error) {
	if conf.Memo.Backend != config.MemoRedis {
		if conf.Workers > 1 {
			return solver.NewSyncTable(), noop, nil
		}
		return solver.NewMemoryTable(), noop, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	client, err := repository.Connect(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	table := repository.NewMemoTable(ctx, logger, client, conf.Redis.TTL)

	release := func() error {
		// ctx may be canceled by now; the namespace still has to go
		closeErr := table.Close(context.WithoutCancel(ctx))
		return errors.Join(closeErr, client.Close())
	}

	return table, release, nil
}

func noop() error {
	return nil
}
