package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	noteinadapter "planote/internal/modules/note/adapter/in"
	noteoutadapter "planote/internal/modules/note/adapter/out"
	noteservice "planote/internal/modules/note/service"
	noteusecase "planote/internal/modules/note/usecase"
	planinadapter "planote/internal/modules/plan/adapter/in"
	planoutadapter "planote/internal/modules/plan/adapter/out"
	planservice "planote/internal/modules/plan/service"
	planusecase "planote/internal/modules/plan/usecase"
	"planote/internal/platform/clock"
	"planote/internal/platform/config"
	"planote/internal/platform/id"
	"planote/internal/platform/live"
	"planote/internal/platform/logging"
	"planote/internal/platform/tx"
)

// App holds the wired modules for one process.
type App struct {
	Config  config.Config
	Log     hclog.Logger
	PlanCLI planinadapter.CLIHandler
	NoteCLI noteinadapter.CLIHandler
	Server  *Server

	plan    *planusecase.Interactor
	notes   *noteusecase.Interactor
	watcher *planoutadapter.DBWatcher
	closers []io.Closer
}

// New opens the database and wires every module. A nil log writes to the
// configured log file.
func New(cfg config.Config, log hclog.Logger) (*App, error) {
	var closers []io.Closer
	if log == nil {
		fileLog, closer, err := logging.New(cfg)
		if err != nil {
			return nil, err
		}
		log = fileLog
		closers = append(closers, closer)
	}
	clk := clock.SystemClock{}
	hub := live.NewHub()

	store, err := planoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("open plan store: %w", err)
	}
	closers = append(closers, store)
	txm := tx.SQLManager{DB: store.DB()}

	planSvc := planservice.NewPlanService(store, store, txm, hub, log.Named("plan"))
	weekSvc := planservice.NewWeekService(store, txm, hub, log.Named("week"))
	planUC := planusecase.NewInteractor(planSvc, weekSvc, hub, clk)

	noteStore, err := noteoutadapter.NewSQLiteNoteStore(context.Background(), store.DB())
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("open note store: %w", err)
	}
	noteSvc := noteservice.NewNoteService(noteStore, noteoutadapter.MarkdownExporter{}, id.UUID{}, clk, hub, log.Named("note"))
	noteUC := noteusecase.NewInteractor(noteSvc, hub)

	return &App{
		Config:  cfg,
		Log:     log,
		PlanCLI: planinadapter.NewCLIHandler(planUC, planUC),
		NoteCLI: noteinadapter.NewCLIHandler(noteUC),
		Server:  NewServer(cfg.Server.Addr, planinadapter.NewHTTPHandler(planUC, log).Router(), log),
		plan:    planUC,
		notes:   noteUC,
		watcher: planoutadapter.NewDBWatcher(cfg.DBPath, hub, log.Named("watch")),
		closers: closers,
	}, nil
}

// Close releases the database and the log file.
func (a *App) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
