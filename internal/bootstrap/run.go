package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	planinadapter "planote/internal/modules/plan/adapter/in"
	"planote/internal/platform/prefs"
	uiapp "planote/internal/ui/app"
)

// prefsFile persists preferences to the configured path.
type prefsFile string

func (p prefsFile) Save(v prefs.Prefs) error { return prefs.Save(string(p), v) }

// RunTUI blocks until the terminal UI exits. The database watcher runs
// alongside so writes from other processes show up live; preferences and the
// last page are saved on the way out.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	binder := planinadapter.NewDataBinder(app.plan, app.Log.Named("binder"))
	binder.Start(ctx)
	defer binder.Close()

	store := prefsFile(app.Config.PrefsPath)
	model, err := uiapp.NewModel(uiapp.Deps{
		Context:    ctx,
		Config:     app.Config,
		Prefs:      prefs.Load(app.Config.PrefsPath),
		PrefsStore: store,
		Binder:     binder,
		Plan:       app.PlanCLI,
		Notes:      app.notes,
		Server:     app.Server,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.watcher.Watch(gctx) })
	g.Go(func() error {
		defer cancel()
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))
		final, err := program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run tui: %w", err)
		}
		if m, ok := final.(uiapp.Model); ok {
			if err := store.Save(m.Prefs()); err != nil {
				app.Log.Warn("save prefs", "error", err)
			}
		}
		return app.Server.Stop(context.Background())
	})
	return g.Wait()
}

// RunServer serves the HTTP API until ctx is done.
func RunServer(ctx context.Context, app *App) error {
	return app.Server.Serve(ctx)
}
