package app

import (
	"context"
	"database/sql"
	"fmt"

	"axis/internal/config"
	"axis/internal/dashboard"
	"axis/internal/db"
	"axis/internal/events"
	"axis/internal/gantt"
	"axis/internal/kv"
	"axis/internal/migrate"
)

// App holds everything a command or server handler needs: the open
// database, the loaded config, and the two services built on top.
type App struct {
	Workspace string
	DB        *sql.DB
	Cfg       *config.Config
	KV        kv.Store
	Events    events.Writer
	Gantt     *gantt.Store
	Dashboard *dashboard.Service
}

// Open wires up a workspace: opens the database, runs migrations, loads
// axis.yml (defaults if absent) and constructs the services.
func Open(ctx context.Context, workspace string) (*App, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store := kv.Store{DB: conn}
	writer := events.Writer{DB: conn}
	return &App{
		Workspace: workspace,
		DB:        conn,
		Cfg:       cfg,
		KV:        store,
		Events:    writer,
		Gantt:     gantt.New(ctx, store, writer),
		Dashboard: dashboard.New(store, writer, cfg),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
