package testentry

import (
	"context"
	"database/sql"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/fx"
	_ "modernc.org/sqlite"

	"exusiai.dev/groupby/internal/app/appconfig"
	"exusiai.dev/groupby/internal/app/appcontext"
	"exusiai.dev/groupby/internal/model"
)

// TB is the part of testing.TB the helpers need.
type TB interface {
	zerolog.TestingLog
	Fatalf(format string, args ...any)
	Cleanup(func())
}

// DB opens a private in-memory SQLite database with the demo schema created.
func DB(t TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", "file:"+xid.New().String()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to a memory database would otherwise see its own empty database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*model.Cat)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("create cats table: %v", err)
	}
	return db
}

// Seed inserts cats into db.
func Seed(t TB, db *bun.DB, cats ...*model.Cat) {
	t.Helper()
	if len(cats) == 0 {
		return
	}
	if _, err := db.NewInsert().Model(&cats).Exec(context.Background()); err != nil {
		t.Fatalf("seed cats: %v", err)
	}
}

func Config() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			DevMode:        true,
			DefaultPerPage: 100,
		},
		AppContext: appcontext.Declare(appcontext.EnvCLI),
	}
}

// Populate starts an fx app over a fresh test database and fills targets from it.
func Populate(t TB, opts []fx.Option, targets ...any) {
	t.Helper()

	db := DB(t)
	// for testing, logger is too annoying. therefore, we use a NopLogger here
	all := []fx.Option{
		fx.NopLogger,
		fx.Supply(db, Config()),
	}
	all = append(all, opts...)
	all = append(all, fx.Populate(targets...))
	all = append(all, fx.Invoke(func() {
		log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
	}))

	app := fx.New(all...)
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start app: %v", err)
	}
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
}
