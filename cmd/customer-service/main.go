package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/MikeMC777/customer-orders/internal/config"
	"github.com/MikeMC777/customer-orders/internal/store/pgstore"
	"github.com/MikeMC777/customer-orders/internal/store/sqlitestore"
)

// @title        Customer Orders API
// @version      1.0
// @description  CRUD over customers and their orders.
// @BasePath     /
func main() {
	app := &cli.App{
		Name:   "customer-service",
		Usage:  "customers and orders over HTTP",
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server (and gRPC health when GRPC_ADDR is set)",
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "create or drop the customers and orders tables",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "revert the Postgres migrations"},
				},
				Action: runMigrate,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("customer-service")
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.SetupLogging()
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

func runMigrate(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.DriverPostgres {
		if err := pgstore.Migrate(cfg.PostgresDSN, !c.Bool("down")); err != nil {
			return err
		}
		log.Printf("[migrate] postgres migrations applied (down=%t)", c.Bool("down"))
		return nil
	}

	if c.Bool("down") {
		return errors.New("--down is only supported for postgres")
	}
	s, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	log.Printf("[migrate] sqlite schema ready at %s", cfg.SQLitePath)
	return nil
}
