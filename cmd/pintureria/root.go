package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pintureria-api/internal/bootstrap"
	"github.com/jhoicas/pintureria-api/pkg/config"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

// app estado compartido por los subcomandos; se llena en PersistentPreRunE.
type app struct {
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pintureria",
		Short:         "Herramientas de operación de la API de la pinturería",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "archivo .env a cargar antes de leer la configuración")

	root.AddCommand(
		newMigrateCmd(a),
		newLedgerCmd(a),
		newSalesCmd(a),
	)
	return root
}

func (a *app) load() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("cargar %s: %w", a.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "pintureria-cli"})
	return nil
}

// storage abre PostgreSQL. Los comandos de la CLI no tienen sentido sobre el store en memoria.
func (a *app) storage(ctx context.Context) (*bootstrap.Storage, error) {
	if a.cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("la CLI requiere STORAGE_DRIVER=%s", config.StorageDriverPostgres)
	}
	return bootstrap.OpenStorage(ctx, a.cfg, a.log)
}
