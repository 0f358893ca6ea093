package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/frontdesk-api/pkg/config"
	"github.com/jhoicas/frontdesk-api/pkg/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "frontdesk",
	Short: "Herramientas de operación de la API de recepción",
	Long: `frontdesk agrupa las tareas de operación que no pasan por HTTP:
aplicar migraciones, ejecutar un barrido de opciones o recordatorios a mano,
importar el catálogo de habitaciones y dar de alta agentes.

La configuración se lee igual que en la API (variables de entorno y .env).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setup carga configuración y logger para un subcomando.
func setup(component string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	l := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name})
	return cfg, l.Component(component), nil
}
