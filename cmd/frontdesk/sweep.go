package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/frontdesk-api/internal/application/sweep"
	"github.com/jhoicas/frontdesk-api/internal/bootstrap"
)

var sweepCmd = &cobra.Command{
	Use:       "sweep [options|reminders]",
	Short:     "Ejecuta una pasada del barrido de opciones vencidas o de recordatorios",
	Long:      `Ejecuta una sola pasada sobre todas las reservas, igual que el scheduler de la API.`,
	Example:   "  frontdesk sweep options\n  frontdesk sweep reminders",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"options", "reminders"},
	RunE:      runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("sweep")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	var rep sweep.Report
	switch args[0] {
	case "options":
		rep = deps.Sweeper.ExpireOptions(ctx)
	case "reminders":
		rep = deps.Sweeper.FireReminders(ctx)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "revisadas: %d, con cambios: %d, fallidas: %d, avisos: %d\n",
		rep.Scanned, len(rep.Changed), len(rep.Failed), rep.Notified)
	if len(rep.Failed) > 0 {
		return fmt.Errorf("%d reserva(s) no se pudieron procesar", len(rep.Failed))
	}
	return nil
}
