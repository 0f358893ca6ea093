package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/bootstrap"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

var createAgentCmd = &cobra.Command{
	Use:     "create-agent",
	Short:   "Da de alta un agente de recepción",
	Long:    `Crea el primer manager (o cualquier agente) sin pasar por la API.`,
	Example: `  frontdesk create-agent --email jefa@hotel.be --password 'secreto123' --role manager`,
	RunE:    runCreateAgent,
}

func init() {
	rootCmd.AddCommand(createAgentCmd)
	createAgentCmd.Flags().String("email", "", "Email del agente")
	createAgentCmd.Flags().String("password", "", "Contraseña (mínimo 8 caracteres)")
	createAgentCmd.Flags().String("name", "", "Nombre a mostrar")
	createAgentCmd.Flags().String("role", entity.RoleReceptionist, "manager | receptionist")
	_ = createAgentCmd.MarkFlagRequired("email")
	_ = createAgentCmd.MarkFlagRequired("password")
}

func runCreateAgent(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup("agents")
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")

	ctx := cmd.Context()
	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	agent, err := deps.Auth.RegisterAgent(ctx, dto.CreateAgentRequest{
		Email: email, Password: password, Name: name, Role: role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "agente %s creado (%s, id %s)\n", agent.Email, agent.Role, agent.ID)
	return nil
}
