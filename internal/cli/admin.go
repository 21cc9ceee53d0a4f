package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Indicadores do painel para o ator atual",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				if b.Workspace.Actor() == nil {
					return NewExitError(ExitFailure, "faça login para ver o painel")
				}
				stats := b.Workspace.Dashboard()
				return render(cmd.OutOrStdout(), opts.Format, stats, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "Leads pendentes\t%d\n", stats.PendingLeads)
					fmt.Fprintf(tw, "Processos ativos\t%d\n", stats.ActiveProcesses)
					fmt.Fprintf(tw, "Concluídos\t%d\n", stats.FinishedProcesses)
					fmt.Fprintf(tw, "Com problema\t%d\n", stats.ProblemProcesses)
					fmt.Fprintf(tw, "Parceiros\t%d\n", stats.Partners)
				})
			})
		},
	}
}

func newReconcileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Marca como CONVERTED os leads PENDING que já têm processo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				fixed, err := b.Workspace.Reconcile(ctx)
				if err != nil {
					return err
				}
				out := map[string]int{"fixed": fixed}
				return render(cmd.OutOrStdout(), opts.Format, out, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "%d lead(s) reconciliado(s)\n", fixed)
				})
			})
		},
	}
}

func newOperatorCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Gestão de operadores",
	}

	var email, password, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Cria um operador com credenciais",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PRODOC_OPERATOR_PASSWORD")
			}
			if email == "" || password == "" || name == "" {
				return NewExitError(ExitCommandError, "informe --email, --name e --password (ou PRODOC_OPERATOR_PASSWORD)")
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				id, err := b.RegisterOperator(ctx, email, password, name)
				if err != nil {
					return WrapExitError(ExitFailure, "falha ao criar operador", err)
				}
				out := map[string]string{"id": id, "email": email}
				return render(cmd.OutOrStdout(), opts.Format, out, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "operador %s criado (%s)\n", email, id)
				})
			})
		},
	}
	create.Flags().StringVar(&email, "email", "", "e-mail de acesso")
	create.Flags().StringVar(&name, "name", "", "nome")
	create.Flags().StringVar(&password, "password", "", "senha (ou PRODOC_OPERATOR_PASSWORD)")
	cmd.AddCommand(create)
	return cmd
}

// migrate: abrir o backend já aplica o schema.
func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o schema no Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				fmt.Fprintln(cmd.OutOrStdout(), "schema aplicado")
				return nil
			})
		},
	}
}
