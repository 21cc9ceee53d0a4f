package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

func newProcessesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "processes",
		Aliases: []string{"proc"},
		Short:   "Processos em acompanhamento",
	}
	cmd.AddCommand(newProcessesListCommand(opts))
	cmd.AddCommand(newProcessesCreateCommand(opts))
	cmd.AddCommand(newProcessesSetStatusCommand(opts))
	cmd.AddCommand(newStatusesCommand(opts))
	return cmd
}

func printProcesses(cmd *cobra.Command, opts *RootOptions, processes []*entity.Process) error {
	return render(cmd.OutOrStdout(), opts.Format, processes, func(tw *tabwriter.Writer) {
		if len(processes) == 0 {
			fmt.Fprintln(tw, "nenhum processo")
			return
		}
		fmt.Fprintln(tw, "ID\tCLIENTE\tPLACA\tSTATUS\tPROGRESSO\tPARCEIRO\tATUALIZADO")
		for _, p := range processes {
			partner := p.PartnerID
			if partner == "" {
				partner = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
				p.ID, p.CustomerName, p.Plate, p.Status.Label(), p.Status.Progress(), partner, p.UpdatedAt.Format("02/01/2006 15:04"))
		}
	})
}

func newProcessesListCommand(opts *RootOptions) *cobra.Command {
	var query, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista processos visíveis, com busca por placa/nome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				processes := usecase.FilterProcesses(b.Workspace.View().Processes, query, usecase.ParseStatusFilter(status))
				return printProcesses(cmd, opts, processes)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "trecho da placa ou do nome")
	cmd.Flags().StringVar(&status, "status", "ALL", "ALL|ACTIVE|FINISHED|PROBLEM")
	return cmd
}

func newProcessesCreateCommand(opts *RootOptions) *cobra.Command {
	var draft usecase.ProcessDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Cria um processo manual (operador ou parceiro)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				process, err := b.Workspace.CreateProcess(ctx, draft)
				if err != nil {
					return err
				}
				return printProcesses(cmd, opts, []*entity.Process{process})
			})
		},
	}
	cmd.Flags().StringVar(&draft.CustomerName, "customer", "", "nome do cliente")
	cmd.Flags().StringVar(&draft.Plate, "plate", "", "placa do veículo")
	cmd.Flags().StringArrayVar(&draft.Services, "service", nil, "serviço do catálogo (repetível)")
	cmd.Flags().StringVar(&draft.PartnerID, "partner", "", "parceiro responsável (só operador)")
	return cmd
}

func newProcessesSetStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <process-id> <status>",
		Short: "Altera o status (código ou rótulo)",
		Example: `  prodocctl processes set-status PROC-1234 FILED
  prodocctl processes set-status PROC-1234 "Protocolado no DETRAN"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := entity.ParseProcessStatus(args[1])
			if err != nil {
				return WrapExitError(ExitFailure, "status inválido", err)
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				process, err := b.Workspace.SetProcessStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				return printProcesses(cmd, opts, []*entity.Process{process})
			})
		},
	}
}

type statusOutput struct {
	Code     entity.ProcessStatus `json:"code" yaml:"code"`
	Label    string               `json:"label" yaml:"label"`
	Progress int                  `json:"progress" yaml:"progress"`
}

// statuses não precisa de backend.
func newStatusesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Lista os status possíveis",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []statusOutput
			for _, s := range entity.ProcessStatuses() {
				out = append(out, statusOutput{Code: s, Label: s.Label(), Progress: s.Progress()})
			}
			return render(cmd.OutOrStdout(), opts.Format, out, func(tw *tabwriter.Writer) {
				for _, s := range out {
					fmt.Fprintf(tw, "%s\t%s\t%d%%\n", s.Code, s.Label, s.Progress)
				}
			})
		},
	}
}
