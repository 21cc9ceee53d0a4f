package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

func newLeadsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Leads do formulário público",
	}
	cmd.AddCommand(newLeadsListCommand(opts))
	cmd.AddCommand(newLeadsSubmitCommand(opts))
	cmd.AddCommand(newLeadsConvertCommand(opts))
	return cmd
}

func printLeads(cmd *cobra.Command, opts *RootOptions, leads []*entity.Lead) error {
	return render(cmd.OutOrStdout(), opts.Format, leads, func(tw *tabwriter.Writer) {
		if len(leads) == 0 {
			fmt.Fprintln(tw, "nenhum lead")
			return
		}
		fmt.Fprintln(tw, "ID\tNOME\tPLACA\tSTATUS\tRECEBIDO\tWHATSAPP")
		for _, l := range leads {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.Name, l.Plate, l.Status, l.CreatedAt.Format("02/01/2006 15:04"), l.WhatsAppLink())
		}
	})
}

func newLeadsListCommand(opts *RootOptions) *cobra.Command {
	var pendingOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista os leads visíveis (só operador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				leads := b.Workspace.View().Leads
				if pendingOnly {
					var pending []*entity.Lead
					for _, l := range leads {
						if l.Status == entity.LeadPending {
							pending = append(pending, l)
						}
					}
					leads = pending
				}
				return printLeads(cmd, opts, leads)
			})
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "só leads PENDING")
	return cmd
}

func newLeadsSubmitCommand(opts *RootOptions) *cobra.Command {
	var draft usecase.LeadDraft
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Registra um lead como se viesse do formulário",
		Example: `  prodocctl leads submit --name "Ana" --whatsapp 11999998888 --plate ABC1D23 \
    --service "Débitos e multas" --service "Consultas veiculares"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				lead, err := b.Workspace.SubmitLead(ctx, draft)
				if err != nil {
					return err
				}
				return printLeads(cmd, opts, []*entity.Lead{lead})
			})
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "nome do cliente")
	cmd.Flags().StringVar(&draft.WhatsApp, "whatsapp", "", "telefone com DDD")
	cmd.Flags().StringVar(&draft.Plate, "plate", "", "placa do veículo")
	cmd.Flags().StringVar(&draft.Renavam, "renavam", "", "RENAVAM (opcional)")
	cmd.Flags().StringArrayVar(&draft.Services, "service", nil, "serviço do catálogo (repetível); opções: "+strings.Join(entity.ServiceCatalog, "; "))
	cmd.Flags().StringVar(&draft.Description, "description", "", "descrição livre")
	return cmd
}

func newLeadsConvertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <lead-id>",
		Short: "Converte um lead PENDING em processo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				process, err := b.Workspace.ConvertLead(ctx, args[0])
				if err != nil {
					return err
				}
				if process == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "lead %s já estava convertido\n", args[0])
					return nil
				}
				return printProcesses(cmd, opts, []*entity.Process{process})
			})
		},
	}
}
