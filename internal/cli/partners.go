package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

func newPartnersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partners",
		Short: "Parceiros (lojistas)",
	}
	cmd.AddCommand(newPartnersListCommand(opts))
	cmd.AddCommand(newPartnersRegisterCommand(opts))
	return cmd
}

func printPartners(cmd *cobra.Command, opts *RootOptions, partners []entity.Partner) error {
	return render(cmd.OutOrStdout(), opts.Format, partners, func(tw *tabwriter.Writer) {
		if len(partners) == 0 {
			fmt.Fprintln(tw, "nenhum parceiro")
			return
		}
		fmt.Fprintln(tw, "ID\tNOME\tEMPRESA\tE-MAIL")
		for _, p := range partners {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Company, p.Email)
		}
	})
}

func newPartnersListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista parceiros (só operador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				partners, err := b.Workspace.ListPartners()
				if err != nil {
					return err
				}
				return printPartners(cmd, opts, partners)
			})
		},
	}
}

func newPartnersRegisterCommand(opts *RootOptions) *cobra.Command {
	var in usecase.RegisterPartnerInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Cadastra parceiro com acesso ao painel (só operador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("PRODOC_PARTNER_PASSWORD")
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				partner, err := b.Workspace.RegisterPartner(ctx, in)
				if err != nil {
					return err
				}
				return printPartners(cmd, opts, []entity.Partner{partner})
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "nome do responsável")
	cmd.Flags().StringVar(&in.Email, "email", "", "e-mail de acesso")
	cmd.Flags().StringVar(&in.Company, "company", "", "nome da loja")
	cmd.Flags().StringVar(&in.Password, "password", "", "senha inicial (ou PRODOC_PARTNER_PASSWORD)")
	return cmd
}
