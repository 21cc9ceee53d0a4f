package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

// Workspace é o que os comandos usam do usecase.Workspace.
type Workspace interface {
	Actor() entity.Actor
	Login(ctx context.Context, login, password string) (entity.Actor, error)
	Logout(ctx context.Context) error
	View() usecase.View
	Dashboard() usecase.DashboardStats
	SubmitLead(ctx context.Context, draft usecase.LeadDraft) (*entity.Lead, error)
	ConvertLead(ctx context.Context, leadID string) (*entity.Process, error)
	CreateProcess(ctx context.Context, draft usecase.ProcessDraft) (*entity.Process, error)
	SetProcessStatus(ctx context.Context, processID string, status entity.ProcessStatus) (*entity.Process, error)
	ListPartners() ([]entity.Partner, error)
	RegisterPartner(ctx context.Context, in usecase.RegisterPartnerInput) (entity.Partner, error)
	Reconcile(ctx context.Context) (int, error)
}

// Backend é uma conexão aberta com o store remoto e a sessão local.
type Backend struct {
	Workspace Workspace
	// RegisterOperator cria um operador com credenciais (fora do fluxo de sessão).
	RegisterOperator func(ctx context.Context, email, password, name string) (string, error)
	Close            func()
}

// Opener abre o backend; os testes trocam por um fake.
type Opener func(ctx context.Context, opts *RootOptions) (*Backend, error)

type RootOptions struct {
	Format  string // "text" | "json" | "yaml"
	EnvFile string
	open    Opener
}

var ValidFormats = []string{"text", "json", "yaml"}

func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = OpenApp
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "prodocctl",
		Short: "Painel PRODOC pela linha de comando",
		Long: `prodocctl opera o painel PRODOC: leads do formulário, processos,
parceiros e indicadores. A sessão fica salva no store local, então
um "login" vale para os comandos seguintes até o "logout".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato inválido %q: use um de %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de saída (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "arquivo .env (padrão: .env do diretório atual)")

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newWhoamiCommand(opts))
	cmd.AddCommand(newLeadsCommand(opts))
	cmd.AddCommand(newProcessesCommand(opts))
	cmd.AddCommand(newPartnersCommand(opts))
	cmd.AddCommand(newDashboardCommand(opts))
	cmd.AddCommand(newReconcileCommand(opts))
	cmd.AddCommand(newOperatorCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withBackend abre o backend, roda fn e fecha.
func withBackend(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, b *Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := opts.open(ctx, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "falha ao abrir o backend", err)
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(ctx, b)
}
