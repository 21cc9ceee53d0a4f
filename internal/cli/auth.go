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

type actorOutput struct {
	Authenticated bool                `json:"authenticated" yaml:"authenticated"`
	ID            string              `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string              `json:"name,omitempty" yaml:"name,omitempty"`
	Email         string              `json:"email,omitempty" yaml:"email,omitempty"`
	Role          entity.Role         `json:"role,omitempty" yaml:"role,omitempty"`
	Permissions   usecase.Permissions `json:"permissions" yaml:"permissions"`
}

func newActorOutput(a entity.Actor) actorOutput {
	out := actorOutput{Permissions: usecase.PermissionsFor(a)}
	if a == nil {
		return out
	}
	out.Authenticated = true
	out.ID = a.ActorID()
	out.Name = a.ActorName()
	out.Email = a.ActorEmail()
	out.Role = a.Role()
	return out
}

func printActor(cmd *cobra.Command, opts *RootOptions, a entity.Actor) error {
	out := newActorOutput(a)
	return render(cmd.OutOrStdout(), opts.Format, out, func(tw *tabwriter.Writer) {
		if !out.Authenticated {
			fmt.Fprintln(tw, "anônimo (sem sessão)")
			return
		}
		fmt.Fprintf(tw, "%s\t<%s>\t%s\t%s\n", out.Name, out.Email, out.Role, out.ID)
	})
}

func newLoginCommand(opts *RootOptions) *cobra.Command {
	var login, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entra com e-mail e senha (ou o login master)",
		Example: `  prodocctl login --login ana@prodoc.com --password segredo
  PRODOC_PASSWORD=segredo prodocctl login --login ana@prodoc.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PRODOC_PASSWORD")
			}
			if login == "" || password == "" {
				return NewExitError(ExitCommandError, "informe --login e --password (ou PRODOC_PASSWORD)")
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				actor, err := b.Workspace.Login(ctx, login, password)
				if err != nil {
					return err
				}
				return printActor(cmd, opts, actor)
			})
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "e-mail ou login master")
	cmd.Flags().StringVar(&password, "password", "", "senha")
	return cmd
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerra a sessão salva",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				if err := b.Workspace.Logout(ctx); err != nil {
					return err
				}
				return printActor(cmd, opts, b.Workspace.Actor())
			})
		},
	}
}

func newWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostra o ator atual e suas permissões",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				return printActor(cmd, opts, b.Workspace.Actor())
			})
		},
	}
}
