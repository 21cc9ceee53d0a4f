package cli

import (
	"context"

	"github.com/xavierca1/prodoc/internal/app"
	"github.com/xavierca1/prodoc/internal/config"
)

// OpenApp carrega a config, monta o app e resolve o ator da sessão salva.
func OpenApp(ctx context.Context, opts *RootOptions) (*Backend, error) {
	var files []string
	if opts.EnvFile != "" {
		files = append(files, opts.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Workspace.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return &Backend{
		Workspace:        a.Workspace,
		RegisterOperator: a.Auth.RegisterOperator,
		Close:            a.Close,
	}, nil
}
