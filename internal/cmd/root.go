package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd 建立完整指令樹
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Flora storefront - cart, checkout and order tracking",
		Long: `storefront serves the shop API (catalog, cart, checkout, orders)
and provides CLI commands to inspect and manage stored orders.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default searches ./, ./deploy/, $HOME/.storefront/)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newOrdersCmd(opts),
		newProductsCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) loader() (*config.Loader, error) {
	l, err := config.NewLoader(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return l, nil
}

// CLI 指令的 log 寫到 stderr，避免混進輸出
func (o *rootOptions) app(ctx context.Context, logOut io.Writer) (*appcontext.ApplicationContext, error) {
	l, err := o.loader()
	if err != nil {
		return nil, err
	}
	cf := l.Config()
	log, err := newLogger(cf.Log.Level, logOut)
	if err != nil {
		return nil, err
	}
	return appcontext.NewApplicationContext(ctx, cf, log)
}

func newLogger(level string, w io.Writer) (*zerolog.Logger, error) {
	log, err := logger.New(level, w)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
