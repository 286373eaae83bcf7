package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/adminapi"
	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/webserver"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Flower shop storefront and content admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to storefront.yml")

	rootCmd.AddCommand(
		serveCmd(&configFile),
		initdbCmd(&configFile),
		exportCmd(&configFile),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(configFile string) (*app.Application, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	a := app.NewApplication(cfg)
	if err := a.Init(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Release()

			adminapi.Init()
			srv := webserver.NewAdminServer(a)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(ctx)
			})
			g.Go(func() error {
				<-ctx.Done()
				zap.S().Info("shutting down")
				return nil
			})
			return g.Wait()
		},
	}
}

func initdbCmd(configFile *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Reset every stored collection and setting to its default",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("initdb erases all stored content, pass --yes to confirm")
			}
			a, err := newApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Release()
			a.InitDb()
			fmt.Println("store reset to defaults")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func exportCmd(configFile *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export [messages|results]",
		Short:     "Export contact messages or quiz results as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"messages", "results"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Release()

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer f.Close()
				w = f
			}
			if args[0] == "messages" {
				return a.ExportContactMessages(w)
			}
			return a.ExportQuizResults(w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("storefront %s (%s)\n", version, commit)
		},
	}
}
