package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentic-social/agentic-social/app/core"
	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/logic/v1/process"
	"github.com/agentic-social/agentic-social/pkg/security"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "config file path, empty to read from ENV")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "share assist http service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	defer app.Close()

	p := process.NewProcess(app)
	p.Start()
	defer p.Stop()

	return serve(app)
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "run scheduled jobs only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	defer app.Close()

	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")
	sigs := make(chan os.Signal, 1)
	// 监听 os.Interrupt (Ctrl+C) 和 syscall.SIGTERM (kill)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	// 阻塞等待信号
	<-sigs
	p.Stop()
	return nil
}

type SummaryOptions struct {
	Options
	PostID   int64
	Platform string
	Length   int
}

func NewSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "print the share summary of a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			defer app.Close()

			ctx := v1.WithTokenClaim(cmd.Context(), security.TokenClaims{Name: "cli", Role: types.ROLE_ADMINISTRATOR})
			res, err := v1.NewSummaryLogic(ctx, app).Generate(opts.PostID, types.ParsePlatform(opts.Platform), opts.Length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().Int64Var(&opts.PostID, "post", 0, "post id")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "default | linkedin | twitter")
	cmd.Flags().IntVar(&opts.Length, "length", 0, "max summary length, 0 for the platform default")
	cmd.MarkFlagRequired("post")
	return cmd
}

// NewPurgeCommand 卸载时清理所有数据
func NewPurgeCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "remove share history, post share settings and options",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			defer app.Close()
			return Purge(cmd.Context(), app)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Purge(ctx context.Context, app *core.Core) error {
	if err := app.History().Clear(ctx); err != nil {
		return err
	}
	if err := app.Store().PostShareMetaStore().Clear(ctx); err != nil {
		return err
	}
	if err := app.Store().SettingsStore().Clear(ctx); err != nil {
		return err
	}
	slog.Info("all share data purged")
	return nil
}
