package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ByLCY/dotmatrix/config"
	"github.com/ByLCY/dotmatrix/observability"
)

// app 保存一次命令执行期间加载的配置。
type app struct {
	cfgFile string
	cfg     *config.Config
}

// newRootCmd 构建完整的命令树；每次调用返回互不共享状态的新实例。
func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dotmatrix",
		Short:         "dotmatrix lays out documents for dot-matrix printers.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := config.Configure(v, a.cfgFile); err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("configuration loaded",
				zap.String("version", Version),
				zap.String("config", v.ConfigFileUsed()))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./dotmatrix.yaml or ~/.config/dotmatrix/dotmatrix.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newRenderCmd(a), newMeasureCmd(a), newVersionCmd())
	return root
}

// Execute runs the CLI and exits with status 1 on failure.
func Execute() {
	defer observability.Sync()
	if err := newRootCmd().Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(1)
	}
}
