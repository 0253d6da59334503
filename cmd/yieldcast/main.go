// Command yieldcast runs the crop yield prediction pipeline: it cleans the
// configured train and test tables, fits a gradient boosting regressor,
// predicts yields for the test rows and aggregates them into weighted
// cluster averages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/pipeline"
	"github.com/agroml/yieldcast/pkg/log"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yieldcast",
		Short: "Batch crop yield prediction over clustered field data",
		Long: `yieldcast reads the train and test tables named in the configuration,
cleans them, fits a gradient boosting regressor on the train table,
predicts the target for the test table and reports the area-weighted
average prediction per cluster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetProvider(log.NewZerologProvider(log.ToLogLevel(logLevel)))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return pipeline.New(cfg).Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the pipeline configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yieldcast: %v\n", err)
		os.Exit(1)
	}
}
