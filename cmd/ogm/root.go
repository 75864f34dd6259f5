package main

import (
	"github.com/spf13/cobra"

	"ogm/catalog"
	"ogm/logging"
	"ogm/model"
	"ogm/model/decl"
)

// Version 构建时注入
var Version = "0.1.0"

// options 全局参数
type options struct {
	file      string
	logLevel  string
	cacheSize int
}

// env 子命令共享的运行环境，在 PersistentPreRunE 中构建
type env struct {
	registry *model.Registry
	catalog  *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	e := &env{}

	root := &cobra.Command{
		Use:   "ogm",
		Short: "Graph association descriptors and Cypher fragments",
		Long: `ogm loads node and relationship classes from a YAML declaration file,
then renders the Cypher relationship fragment of any association or describes
the associations declared on each class.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			logging.SetLogger(logging.NewStdLoggerTo(cmd.ErrOrStderr(), "[ogm] ", logging.ParseLevel(opts.logLevel)))

			e.registry = model.NewRegistry()
			if err := decl.LoadFile(opts.file, e.registry); err != nil {
				return err
			}
			e.catalog = catalog.New(e.registry, catalog.Config{CacheSize: opts.cacheSize})
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "ogm.yaml", "model declaration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.cacheSize, "cache-size", 256, "catalog cache size")

	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newRenderCmd(e))
	root.AddCommand(newDescribeCmd(e))
	root.AddCommand(newTypesCmd(e))
	root.AddCommand(newSnapshotCmd(e))
	return root
}
