// Command bifrostql is dev/ops tooling for the BifrostQL module: it
// introspects a live connection and reports the canonical schema.Model
// BifrostQL would build from it. It is not the HTTP/GraphQL transport
// server, which spec.md §1 places out of scope. Grounded on cmd/cmd.go's
// cobra root command and cmd/cmd_schema.go's database-introspection
// subcommand.
package main

import (
	"github.com/spf13/cobra"

	"github.com/standardbeagle/BifrostQL-sub002/internal/xlog"
)

var (
	version = "dev"
	commit  = "none"
)

var cfgPath string

func main() {
	logger := xlog.New(false)
	defer logger.Sync() //nolint:errcheck

	cobra.EnableCommandSorting = false
	root := &cobra.Command{
		Use:   "bifrostql",
		Short: "BifrostQL schema introspection and diagnostic tooling",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "./bifrostql.yaml", "path to config file")

	root.AddCommand(newSchemaCmd(logger))
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		logger.Sugar().Fatalf("%s", err)
	}
}
