package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/saneql/saneql/compiler"
	"github.com/saneql/saneql/config"
	"github.com/saneql/saneql/graph"
	"github.com/saneql/saneql/schema"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:  "saneql",
	Args: cobra.ExactArgs(1),
	Short: "Compile queries to SQL",
	Example: `saneql "lineitem.filter(l_shipdate < '1998-09-02'::date)"
saneql --schema myschema.yml "orders.orderby({o_orderdate.desc()}, limit := 10)"
saneql --describe "nation.join(region, n_regionkey = r_regionkey)"`,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileMode != "" {
			switch profileMode {
			case "cpu":
				defer profile.Start(profile.CPUProfile).Stop()
			case "memory":
				defer profile.Start(profile.MemProfile).Stop()
			case "trace":
				defer profile.Start(profile.TraceProfile).Stop()
			default:
				return fmt.Errorf("invalid profile mode: %s", profileMode)
			}
		}

		cfg, err := config.Read(configPath)
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		path := schemaFile
		if path == "" {
			path = cfg.SchemaFile
		}
		var catalog *schema.Schema
		if path == "" {
			catalog = schema.TPCH()
		} else {
			catalog, err = schema.Load(path)
			if err != nil {
				return fmt.Errorf("couldn't load schema: %w", err)
			}
		}

		result, err := compiler.Compile(catalog, args[0])
		if err != nil {
			return fmt.Errorf("couldn't compile query: %w", err)
		}

		if describe {
			return describeResult(cmd.OutOrStdout(), result)
		}
		if explain {
			if result.IsScalar {
				return fmt.Errorf("scalar queries have no plan to explain")
			}
			fmt.Fprintln(cmd.OutOrStdout(), graph.Show(graph.Describe(result.Table)).String())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.SQL)
		return nil
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

var describe bool
var explain bool
var schemaFile string
var configPath string
var profileMode string

func init() {
	rootCmd.Flags().BoolVar(&describe, "describe", false, "Describe query output columns.")
	rootCmd.Flags().BoolVar(&explain, "explain", false, "Print the query plan as graphviz.")
	rootCmd.Flags().StringVar(&schemaFile, "schema", "", "Path to the YAML table catalog.")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file.")
	rootCmd.Flags().StringVar(&profileMode, "profile", "", "Enable profiling: cpu, memory or trace.")
}
