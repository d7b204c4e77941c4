package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bfxledger/internal/catalog"
)

func newPatternsCommand(configPath *string) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the classification patterns in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			cat, err := cfg.Catalog()
			if err != nil {
				return fmt.Errorf("building catalog: %w", err)
			}
			return printPatterns(cmd.OutOrStdout(), cat, showSource)
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "include the pattern source")

	return cmd
}

func printPatterns(out io.Writer, cat *catalog.Catalog, showSource bool) error {
	shadowedBy := make(map[string]string)
	for _, s := range cat.Shadowed() {
		shadowedBy[s.Type] = s.By
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "#\tTYPE\tGROUPS\tNOTE"
	if showSource {
		header += "\tPATTERN"
	}
	fmt.Fprintln(tw, header)

	i := 0
	cat.Each(func(e catalog.Entry) bool {
		i++
		groups := strings.Join(e.Groups(), ",")
		if groups == "" {
			groups = "-"
		}
		note := ""
		if by, ok := shadowedBy[e.Type]; ok {
			note = "shadowed by " + by
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s", i, e.Type, groups, note)
		if showSource {
			line += "\t" + e.Source
		}
		fmt.Fprintln(tw, line)
		return true
	})

	return tw.Flush()
}
