package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/openclaw/go-skills/pkg/presenter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered skills",
	Long:  `List all registered skills with their names, versions, and descriptions.`,
	Run: func(_ *cobra.Command, _ []string) {
		listSkills()
	},
}

func init() {
	rootCmd.AddCommand(withTracing(listCmd))
}

func listSkills() {
	infos := builtinRegistry().ListSkills()

	if len(infos) == 0 {
		presenter.Info("No skills registered")
		return
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-------\t-----------")

	for _, info := range infos {
		description := info.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Version, description)
	}
	tw.Flush()
}
