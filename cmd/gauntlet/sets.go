package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vytor/gauntlet/internal/catalog"
	"github.com/vytor/gauntlet/internal/models"
)

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets [dojo]",
		Short: "List the sets each dojo can draw from",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSetsCmd,
	}
}

func runSetsCmd(cmd *cobra.Command, args []string) error {
	dojos := models.DojoTypes
	if len(args) == 1 {
		dojo, err := models.ParseDojoType(args[0])
		if err != nil {
			return err
		}
		dojos = []models.DojoType{dojo}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	printSets(cmd.OutOrStdout(), a.Catalog, dojos)
	return nil
}

func printSets(out io.Writer, provider catalog.Provider, dojos []models.DojoType) {
	for _, dojo := range dojos {
		fmt.Fprintf(out, "%s\n", dojo)
		sets := provider.Sets(dojo)
		if len(sets) == 0 {
			fmt.Fprintln(out, "  (no sets)")
			continue
		}
		for _, s := range sets {
			if s.Group != "" {
				fmt.Fprintf(out, "  %-20s %4d  [%s]\n", s.Name, s.Size, s.Group)
				continue
			}
			fmt.Fprintf(out, "  %-20s %4d\n", s.Name, s.Size)
		}
	}
}
