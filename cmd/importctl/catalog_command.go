package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediabrief/internal/catalog"
)

func newCatalogCommand(catalogPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse publishers and placements",
	}

	var channel, state, publisher string
	var asJSON bool

	publishersCmd := &cobra.Command{
		Use:   "publishers",
		Short: "List publishers selling a channel in a state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(*catalogPath)
			if err != nil {
				return err
			}
			list := cat.Publishers(channel, state)
			if asJSON {
				return writeJSON(cmd, list)
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{p.Code, p.Name, strings.Join(p.Channels, ", "), strings.Join(p.States, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Name", "Channels", "States"}, rows, nil))
			return nil
		},
	}
	publishersCmd.Flags().StringVar(&channel, "channel", "", "Channel code")
	publishersCmd.Flags().StringVar(&state, "state", "", "State code")
	publishersCmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	_ = publishersCmd.MarkFlagRequired("channel")
	_ = publishersCmd.MarkFlagRequired("state")

	placementsCmd := &cobra.Command{
		Use:   "placements",
		Short: "List a publisher's placements for a channel in a state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(*catalogPath)
			if err != nil {
				return err
			}
			list := cat.Placements(channel, state, publisher)
			if asJSON {
				return writeJSON(cmd, list)
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				size := p.Dimensions
				if size == "" {
					size = p.PhysicalSize
				}
				rows = append(rows, []string{p.Code, p.Name, p.Format, size, p.FileFormat, p.SpotLength})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Name", "Format", "Size", "File", "Spot"}, rows, nil))
			return nil
		},
	}
	placementsCmd.Flags().StringVar(&channel, "channel", "", "Channel code")
	placementsCmd.Flags().StringVar(&state, "state", "", "State code")
	placementsCmd.Flags().StringVar(&publisher, "publisher", "", "Publisher code")
	placementsCmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	_ = placementsCmd.MarkFlagRequired("channel")
	_ = placementsCmd.MarkFlagRequired("state")
	_ = placementsCmd.MarkFlagRequired("publisher")

	cmd.AddCommand(publishersCmd, placementsCmd)
	return cmd
}
