//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions in the dataset",
	Long: `List the distinct regions of the dataset in the order they first
appear. These are the values accepted by 'report --region' and the API's
region parameter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		svc, err := newService(nil)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		regions, err := svc.Regions(ctx)
		if err != nil {
			return err
		}
		for _, r := range regions {
			cmd.Println(r)
		}
		return nil
	},
}
