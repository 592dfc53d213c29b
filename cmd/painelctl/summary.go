package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/David1r20/painel-educacional/internal/analytics"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// summary is the JSON printed by the summary command.
type summary struct {
	File       string               `json:"file"`
	Format     domain.SourceFormat  `json:"format"`
	Overview   domain.Overview      `json:"overview"`
	Thresholds domain.Thresholds    `json:"thresholds"`
	Stats      []domain.MetricStats `json:"stats"`
}

func newSummaryCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "summary <gradebook>",
		Short: "Print class KPIs and risk counts as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(cmd)
			if err != nil {
				return err
			}
			ds, err := tk.extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(summary{
				File:       ds.FileName,
				Format:     ds.Format,
				Overview:   analytics.Overview(ds),
				Thresholds: ds.Thresholds,
				Stats:      analytics.Stats(ds.Students),
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print a single line")
	return cmd
}
