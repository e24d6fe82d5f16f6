package main

import (
	"encoding/json"
	"io"

	"insulin_drip/internal/service"
	"insulin_drip/internal/titration"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dripcalc",
		Short: "Insulin infusion titration calculator",
		Long: `Evaluate one step of the insulin infusion protocol without a server.

Available subcommands:
  initial - first bolus and rate for a patient not yet on insulin
  next    - rate adjustment and recheck interval for a running infusion
  change  - hourly BG change between two readings
  notes   - protocol reference notes`,
		SilenceUsage: true,
	}
	root.AddCommand(newInitialCmd(), newNextCmd(), newChangeCmd(), newNotesCmd())
	return root
}

func newInitialCmd() *cobra.Command {
	var bg int
	cmd := &cobra.Command{
		Use:   "initial",
		Short: "Initial bolus and infusion rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := service.NewCalculatorService().Recommend(titration.InitialRequest(bg))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().IntVar(&bg, "bg", 0, "current BG in mg/dL")
	_ = cmd.MarkFlagRequired("bg")
	return cmd
}

func newNextCmd() *cobra.Command {
	var (
		bg, change, streak int
		rate               float64
	)
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Rate adjustment for a running infusion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := titration.OngoingRequest(bg, rate, change, streak)
			rec, err := service.NewCalculatorService().Recommend(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	f := cmd.Flags()
	f.IntVar(&bg, "bg", 0, "current BG in mg/dL")
	f.Float64Var(&rate, "rate", 0, "current infusion rate in units/hr")
	f.IntVar(&change, "change", 0, "BG change over the last hour in mg/dL")
	f.IntVar(&streak, "streak", 0, "consecutive in-target readings, including this one")
	for _, name := range []string{"bg", "rate", "change"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newChangeCmd() *cobra.Command {
	var (
		bg, prevBG int
		at, prevAt float64
	)
	cmd := &cobra.Command{
		Use:   "change",
		Short: "Hourly BG change between two readings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			delta, err := titration.HourlyChange(
				titration.BgReading{BG: bg, Minute: at},
				titration.BgReading{BG: prevBG, Minute: prevAt},
			)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"hourly_bg_change": delta})
		},
	}
	f := cmd.Flags()
	f.IntVar(&bg, "bg", 0, "current BG in mg/dL")
	f.Float64Var(&at, "at", 0, "minute the current reading was taken")
	f.IntVar(&prevBG, "prev-bg", 0, "previous BG in mg/dL")
	f.Float64Var(&prevAt, "prev-at", 0, "minute the previous reading was taken")
	for _, name := range []string{"bg", "at", "prev-bg", "prev-at"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print protocol reference notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), service.ProtocolNotes)
			return err
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
