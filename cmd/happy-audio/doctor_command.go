package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Diogo1457/happy-audio/internal/deps"
	"github.com/Diogo1457/happy-audio/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, dependencyState(s), s.Path, firstNonEmpty(s.Version, s.Detail)})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Tool"}, {header: "Status"}, {header: "Path"}, {header: "Version"},
			}, rows))

			checks := preflight.RunAll(cmd.Context(), cfg)
			rows = rows[:0]
			for _, c := range checks {
				state := "ok"
				if !c.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{c.Name, state, c.Detail})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Directory"}, {header: "Status"}, {header: "Detail"},
			}, rows))

			if len(deps.Missing(statuses)) > 0 || len(preflight.Failed(checks)) > 0 {
				return errors.New("doctor found problems")
			}
			printSuccess(out, "All checks passed")
			return nil
		},
	}
}

func dependencyState(s deps.Status) string {
	switch {
	case s.Available:
		return "ok"
	case s.Optional:
		return "missing (optional)"
	default:
		return "MISSING"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
