package main

import (
	"fmt"

	"turnavg/internal/record"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd creates an empty state file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty state file (amount 0, total 0)",
	Long: `Creates the state file so --average and --prompt have something to read.
An existing file is left alone unless --force is given, which resets it.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

// statusCmd prints the stored record
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show amount, total and average",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Reset an existing state file")
}

func runInit(cmd *cobra.Command, args []string) error {
	store := record.NewStore(cfg.StatePath)
	if _, err := store.Init(commandContext(cmd), initForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", store.Path())
	return nil
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(9)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	store := record.NewStore(cfg.StatePath)
	rec, err := store.Load(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	row := func(label, val string) {
		fmt.Fprintln(out, labelStyle.Render(label)+valueStyle.Render(val))
	}
	row("state", store.Path())
	row("amount", fmt.Sprint(rec.Amount))
	row("total", fmt.Sprint(rec.Total))
	row("average", averageLine(rec))
	return nil
}
