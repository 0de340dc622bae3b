package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

var resetYes bool

// weeklyActivity is illustrative chart data; Michi does not keep per-day
// point history.
var weeklyActivity = []struct {
	Day    string
	Points int
}{
	{"Lun", 40}, {"Mar", 65}, {"Mie", 50}, {"Jue", 80}, {"Vie", 100}, {"Sab", 30}, {"Dom", 60},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show points, effectiveness and the weekly chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap := a.store.Snapshot()
		completed := snap.CompletedTaskCount()
		total := len(snap.Tasks)
		pct := effectiveness(completed, total)

		fmt.Printf("Puntos totales:   %d\n", snap.Points)
		fmt.Printf("Efectividad hoy:  %d%% (%d/%d tareas)\n", pct, completed, total)
		if len(snap.Habits) > 0 {
			fmt.Println("\nRachas:")
			for _, h := range snap.Habits {
				fmt.Printf("  %-24s %d\n", h.Title, h.Streak)
			}
		}

		fmt.Println("\nActividad semanal:")
		for _, d := range weeklyActivity {
			fmt.Printf("  %s %-20s %d\n", d.Day, strings.Repeat("█", d.Points/5), d.Points)
		}
		return nil
	},
}

var accessoryCmd = &cobra.Command{
	Use:   "accessory [name]",
	Short: "Show or change the cat's accessory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if len(args) == 0 {
			current := a.store.Snapshot().Accessory
			for _, acc := range state.Accessories() {
				marker := "  "
				if acc == current {
					marker = "* "
				}
				fmt.Printf("%s%s\n", marker, acc)
			}
			return nil
		}

		acc, err := state.ParseAccessory(args[0])
		if err != nil {
			return err
		}
		a.store.SetAccessory(acc)
		fmt.Printf("Michi ahora lleva: %s\n", acc)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all local data back to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to reset without --yes")
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.local.Reset(); err != nil {
			return err
		}
		fmt.Println("All data wiped. Michi will ask your name again next time.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the wipe")
}
