package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	habitTitle string
	habitDate  string
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage recurring habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a habit to track",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := a.store.AddHabit(habitTitle)
		if err != nil {
			return err
		}
		added := snap.Habits[len(snap.Habits)-1]
		fmt.Printf("Added habit %s  %s\n", shortID(added.ID), added.Title)
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap := a.store.Snapshot()
		day := today()
		for _, h := range snap.Habits {
			fmt.Printf("%s %s  %-24s racha: %d\n", checkbox(h.CompletedOn(day)), shortID(h.ID), h.Title, h.Streak)
		}
		return nil
	},
}

var habitCheckCmd = &cobra.Command{
	Use:   "check [id-prefix]",
	Short: "Toggle a habit for a date (default today)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := resolveHabitID(a.store.Snapshot(), args[0])
		if err != nil {
			return err
		}
		date := habitDate
		if date == "" {
			date = today()
		}
		snap, err := a.store.ToggleHabit(id, date)
		if err != nil {
			return err
		}
		for _, h := range snap.Habits {
			if h.ID == id {
				fmt.Printf("%s %s (%s)  racha: %d — %d points\n",
					checkbox(h.CompletedOn(date)), h.Title, date, h.Streak, snap.Points)
			}
		}
		return nil
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm [id-prefix]",
	Short: "Delete a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := resolveHabitID(a.store.Snapshot(), args[0])
		if err != nil {
			return err
		}
		a.store.DeleteHabit(id)
		fmt.Printf("Deleted habit %s\n", shortID(id))
		return nil
	},
}

func init() {
	habitAddCmd.Flags().StringVar(&habitTitle, "title", "", "habit title (required)")
	_ = habitAddCmd.MarkFlagRequired("title")
	habitCheckCmd.Flags().StringVar(&habitDate, "date", "", "ISO date YYYY-MM-DD (default today)")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitCheckCmd)
	habitCmd.AddCommand(habitRmCmd)
}
