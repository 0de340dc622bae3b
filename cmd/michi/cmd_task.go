package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

var (
	taskTitle    string
	taskTime     string
	taskCategory string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage scheduled tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to today's schedule",
	Example: `  michi task add --title "Estudiar cálculo" --time 09:00 --category academic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		cat, err := state.ParseCategory(taskCategory)
		if err != nil {
			return err
		}
		snap, err := a.store.AddTask(taskTitle, taskTime, cat)
		if err != nil {
			return err
		}
		added := snap.Tasks[len(snap.Tasks)-1]
		fmt.Printf("Added task %s  %s %s (%s)\n", shortID(added.ID), added.Time, added.Title, added.Category)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks sorted by time",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap := a.store.Snapshot()
		if len(snap.Tasks) == 0 {
			fmt.Println("No tasks yet. Add one with: michi task add")
			return nil
		}
		for _, t := range snap.TasksByTime() {
			fmt.Printf("%s %s  %s  %-10s %s\n", checkbox(t.Completed), shortID(t.ID), t.Time, t.Category, t.Title)
		}
		fmt.Printf("\n%d pending, %d done, %d points\n", snap.PendingTaskCount(), snap.CompletedTaskCount(), snap.Points)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [id-prefix]",
	Short: "Toggle a task's completion (awards or deducts points)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := resolveTaskID(a.store.Snapshot(), args[0])
		if err != nil {
			return err
		}
		snap := a.store.ToggleTask(id)
		for _, t := range snap.Tasks {
			if t.ID == id {
				fmt.Printf("%s %s — %d points\n", checkbox(t.Completed), t.Title, snap.Points)
			}
		}
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [id-prefix]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := resolveTaskID(a.store.Snapshot(), args[0])
		if err != nil {
			return err
		}
		a.store.DeleteTask(id)
		fmt.Printf("Deleted task %s\n", shortID(id))
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	taskAddCmd.Flags().StringVar(&taskTime, "time", "", "time of day, HH:MM (required)")
	taskAddCmd.Flags().StringVar(&taskCategory, "category", "personal", "academic, personal or chore")
	_ = taskAddCmd.MarkFlagRequired("title")
	_ = taskAddCmd.MarkFlagRequired("time")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
}
