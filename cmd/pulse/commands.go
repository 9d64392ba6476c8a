package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/pulse/pkg/boards"
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/grid"
	"github.com/stefanpenner/pulse/pkg/kpi"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

func newAllocationsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "allocations",
		Short: "Show each user's workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			allocs := a.state.Allocations()
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), allocs)
			}
			printAllocations(cmd, allocs)
			return nil
		},
	}
}

func printAllocations(cmd *cobra.Command, allocs []workload.Allocation) {
	out := cmd.OutOrStdout()
	if len(allocs) == 0 {
		fmt.Fprintln(out, "No users. Add them to users.yaml.")
		return
	}
	t := newTable(out,
		column{Name: "USER", Width: 20},
		column{Name: "SUBTASKS", Width: 8, Right: true},
		column{Name: "OVERDUE", Width: 7, Right: true},
		column{Name: "HOURS", Width: 12, Right: true},
		column{Name: "CAP", Width: 5, Right: true},
		column{Name: "WORKLOAD", Width: 13},
	)
	t.header()
	for _, al := range allocs {
		var overdueColor *color.Color
		if al.OverdueSubtasks > 0 {
			overdueColor = color.New(color.FgRed)
		}
		t.row([]string{
			al.User.Name,
			fmt.Sprint(al.AssignedSubtasks),
			fmt.Sprint(al.OverdueSubtasks),
			hours(al.AllocatedHours) + "/" + hours(al.User.AvailableHours),
			fmt.Sprintf("%d%%", al.CapacityPercent),
			string(al.Status),
		}, nil, nil, overdueColor, nil, nil, workloadColor(al.Status))
	}
}

type boardsOutput struct {
	Summary boards.WorkspaceSummary `json:"summary"`
	Boards  []boards.Row            `json:"boards"`
}

func newBoardsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "Show health per board and the workspace summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := a.state.BoardRows()
			sum := boards.Summarize(rows)
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), boardsOutput{Summary: sum, Boards: rows})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d boards: %d healthy (%d%%), %d need attention (%d%%), %d at risk (%d%%), %d with overdue items (%d%%)\n\n",
				sum.TotalBoards,
				sum.HealthyBoards, sum.HealthyPercent,
				sum.NeedsAttentionBoards, sum.NeedsAttentionPercent,
				sum.AtRiskBoards, sum.AtRiskPercent,
				sum.OverdueBoards, sum.OverduePercent)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No boards yet.")
				return nil
			}

			t := newTable(out,
				column{Name: "BOARD", Width: 20},
				column{Name: "HEALTH", Width: 15},
				column{Name: "HEALTH%", Width: 7, Right: true},
				column{Name: "ITEMS", Width: 5, Right: true},
				column{Name: "OVERDUE", Width: 7, Right: true},
				column{Name: "AVG DAYS", Width: 8, Right: true},
				column{Name: "OVERLOADED", Width: 10, Right: true},
			)
			t.header()
			for _, r := range rows {
				t.row([]string{
					r.Board,
					string(r.Health),
					fmt.Sprintf("%d%%", r.HealthPercent),
					fmt.Sprint(r.Total),
					fmt.Sprint(r.Overdue),
					fmt.Sprintf("%.1f", r.AvgCompletionDays),
					fmt.Sprint(r.OverloadedResourcesCount),
				}, nil, healthColor(r.Health))
			}
			return nil
		},
	}
}

type kpiOutput struct {
	kpi.Summary
	Distribution []kpi.Slice     `json:"healthDistribution"`
	Users        []userTaskCount `json:"users"`
}

type userTaskCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"taskCount"`
}

func newKPICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kpi",
		Short: "Show workspace KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := kpiOutput{
				Summary:      a.state.KPIs(),
				Distribution: a.state.HealthDistribution(),
			}
			for _, al := range a.state.Allocations() {
				res.Users = append(res.Users, userTaskCount{ID: al.User.ID, Name: al.User.Name, Count: al.AssignedSubtasks})
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total items:      %d\n", res.Total)
			for _, s := range store.Statuses {
				fmt.Fprintf(out, "%s %d\n", healthColor(s).Sprint(cell(string(s)+":", column{Width: 17})), res.Count(s))
			}
			fmt.Fprintf(out, "%s %d\n", color.New(color.FgRed).Sprint(cell("Overdue:", column{Width: 17})), res.Overdue)

			if len(res.Distribution) > 0 {
				fmt.Fprintln(out, "\nHealth distribution")
				for _, s := range res.Distribution {
					pct := workload.Percent(float64(s.Count), float64(res.Total))
					fmt.Fprintf(out, "  %s %3d%% %s\n", cell(string(s.Status), column{Width: 16}), pct,
						healthColor(s.Status).Sprint(strings.Repeat("█", pct/5)))
				}
			}

			if len(res.Users) > 0 {
				fmt.Fprintln(out, "\nUsers & task counts")
				for _, u := range res.Users {
					fmt.Fprintf(out, "  %s %d\n", cell(u.Name, column{Width: 20}), u.Count)
				}
			}
			return nil
		},
	}
}

func newTasksCommand(a *app) *cobra.Command {
	var c grid.Criteria
	var status string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks and subtasks matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				s, err := store.ParseStatus(status)
				if err != nil {
					return err
				}
				c.Status = s
			}
			for _, d := range []string{c.From, c.To} {
				if d != "" && !dates.Valid(d) {
					return fmt.Errorf("invalid date %q (use %s)", d, dates.Layout)
				}
			}
			if c.UserID == "" {
				c.UserID = a.cfg.User
			}
			if c.Board == "" {
				c.Board = a.cfg.Board
			}

			tasks := a.state.Filter(c)
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), tasks)
			}
			printTasks(cmd, a, tasks, c)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.UserID, "user", "", "only subtasks assigned to this user id")
	cmd.Flags().StringVar(&c.Board, "board", "", "only tasks on this board")
	cmd.Flags().StringVar(&status, "status", "", "healthy, needs-attention or at-risk")
	cmd.Flags().StringVar(&c.From, "from", "", "due on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&c.To, "to", "", "due on or before YYYY-MM-DD")
	return cmd
}

func printTasks(cmd *cobra.Command, a *app, tasks []store.Task, c grid.Criteria) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, grid.EmptyMessage(c))
		return
	}

	today := a.state.Today()
	t := newTable(out,
		column{Name: "ID", Width: 22},
		column{Name: "NAME", Width: 28},
		column{Name: "BOARD", Width: 12},
		column{Name: "STATUS", Width: 15},
		column{Name: "DUE", Width: 10},
		column{Name: "ASSIGNEE", Width: 16},
	)
	t.header()
	red := color.New(color.FgRed)
	for _, task := range tasks {
		var dueColor *color.Color
		if dates.IsOverdue(task.DueDate, today) {
			dueColor = red
		}
		t.row([]string{task.ID, task.Name, task.Board, string(task.Status), task.DueDate, ""},
			nil, nil, nil, healthColor(task.Status), dueColor)
		for _, s := range task.Subtasks {
			dueColor = nil
			if dates.IsOverdue(s.DueDate, today) {
				dueColor = red
			}
			t.row([]string{"  " + s.ID, "  " + s.Name, s.Board, string(s.Status), s.DueDate, a.state.UserName(s.AssigneeID)},
				nil, nil, nil, healthColor(s.Status), dueColor)
		}
	}
}

type reassignOutput struct {
	Subtask     string                `json:"subtask"`
	From        string                `json:"from"`
	To          string                `json:"to"`
	Changed     bool                  `json:"changed"`
	Projection  *workload.Projection  `json:"projection,omitempty"`
	Allocations []workload.Allocation `json:"allocations"`
}

func newReassignCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reassign <subtask-id> <user-id>",
		Short: "Preview and apply a subtask reassignment for this session",
		Long: `Shows the target user's projected workload, asks for confirmation when
they are already overloaded, and applies the reassignment in memory.
Task files on disk are not changed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subID, userID := args[0], args[1]
			out := cmd.OutOrStdout()

			sub, ok := a.state.Subtask(subID)
			if !ok {
				return fmt.Errorf("unknown subtask %q", subID)
			}
			res := reassignOutput{Subtask: subID, From: sub.AssigneeID, To: userID}

			proj, _ := a.state.Project(subID)
			for i := range proj {
				if proj[i].User.ID == userID {
					res.Projection = &proj[i]
				}
			}

			if !a.jsonOut {
				fmt.Fprintf(out, "%s: %s → %s\n", sub.Name, a.state.AssigneeName(sub.AssigneeID), a.state.UserName(userID))
				if p := res.Projection; p != nil {
					fmt.Fprintf(out, "%s: %s/%s (%d%%, %s) → %s (%d%%, %s)\n",
						p.User.Name,
						hours(p.AllocatedHours), hours(p.User.AvailableHours), p.CapacityPercent, workloadColor(p.Status).Sprint(p.Status),
						hours(p.ProjectedHours), p.ProjectedPercent, workloadColor(p.ProjectedStatus).Sprint(p.ProjectedStatus))
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not in users.yaml; the subtask will count toward nobody\n", userID)
				}
			}

			if userID != sub.AssigneeID && a.state.NeedsConfirmation(userID) && !yes {
				if a.jsonOut {
					return fmt.Errorf("%s is overloaded; pass --yes to reassign anyway", userID)
				}
				fmt.Fprintf(out, "%s is already overloaded. Reassign anyway? [y/N] ", a.state.UserName(userID))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			res.Changed = a.state.Reassign(subID, userID)
			res.Allocations = a.state.Allocations()
			if a.jsonOut {
				return outputJSON(out, res)
			}
			if !res.Changed {
				fmt.Fprintln(out, "Already assigned; nothing changed.")
				return nil
			}
			fmt.Fprintln(out)
			printAllocations(cmd, res.Allocations)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the overload confirmation")
	return cmd
}
