package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sumire/freelance/internal/workspace"
)

const dashboardHelp = "[e] show/hide earnings  [r] refresh  [q] quit"

func newDashboardCommand(a *app) *cobra.Command {
	var (
		interactive bool
		reveal      bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show an overview of projects, requirements and earnings",
		Long: "Shows project and requirement counts, earnings and pending payments. " +
			"Money is masked unless --reveal is given; in interactive mode 'e' reveals it for five seconds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := workspace.NewReveal(a.afterFunc)
			defer r.Hide()
			if reveal {
				r.Toggle()
			}
			if !interactive {
				renderDashboard(a.out, a.ws, r)
				return nil
			}
			return runInteractiveDashboard(cmd.Context(), a, r)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read keys from stdin and redraw")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "show money figures")
	return cmd
}

// runInteractiveDashboard redraws after every key and whenever the reveal
// timer masks the earnings again. Redraws never overlap.
func runInteractiveDashboard(ctx context.Context, a *app, r *workspace.Reveal) error {
	var (
		mu   sync.Mutex
		done bool
	)
	redraw := func() {
		renderDashboard(a.out, a.ws, r)
		fmt.Fprintln(a.out, dashboardHelp)
	}
	r.OnExpire(func() {
		mu.Lock()
		defer mu.Unlock()
		if !done {
			redraw()
		}
	})
	defer func() {
		mu.Lock()
		done = true
		mu.Unlock()
	}()

	mu.Lock()
	redraw()
	mu.Unlock()

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		key := strings.TrimSpace(scanner.Text())
		if key == "q" {
			return nil
		}

		mu.Lock()
		switch key {
		case "e":
			r.Toggle()
		case "r":
			// Failures are reported through notifications.
			_ = a.ws.Refresh(ctx)
		}
		redraw()
		mu.Unlock()
	}
	return scanner.Err()
}

func renderDashboard(w io.Writer, ws *workspace.Workspace, r *workspace.Reveal) {
	if ws.Loading() {
		fmt.Fprintln(w, "Loading...")
		return
	}
	d := ws.Dashboard()

	fmt.Fprintln(w, "Dashboard")
	printTable(w, []string{"METRIC", "VALUE"}, [][]string{
		{"Active projects", strconv.Itoa(d.ActiveProjects)},
		{"Completed projects", strconv.Itoa(d.CompletedProjects)},
		{"Pending requirements", strconv.Itoa(d.PendingRequirements)},
		{"Total earnings", r.Format(d.TotalEarnings)},
		{"Pending payments", fmt.Sprintf("%d of %d transactions", d.PendingPayments, d.TotalTransactions)},
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Current projects")
	if len(d.CurrentProjects) == 0 {
		fmt.Fprintln(w, "No projects yet.")
	} else {
		rows := make([][]string, 0, len(d.CurrentProjects))
		for _, p := range d.CurrentProjects {
			rows = append(rows, []string{p.Name, p.Client, string(p.Status), p.Deadline, r.Format(p.Budget)})
		}
		printTable(w, []string{"NAME", "CLIENT", "STATUS", "DEADLINE", "BUDGET"}, rows)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent requirements")
	if len(d.RecentRequirements) == 0 {
		fmt.Fprintln(w, "No requirements yet.")
		return
	}
	rows := make([][]string, 0, len(d.RecentRequirements))
	for _, rr := range d.RecentRequirements {
		rows = append(rows, []string{rr.Title, orDash(rr.ProjectName), string(rr.Status), string(rr.Priority)})
	}
	printTable(w, []string{"TITLE", "PROJECT", "STATUS", "PRIORITY"}, rows)
}
