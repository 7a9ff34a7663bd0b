package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"axis/internal/app"
	"axis/internal/config"
	"axis/internal/db"
	"axis/internal/domain"
	"axis/internal/gantt"
	"axis/internal/server"
	"axis/internal/week"
)

var rootCmd = &cobra.Command{
	Use:   "axis",
	Short: "Axis personal dashboard CLI",
	Long: `Axis is a one-screen personal operating system: three outcomes for
the week, three needle-movers for today, at most three active projects,
and a Gantt timeline of commitments that cannot be marked shipped
without a proof artifact. Every change to a commitment row lands in its
audit trail, and the event log keeps the full history ('axis log tail').`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("AXIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(rowCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(resourcesCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default axis.yml into the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(name)), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "identity name")
	return cmd
}

func rowCmd() *cobra.Command {
	row := &cobra.Command{
		Use:   "row",
		Short: "Manage commitment rows",
		Long: `Commitment rows live on the Gantt timeline. Each row flows
planned -> active -> shipped (or stalls along the way) and must carry a
proof artifact URL before it can ship.`,
	}
	row.AddCommand(rowAddCmd())
	row.AddCommand(rowListCmd())
	row.AddCommand(rowShowCmd())
	row.AddCommand(rowEditCmd())
	row.AddCommand(rowStatusCmd())
	row.AddCommand(rowArtifactCmd())
	row.AddCommand(rowRmCmd())
	row.AddCommand(rowAuditCmd())
	row.AddCommand(rowTimelineCmd())
	return row
}

func rowAddCmd() *cobra.Command {
	var projectKey, feature, startWeek, endWeek, outcomeID string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a commitment row",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(feature) == "" {
				return fmt.Errorf("--feature required")
			}
			if !week.Valid(startWeek) || !week.Valid(endWeek) {
				return fmt.Errorf("weeks must be YYYY-Www (e.g. 2026-W08)")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row := a.Gantt.AddRow(ctx, gantt.RowSpec{
					ProjectKey:      projectKey,
					Feature:         feature,
					StartWeek:       startWeek,
					EndWeek:         endWeek,
					Status:          gantt.StatusPlanned,
					LinkedOutcomeID: outcomeID,
				})
				return printJSONOrTable(row)
			})
		},
	}
	cmd.Flags().StringVar(&projectKey, "project", "", "project key")
	cmd.Flags().StringVar(&feature, "feature", "", "feature description")
	cmd.Flags().StringVar(&startWeek, "start", week.Current(time.Now()), "start week (YYYY-Www)")
	cmd.Flags().StringVar(&endWeek, "end", week.Current(time.Now()), "end week (YYYY-Www)")
	cmd.Flags().StringVar(&outcomeID, "outcome", "", "linked weekly outcome id")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("feature")
	return cmd
}

func rowListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List commitment rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				rows := a.Gantt.Rows()
				if project != "" {
					filtered := make([]domain.Row, 0, len(rows))
					for _, r := range rows {
						if r.ProjectKey == project {
							filtered = append(filtered, r)
						}
					}
					rows = filtered
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Project", "Feature", "Weeks", "Status", "Artifact"})
				for _, r := range rows {
					artifact := r.Artifact.URL
					if artifact == "" {
						artifact = "-"
					}
					tw.AppendRow(table.Row{
						shortID(r.ID), r.ProjectKey, r.Feature,
						fmt.Sprintf("%s..%s", r.StartWeek, r.EndWeek),
						r.Status, artifact,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "filter by project key")
	return cmd
}

func rowShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <row-id>",
		Short: "Show a commitment row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(row)
			})
		},
	}
	return cmd
}

func rowEditCmd() *cobra.Command {
	var feature, startWeek, endWeek, outcomeID string
	cmd := &cobra.Command{
		Use:   "edit <row-id>",
		Short: "Edit a commitment row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				var patch gantt.RowPatch
				if cmd.Flags().Changed("feature") {
					patch.Feature = &feature
				}
				if cmd.Flags().Changed("start") {
					if !week.Valid(startWeek) {
						return fmt.Errorf("start must be YYYY-Www")
					}
					patch.StartWeek = &startWeek
				}
				if cmd.Flags().Changed("end") {
					if !week.Valid(endWeek) {
						return fmt.Errorf("end must be YYYY-Www")
					}
					patch.EndWeek = &endWeek
				}
				if cmd.Flags().Changed("outcome") {
					patch.LinkedOutcomeID = &outcomeID
				}
				a.Gantt.UpdateRow(ctx, row.ID, patch)
				updated, err := a.Gantt.Get(row.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&feature, "feature", "", "feature description")
	cmd.Flags().StringVar(&startWeek, "start", "", "start week (YYYY-Www)")
	cmd.Flags().StringVar(&endWeek, "end", "", "end week (YYYY-Www)")
	cmd.Flags().StringVar(&outcomeID, "outcome", "", "linked weekly outcome id")
	return cmd
}

func rowStatusCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "status <row-id> <status>",
		Short: "Transition a row (planned, active, shipped, stalled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := gantt.Status(args[1])
			if !gantt.ValidStatus(status) {
				return fmt.Errorf("invalid status %q", args[1])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				if err := a.Gantt.UpdateRowStatus(ctx, row.ID, status, note); err != nil {
					return err
				}
				updated, err := a.Gantt.Get(row.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note recorded in the audit trail")
	return cmd
}

func rowArtifactCmd() *cobra.Command {
	var artifactType, url string
	cmd := &cobra.Command{
		Use:   "artifact <row-id>",
		Short: "Attach a proof artifact to a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(url) == "" {
				return fmt.Errorf("--url required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				a.Gantt.SetArtifact(ctx, row.ID, domain.Artifact{Type: artifactType, URL: url})
				updated, err := a.Gantt.Get(row.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&artifactType, "type", "link", "artifact type (PR, doc, demo, link)")
	cmd.Flags().StringVar(&url, "url", "", "artifact URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func rowRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <row-id>",
		Short: "Delete a commitment row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				a.Gantt.RemoveRow(ctx, row.ID)
				fmt.Printf("Deleted %s (%s)\n", shortID(row.ID), row.Feature)
				return nil
			})
		},
	}
	return cmd
}

func rowAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <row-id>",
		Short: "Show a row's audit trail, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				row, err := resolveRow(a, args[0])
				if err != nil {
					return err
				}
				trail := row.AuditTrail
				if viper.GetBool("json") {
					return printJSON(trail)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"TS", "Event", "From", "To", "Meta"})
				for i := len(trail) - 1; i >= 0; i-- {
					e := trail[i]
					tw.AppendRow(table.Row{e.TS, e.Event, e.From, e.To, e.Meta})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func rowTimelineCmd() *cobra.Command {
	var start string
	var weeks int
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Render rows against the week window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" {
				start = week.Current(time.Now())
			}
			if !week.Valid(start) {
				return fmt.Errorf("start must be YYYY-Www")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if weeks <= 0 {
					weeks = a.Cfg.Timeline.WindowWeeks
				}
				window := week.Window(start, weeks)
				rows := a.Gantt.Rows()
				if viper.GetBool("json") {
					return printJSON(map[string]any{"weeks": window, "rows": rows})
				}
				header := table.Row{"Feature", "Status"}
				for _, id := range window {
					header = append(header, week.Label(id))
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(header)
				for _, r := range rows {
					line := table.Row{r.Feature, r.Status}
					barStart, span := week.BarSpan(window, r.StartWeek, r.EndWeek)
					for i := range window {
						cell := ""
						if span > 0 && i >= barStart && i < barStart+span {
							cell = "█"
						}
						line = append(line, cell)
					}
					tw.AppendRow(line)
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "window start week (defaults to current)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "window size in weeks (defaults to config)")
	return cmd
}

func weekCmd() *cobra.Command {
	wk := &cobra.Command{Use: "week", Short: "Manage the weekly plan"}
	wk.AddCommand(weekShowCmd())
	wk.AddCommand(weekOutcomesCmd())
	wk.AddCommand(weekBlockersCmd())
	wk.AddCommand(weekModeCmd())
	wk.AddCommand(weekCurrentCmd())
	return wk
}

func weekShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the week document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.Week(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func weekOutcomesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcomes <one> [two] [three]",
		Short: "Set the week's three outcomes",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.SetWeekOutcomes(ctx, args)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func weekBlockersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blockers <one> [two] [three]",
		Short: "Set the week's blockers",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.SetWeekBlockers(ctx, args)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func weekModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode <LOCKED IN|OFF>",
		Short: "Set the week mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := args[0]
			if mode != "LOCKED IN" && mode != "OFF" {
				return fmt.Errorf("mode must be 'LOCKED IN' or 'OFF'")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.SetWeekMode(ctx, mode)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func weekCurrentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Print the current ISO week id",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(week.Current(time.Now()))
			return nil
		},
	}
	return cmd
}

func todayCmd() *cobra.Command {
	td := &cobra.Command{Use: "today", Short: "Manage today's top 3"}
	td.AddCommand(todayShowCmd())
	td.AddCommand(todaySetCmd())
	td.AddCommand(todayToggleCmd())
	return td
}

func todayShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's top 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.Today(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(doc)
				}
				fmt.Printf("Today (%s):\n", doc.Date)
				for _, it := range doc.Top3 {
					mark := " "
					if it.Done {
						mark = "x"
					}
					fmt.Printf("  [%s] %s  %s\n", mark, it.ID, it.Text)
				}
				return nil
			})
		},
	}
	return cmd
}

func todaySetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <one> [two] [three]",
		Short: "Replace today's top 3",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.SetTodayTop3(ctx, args)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func todayToggleCmd() *cobra.Command {
	var done bool
	cmd := &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Toggle a top 3 item done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				item, err := a.Dashboard.ToggleToday(ctx, args[0], done)
				if err != nil {
					return err
				}
				return printJSONOrTable(item)
			})
		},
	}
	cmd.Flags().BoolVar(&done, "done", true, "done state to set")
	return cmd
}

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage dashboard projects"}
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectActiveCmd())
	return prj
}

func projectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.Projects(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(doc)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Key", "Name", "Active", "Focus"})
				for _, p := range doc.Projects {
					active := ""
					if p.IsActive {
						active = "yes"
					}
					tw.AppendRow(table.Row{p.Key, p.Name, active, p.Focus})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func projectActiveCmd() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "active <key>",
		Short: "Mark a project active (or inactive with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.Projects(ctx)
				if err != nil {
					return err
				}
				found := false
				for i := range doc.Projects {
					if doc.Projects[i].Key == key {
						doc.Projects[i].IsActive = !off
						found = true
					}
				}
				if !found {
					return fmt.Errorf("project %q not found", key)
				}
				saved, err := a.Dashboard.PutProjects(ctx, doc)
				if err != nil {
					return err
				}
				return printJSONOrTable(saved)
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "mark inactive instead")
	return cmd
}

func resourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Show resource sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Dashboard.Resources(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(doc)
			})
		},
	}
	return cmd
}

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the one-screen dashboard view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				view, err := a.Dashboard.Dashboard(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(view)
			})
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{Use: "log", Short: "Inspect the change log"}
	lg.AddCommand(logTailCmd())
	return lg
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType, entityKind, entityID string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				events, err := a.Events.Latest(ctx, n, evtType, entityKind, entityID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "TS", "Type", "Entity", "Payload"})
				for _, e := range events {
					entity := e.EntityKind
					if e.EntityID != "" {
						entity += "/" + shortID(e.EntityID)
					}
					tw.AppendRow(table.Row{e.ID, e.TS, e.Type, entity, e.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	cmd.Flags().StringVar(&entityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "entity id")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			a, err := app.Open(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			defer a.Close()
			handler, err := server.New(server.Config{App: a, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Axis API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/api/v1", "API base path")
	return cmd
}

// --- helpers ---

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(ctx, viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// resolveRow accepts a full row id or an unambiguous prefix.
func resolveRow(a *app.App, id string) (domain.Row, error) {
	if row, err := a.Gantt.Get(id); err == nil {
		return row, nil
	}
	var match *domain.Row
	for _, r := range a.Gantt.Rows() {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return domain.Row{}, fmt.Errorf("row id %q is ambiguous", id)
			}
			row := r
			match = &row
		}
	}
	if match == nil {
		return domain.Row{}, gantt.ErrRowNotFound
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
