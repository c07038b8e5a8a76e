package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"coursework_service/internal/domain"
	"coursework_service/internal/service"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (c *cli) collectCmd() *cobra.Command {
	var opts service.CollectOptions
	cmd := &cobra.Command{
		Use:   "collect <label>",
		Short: "Collect submissions for an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			res, err := c.app.Collection.Collect(cmd.Context(), course, args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s due %s (post-due: %t, status: %s)\n\n",
				res.Assignment.Label, res.Assignment.FormattedDueDate(), res.PostDue, res.Status)

			tw := newTable(out)
			fmt.Fprintln(tw, "STUDENT\tNAME\tSTATE\tGRADE\tTURNED IN\tRETURNED\tNOTE")
			for _, rec := range res.Records {
				note := ""
				if rec.Err != nil {
					note = rec.Err.Error()
				} else if rec.Archived {
					note = "archived"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.Student.ID, rec.Student.Name(), rec.State,
					domain.FormatScore(rec.Overall), orDash(rec.TurnedIn), orDash(rec.Returned), note)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			d := res.Distribution
			fmt.Fprintf(out, "\ngraded: %d  mean: %s  min: %s  max: %s\n",
				d.Count, domain.FormatScore(d.Mean), domain.FormatScore(d.Min), domain.FormatScore(d.Max))
			fmt.Fprintf(out, "histogram: %v\n", d.Bins)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Shuffle, "shuffle", false, "process students in random order")
	cmd.Flags().BoolVar(&opts.ArchiveEarly, "archive", false, "archive inbox copies before the due date")
	return cmd
}

func (c *cli) gradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades <student_id>",
		Short: "Show a student's grades and weighted overall",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			g, err := c.app.Grades.GradesFor(cmd.Context(), course, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", g.Student.Name(), g.Student.ID)
			tw := newTable(out)
			fmt.Fprintln(tw, "LABEL\tGRADE\tPOINTS\tCATEGORY\tDUE")
			for _, r := range g.Records {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\n",
					r.Label, r.StatusString(), r.Points, r.Category, r.DueDate.UTC().Format(domain.DueDateLayout))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\noverall: %.3f\n", g.Overall)
			return nil
		},
	}
}

func (c *cli) gradebookCmd() *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "gradebook",
		Short: "Print the course gradebook or export it to XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if xlsxPath != "" {
				buf, _, err := c.app.Grades.ExportXLSX(cmd.Context(), course, c.app.Config.Course.Name)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
				}
				fmt.Fprintf(out, "gradebook written to %s\n", xlsxPath)
				return nil
			}

			gb, err := c.app.Grades.Gradebook(cmd.Context(), course)
			if err != nil {
				return err
			}
			tw := newTable(out)
			fmt.Fprintf(tw, "STUDENT\tNAME\tOVERALL\t%s\n", strings.Join(gb.Labels, "\t"))
			for _, row := range gb.Rows {
				cols := make([]string, 0, len(gb.Labels))
				for _, label := range gb.Labels {
					cols = append(cols, domain.FormatScore(row.Grades[label]))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					row.Student.ID, row.Student.Name(), domain.FormatScore(row.Overall), strings.Join(cols, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the gradebook to this XLSX file")
	return cmd
}

func (c *cli) returnCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "return <label> <student_id>",
		Short: "Return one graded submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			r, err := c.app.Returns.ReturnOne(cmd.Context(), course, args[1], args[0], force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "returned %s to %s (%s) at %s, grade %s\n",
				r.Label, r.StudentID, r.Recipient, r.ReturnedAt, domain.FormatScore(r.Overall))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "send again even if already returned")
	return cmd
}

func (c *cli) returnAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return-all <label>",
		Short: "Return every graded submission for an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			summary, err := c.app.Returns.ReturnAll(cmd.Context(), course, args[0])
			if summary != nil {
				out := cmd.OutOrStdout()
				for _, r := range summary.Returned {
					fmt.Fprintf(out, "returned  %s -> %s\n", r.StudentID, r.Recipient)
				}
				for _, s := range summary.Skipped {
					fmt.Fprintf(out, "skipped   %s: %s\n", s.StudentID, s.Reason)
				}
				fmt.Fprintf(out, "\n%d returned, %d skipped\n", len(summary.Returned), len(summary.Skipped))
			}
			return err
		},
	}
}

func (c *cli) ungradedCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "ungraded <label>",
		Short: "List collected submissions that still need a grade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			items, err := c.app.Collection.Ungraded(cmd.Context(), course, args[0], n)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Fprintln(cmd.OutOrStdout(), it.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", 1, "how many files to list; 0 lists all")
	return cmd
}

func (c *cli) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show collection status and urgency per assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			course, err := c.course(cmd)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "LABEL\tCATEGORY\tPOINTS\tDUE\tSTATUS\tURGENCY")
			for _, o := range c.app.Collection.Overview(cmd.Context(), course) {
				status := string(o.Status)
				if status == "" {
					status = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\t%s\n",
					o.Assignment.Label, o.Assignment.Category, o.Assignment.Points,
					o.Assignment.FormattedDueDate(), status, o.Urgency)
			}
			return tw.Flush()
		},
	}
}
