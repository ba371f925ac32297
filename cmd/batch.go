package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/batch"
	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
	"github.com/alexiusacademia/gogirder/internal/workbook"
)

var (
	batchFiles       []string
	batchJobs        string
	batchTemplate    string
	batchConcurrency int
	batchRegional    bool
	batchXLSX        string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze or design many segments concurrently",
	Long: `Run lifting and hauling jobs for every loaded segment.

Jobs come from the first sheet of an xlsx workbook with the columns
  segment | mode | action | left | right | min | max | threshold
where mode is lifting or hauling and action is analyze or design.
Without --jobs every segment is analyzed for lifting and hauling at
the rule set default overhangs.

Examples:
  # Write an empty job sheet
  gogirder batch --template jobs.xlsx

  # Run the jobs on four workers and collect the results
  gogirder batch -f g1.json -f g2.json --jobs jobs.xlsx --concurrency 4 --xlsx results.xlsx`,
	Run: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSliceVarP(&batchFiles, "file", "f", nil, "Segment JSON file(s)")
	batchCmd.Flags().StringVar(&batchJobs, "jobs", "", "Job sheet (xlsx)")
	batchCmd.Flags().StringVar(&batchTemplate, "template", "", "Write an empty job sheet to this path and exit")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 4, "Number of jobs run at once (0 = all)")
	batchCmd.Flags().BoolVar(&batchRegional, "regional", false, "Use overhang/interior dynamic factors for hauling")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "Write results to an xlsx workbook")
}

func runBatch(cmd *cobra.Command, args []string) {
	if batchTemplate != "" {
		f, err := os.Create(batchTemplate)
		if err != nil {
			fail("%v", err)
		}
		defer f.Close()
		if err := workbook.WriteJobsTemplate(f); err != nil {
			fail("%v", err)
		}
		fmt.Printf("  Job sheet written to: %s\n", batchTemplate)
		return
	}

	cat, err := loadCatalog(batchFiles)
	if err != nil {
		fail("%v", err)
	}
	rules, err := loadRules(batchRegional)
	if err != nil {
		fail("%v", err)
	}
	e, err := handling.NewEngine(cat.Providers(), rules)
	if err != nil {
		fail("%v", err)
	}

	var jobs []batch.Job
	if batchJobs != "" {
		f, err := os.Open(batchJobs)
		if err != nil {
			fail("%v", err)
		}
		jobs, err = workbook.ReadJobs(f)
		f.Close()
		if err != nil {
			fail("%v", err)
		}
	} else {
		for _, key := range cat.Keys() {
			for _, mode := range []handling.Mode{handling.ModeLifting, handling.ModeHauling} {
				jobs = append(jobs, batch.Job{Key: key, Mode: mode, Config: handling.DefaultConfiguration()})
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := batch.NewRunner(e, batch.Config{MaxConcurrency: batchConcurrency}).Run(ctx, jobs)

	header(fmt.Sprintf("BATCH RESULTS - %d JOBS", len(jobs)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Job\tLeft (m)\tRight (m)\tCracking\tFailure\tRollover\tResult\t")
	var entries []workbook.Entry
	infeasible := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %s\t-\t-\t-\t-\t-\terror: %v\t\n", r.Job, r.Err)
			continue
		}
		a := r.Artifact
		entries = append(entries, workbook.Entry{Artifact: a, Outcome: r.Outcome})
		if r.Outcome != nil && errors.Is(r.Outcome.Err(), segment.ErrInfeasible) {
			infeasible++
		}
		if a == nil {
			fmt.Fprintf(w, "  %s\t-\t-\t-\t-\t-\t%s\t\n", r.Job, r.Outcome.Status)
			continue
		}

		cracking, failure, rollover := "-", "-", "-"
		if f, ok := a.Lifting(); ok {
			cracking, failure = fmtFS(f.FSCracking), fmtFS(f.FSFailure)
		}
		if f, ok := a.Hauling(); ok {
			cracking, failure, rollover = fmtFS(f.FSCracking), fmtFS(f.FSFailure), fmtFS(f.FSRollover)
		}
		result := "pass"
		if !a.Passed() {
			result = "fail"
		}
		if r.Outcome != nil {
			result = r.Outcome.Status.String()
		}
		cfg := a.Configuration()
		fmt.Fprintf(w, "  %s\t%.3f\t%.3f\t%s\t%s\t%s\t%s\t\n", r.Job, cfg.LeftOverhang, cfg.RightOverhang, cracking, failure, rollover, result)
	}
	w.Flush()
	fmt.Println()

	if batchXLSX != "" {
		if err := workbook.Save(batchXLSX, entries); err != nil {
			fail("%v", err)
		}
		fmt.Printf("  Workbook written to: %s\n", batchXLSX)
	}
	if infeasible > 0 {
		fmt.Printf("  %d design job(s) found no admissible support location\n", infeasible)
	}
	if errs := batch.Errors(results); len(errs) > 0 {
		fail("%d of %d jobs failed", len(errs), len(jobs))
	}
}
