package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/sync/errgroup"

	"crosswarped.com/calsolve"
)

// Board labels are Turkish; the CLI owns the calendar-to-label mapping so
// the solver core never touches dates.
var monthLabels = map[time.Month]string{
	time.January: "OCA", time.February: "SUB", time.March: "MAR",
	time.April: "NIS", time.May: "MAY", time.June: "HAZ",
	time.July: "TEM", time.August: "AGU", time.September: "EYL",
	time.October: "EKI", time.November: "KAS", time.December: "ARA",
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday: "PZT", time.Tuesday: "SAL", time.Wednesday: "CAR",
	time.Thursday: "PER", time.Friday: "CUM", time.Saturday: "CMT",
	time.Sunday: "PAZ",
}

func queryForDate(d time.Time) calsolve.Query {
	return calsolve.Query{
		Day:     d.Day(),
		Month:   monthLabels[d.Month()],
		Weekday: weekdayLabels[d.Weekday()],
	}
}

func main() {
	date := flag.String("date", "", "Solve for a calendar date (YYYY-MM-DD, default today)")
	day := flag.Int("day", 0, "Day number label (overrides -date, use with -month and -weekday)")
	month := flag.String("month", "", "Month label on the board, e.g. OCA")
	weekday := flag.String("weekday", "", "Weekday label on the board, e.g. PZT")

	doAll := flag.Bool("all", false, "Enumerate every solution instead of the first")
	year := flag.Int("year", 0, "Solve every date of the given year and write results to -out")
	out := flag.String("out", "calendar_solutions.json", "Output file for -year results")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent queries during a -year sweep")

	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the search")

	profile := flag.Bool("profile", false, "Profile the search")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	solver, err := calsolve.NewDefaultSolver()
	if err != nil {
		fmt.Println("Error building solver:", err)
		os.Exit(1)
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			fmt.Println("Error creating profile file:", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			fmt.Println("Error creating memory profile file:", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Println("Error starting CPU profile:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *year != 0 {
		if err := sweepYear(ctx, solver, *year, *workers, *out); err != nil {
			fmt.Println("Error during year sweep:", err)
			os.Exit(1)
		}
	} else {
		q, err := resolveQuery(*date, *day, *month, *weekday)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if err := solveOne(ctx, solver, q, *doAll); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	}

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}

	if ctx.Err() != nil {
		fmt.Println("Context error:", ctx.Err())
	}
}

func resolveQuery(date string, day int, month, weekday string) (calsolve.Query, error) {
	if day != 0 || month != "" || weekday != "" {
		if day == 0 || month == "" || weekday == "" {
			return calsolve.Query{}, fmt.Errorf("-day, -month and -weekday must be given together")
		}
		return calsolve.Query{Day: day, Month: month, Weekday: weekday}, nil
	}
	if date == "" {
		return queryForDate(time.Now()), nil
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return calsolve.Query{}, fmt.Errorf("parsing -date: %w", err)
	}
	return queryForDate(d), nil
}

func solveOne(ctx context.Context, solver *calsolve.Solver, q calsolve.Query, all bool) error {
	fmt.Printf("Solving for %v...\n", q)

	if !all {
		result, err := solver.Solve(ctx, q)
		if err != nil {
			return err
		}
		fmt.Println("--------------------------------")
		fmt.Printf("Status: %v (%d nodes, %d memo hits, %v)\n",
			result.Status, result.Stats.Nodes, result.Stats.MemoHits, result.Stats.Duration)
		if result.Solution != nil {
			fmt.Println(solver.Render(result.Solution, result.Target).Repr())
		}
		return nil
	}

	seq, err := solver.Solutions(ctx, q)
	if err != nil {
		return err
	}
	target, err := solver.Board().TargetMask(q)
	if err != nil {
		return err
	}

	count := 0
	for sol := range seq {
		count++
		fmt.Println("--------------------------------")
		fmt.Printf("Solution #%d:\n%s\n", count, solver.Render(&sol, target).Repr())
	}
	fmt.Println("--------------------------------")
	if ctx.Err() != nil {
		fmt.Printf("Stopped early after %d solution(s): %v\n", count, ctx.Err())
	} else {
		fmt.Printf("Done: %d solution(s)\n", count)
	}
	return nil
}

type sweepEntry struct {
	Date     string `json:"date"`
	Query    string `json:"query"`
	Status   string `json:"status"`
	Solution string `json:"solution,omitempty"`
	Nodes    int    `json:"nodes"`
}

// sweepYear solves every date of a year. Queries are independent and each
// owns its private session, so they fan out to a bounded worker group; the
// shared placement table is read-only.
func sweepYear(ctx context.Context, solver *calsolve.Solver, year, workers int, outFile string) error {
	var dates []time.Time
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	fmt.Printf("Solving %d dates with %d workers...\n", len(dates), workers)

	// Each worker writes only its own index.
	entries := make([]sweepEntry, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range dates {
		g.Go(func() error {
			q := queryForDate(d)
			result, err := solver.Solve(ctx, q)
			if err != nil {
				return fmt.Errorf("solving %v: %w", q, err)
			}

			entry := sweepEntry{
				Date:   d.Format("2006-01-02"),
				Query:  q.String(),
				Status: result.Status.String(),
				Nodes:  result.Stats.Nodes,
			}
			if result.Solution != nil {
				entry.Solution = solver.Render(result.Solution, result.Target).Repr()
			}

			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outFile, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}

	solved := 0
	for _, e := range entries {
		if e.Status == calsolve.StatusSolved.String() {
			solved++
		}
	}
	fmt.Printf("Done: %d/%d dates solved, results in %s\n", solved, len(dates), outFile)
	return nil
}
