package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"google.golang.org/api/iterator"

	"crosswarped.com/calsolve"
)

type SolveDateRequest struct {
	Day          int    `json:"day"`
	MonthLabel   string `json:"monthLabel"`
	WeekdayLabel string `json:"weekdayLabel"`
	MaxSolutions int    `json:"maxSolutions"`
	// BoardScope selects an alternate board definition (localized labels)
	// from BigQuery; empty means the built-in calendar board.
	BoardScope string `json:"boardScope"`
}

type SolveDateResponse struct {
	Success   bool     `json:"success"`
	Status    string   `json:"status,omitempty"`
	Solutions []string `json:"solutions"`
	Nodes     int      `json:"nodes,omitempty"`
	Error     string   `json:"error,omitempty"`
}

var defaultSolver *calsolve.Solver

// getBoard loads a board definition from BigQuery: one row per cell with
// its grid position and label, empty label marking a blank cell.
func getBoard(ctx context.Context, scope string) ([][]string, error) {
	client, err := bigquery.NewClient(ctx, "calsolve-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT row_idx, col_idx, label FROM `calsolve-x.Boards.board_cells` WHERE scope = %q", scope)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	type boardCell struct {
		row, col int
		label    string
	}
	var cells []boardCell
	height, width := 0, 0

	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		r, ok := row[0].(int64)
		if !ok {
			return nil, fmt.Errorf("row[0] is not an integer: %v", row[0])
		}
		c, ok := row[1].(int64)
		if !ok {
			return nil, fmt.Errorf("row[1] is not an integer: %v", row[1])
		}
		label, ok := row[2].(string)
		if !ok {
			return nil, fmt.Errorf("row[2] is not a string: %v", row[2])
		}

		cells = append(cells, boardCell{row: int(r), col: int(c), label: label})
		height = max(height, int(r)+1)
		width = max(width, int(c)+1)
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("no board cells found for scope %q", scope)
	}

	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
	}
	for _, cell := range cells {
		grid[cell.row][cell.col] = cell.label
	}
	return grid, nil
}

func execute(ctx context.Context, logger *slog.Logger, req SolveDateRequest) (*SolveDateResponse, error) {
	if req.Day < 1 || req.Day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if req.MonthLabel == "" || req.WeekdayLabel == "" {
		return nil, fmt.Errorf("monthLabel and weekdayLabel must not be empty")
	}
	if req.MaxSolutions <= 0 {
		req.MaxSolutions = 1
	}
	if req.MaxSolutions > 10 {
		return nil, fmt.Errorf("maxSolutions must be at most 10")
	}

	solver := defaultSolver
	if req.BoardScope != "" {
		grid, err := getBoard(ctx, req.BoardScope)
		if err != nil {
			return nil, fmt.Errorf("getBoard: %w", err)
		}
		logger.Info("loaded board definition", "scope", req.BoardScope, "rows", len(grid))

		solver, err = calsolve.NewSolver(grid, calsolve.DefaultPieces())
		if err != nil {
			return nil, fmt.Errorf("NewSolver: %w", err)
		}
	}

	q := calsolve.Query{Day: req.Day, Month: req.MonthLabel, Weekday: req.WeekdayLabel}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := solver.Board().TargetMask(q)
	if err != nil {
		return nil, err
	}

	seq, err := solver.Solutions(ctx, q)
	if err != nil {
		return nil, err
	}

	var rendered []string
	for sol := range seq {
		rendered = append(rendered, solver.Render(&sol, target).Repr())
		if len(rendered) >= req.MaxSolutions {
			break
		}
	}

	resp := &SolveDateResponse{Success: true, Solutions: rendered}
	switch {
	case ctx.Err() != nil && len(rendered) == 0:
		resp.Status = calsolve.StatusCancelled.String()
	case len(rendered) == 0:
		resp.Status = calsolve.StatusNoSolution.String()
	default:
		resp.Status = calsolve.StatusSolved.String()
	}
	logger.Info("solved", "query", q.String(), "status", resp.Status, "solutions", len(rendered))
	return resp, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveDate(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	logger := slog.Default().With("handler", "solve-date")

	var req SolveDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveDateResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	resp, err := execute(r.Context(), logger, req)
	if err != nil {
		logger.Warn("solve failed", "error", err)
		resp = &SolveDateResponse{Success: false, Error: err.Error()}
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("marshaling response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	var err error
	defaultSolver, err = calsolve.NewDefaultSolver()
	if err != nil {
		log.Fatalf("calsolve.NewDefaultSolver: %v\n", err)
	}

	funcframework.RegisterHTTPFunction("/solve-date", solveDate)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
