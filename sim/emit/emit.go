// Package emit writes the solution CSV table (§6). Column semantics are
// grounded on original_source/solution_writer.py's write_solution_csv;
// the CSV-writing mechanics follow the teacher's encoding/csv idiom.
package emit

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"github.com/anshjyot/hsa/sim"
)

var header = []string{
	"task_name",
	"component_id",
	"task_schedulable",
	"avg_response_time",
	"max_response_time",
	"wcrt",
	"violates_deadline",
	"component_schedulable",
}

// Row is one solution-table row (§6's output shape).
type Row struct {
	TaskName             string
	ComponentID          string
	TaskSchedulable       bool
	AvgResponseTime      float64
	MaxResponseTime      float64
	WCRT                 float64
	ViolatesDeadline     bool
	ComponentSchedulable bool
}

// BuildRows assembles the solution table from a hierarchical Verdict and
// optional simulation results (simResults may be nil to report static
// analysis only, in which case avg/max response time come from WCRT).
func BuildRows(model *sim.SystemModel, verdict *sim.Verdict, simResults map[string]sim.TaskSimResult) []Row {
	var rows []Row

	for _, core := range model.Cores {
		for _, top := range core.Components {
			for _, comp := range top.Flatten() {
				compResult := verdict.Components[core.ID][comp.ID]
				schedulable := verdict.ComponentSchedulable(core.ID, comp.ID)

				for _, t := range comp.Tasks {
					wcrt := wcrtFor(compResult, t.ID)
					violates := wcrt > t.Deadline

					avgResp, maxResp := wcrt, wcrt
					taskSchedulable := wcrt <= t.Deadline
					if simResults != nil {
						if r, ok := simResults[t.ID]; ok {
							avgResp, maxResp = r.AvgRespTime, r.MaxRespTime
							taskSchedulable = r.Schedulable
						}
					}

					rows = append(rows, Row{
						TaskName:             t.ID,
						ComponentID:          comp.ID,
						TaskSchedulable:       taskSchedulable,
						AvgResponseTime:      avgResp,
						MaxResponseTime:      maxResp,
						WCRT:                 wcrt,
						ViolatesDeadline:     violates,
						ComponentSchedulable: schedulable,
					})
				}
			}
		}
	}

	return rows
}

// wcrtFor looks up a task's worst-case response time from a component's
// result, preferring the BDR WCRT (the BDR/EDF-or-FPS test that §4.3
// actually gates schedulability on); falls back to +Inf if absent.
func wcrtFor(res *sim.ComponentResult, taskID string) float64 {
	if res == nil {
		return math.Inf(1)
	}
	if wcrt, ok := res.BDRWCRT[taskID]; ok {
		return wcrt
	}
	return math.Inf(1)
}

// WriteCSV writes rows to filename in the §6 solution-table column order.
func WriteCSV(rows []Row, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close() //nolint:errcheck // flush error below is what matters

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing %s header: %w", filename, err)
	}

	for _, r := range rows {
		record := []string{
			r.TaskName,
			r.ComponentID,
			boolCol(r.TaskSchedulable),
			fmt.Sprintf("%.2f", r.AvgResponseTime),
			fmt.Sprintf("%.2f", r.MaxResponseTime),
			fmt.Sprintf("%.2f", r.WCRT),
			boolCol(r.ViolatesDeadline),
			boolCol(r.ComponentSchedulable),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing %s row for task %s: %w", filename, r.TaskName, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", filename, err)
	}
	return nil
}

func boolCol(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
