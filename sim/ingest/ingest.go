// Package ingest reads a test-case directory's CSV input tables (§6)
// into a sim.SystemModel. Grounded on the teacher's
// sim/workload_config.go CSV-reading idiom (encoding/csv, header row,
// io.EOF loop, per-row error wrapping with row number); cycle detection
// over parent_component references uses
// github.com/katalvlaran/lvlath/core + .../dfs, contributed by the
// katalvlaran-lvlath example repo.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/anshjyot/hsa/sim"
)

const (
	tasksFile        = "tasks.csv"
	architectureFile = "architecture.csv"
	budgetsFile      = "budgets.csv"
	commLinksFile    = "comm_links.csv"
)

// LoadDirectory reads tasks.csv, architecture.csv, and budgets.csv (and
// comm_links.csv if present) from dir and assembles a sim.SystemModel.
// Input-shape errors (§7 kind 1: missing column, unknown component/core
// reference, duplicate id, a parent_component cycle) are fatal and abort
// before analysis, per §7.
func LoadDirectory(dir string) (*sim.SystemModel, error) {
	cores, err := readArchitecture(filepath.Join(dir, architectureFile))
	if err != nil {
		return nil, err
	}

	budgets, err := readBudgets(filepath.Join(dir, budgetsFile))
	if err != nil {
		return nil, err
	}

	jitter, err := readCommLinksIfPresent(filepath.Join(dir, commLinksFile))
	if err != nil {
		return nil, err
	}

	tasks, err := readTasks(filepath.Join(dir, tasksFile), jitter)
	if err != nil {
		return nil, err
	}

	return assemble(cores, budgets, tasks)
}

// coreRow is one architecture.csv row.
type coreRow struct {
	id          string
	speedFactor float64
	scheduler   sim.Scheduler
}

// budgetRow is one budgets.csv row.
type budgetRow struct {
	componentID    string
	scheduler      sim.Scheduler
	q, p           float64
	coreID         string
	parentComponent string // empty if a direct core child
	priority       int
}

// taskRow is one tasks.csv row.
type taskRow struct {
	id          string
	wcet        float64
	period      float64
	deadline    float64
	componentID string
	priority    int
	taskType    sim.TaskType
	jitter      float64
}

func readArchitecture(path string) ([]coreRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "core_id", "speed_factor", "scheduler")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", architectureFile, err)
	}

	seen := make(map[string]bool)
	var out []coreRow
	for rowNum, row := range records {
		id := row[idx["core_id"]]
		if seen[id] {
			return nil, fmt.Errorf("%s row %d: duplicate core_id %q", architectureFile, rowNum, id)
		}
		seen[id] = true

		speed, err := strconv.ParseFloat(row[idx["speed_factor"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid speed_factor: %w", architectureFile, rowNum, err)
		}
		sched, err := sim.ParseScheduler(row[idx["scheduler"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", architectureFile, rowNum, err)
		}

		out = append(out, coreRow{id: id, speedFactor: speed, scheduler: sched})
	}
	return out, nil
}

func readBudgets(path string) ([]budgetRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "component_id", "scheduler", "budget", "period", "core_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", budgetsFile, err)
	}
	parentIdx, hasParent := idx["parent_component"]
	if !hasParent {
		parentIdx = -1
	}
	priorityIdx, hasPriority := idx["priority"]
	if !hasPriority {
		priorityIdx = -1
	}

	seen := make(map[string]bool)
	var out []budgetRow
	for rowNum, row := range records {
		id := row[idx["component_id"]]
		if seen[id] {
			return nil, fmt.Errorf("%s row %d: duplicate component_id %q", budgetsFile, rowNum, id)
		}
		seen[id] = true

		sched, err := sim.ParseScheduler(row[idx["scheduler"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", budgetsFile, rowNum, err)
		}
		q, err := strconv.ParseFloat(row[idx["budget"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid budget: %w", budgetsFile, rowNum, err)
		}
		p, err := strconv.ParseFloat(row[idx["period"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid period: %w", budgetsFile, rowNum, err)
		}

		br := budgetRow{componentID: id, scheduler: sched, q: q, p: p, coreID: row[idx["core_id"]]}
		if parentIdx >= 0 && row[parentIdx] != "" {
			br.parentComponent = row[parentIdx]
		}
		if priorityIdx >= 0 && row[priorityIdx] != "" {
			pr, err := strconv.Atoi(row[priorityIdx])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid priority: %w", budgetsFile, rowNum, err)
			}
			br.priority = pr
		}
		out = append(out, br)
	}
	return out, nil
}

func readCommLinksIfPresent(path string) (map[string]float64, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "destination_task", "delay")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", commLinksFile, err)
	}

	out := make(map[string]float64)
	for rowNum, row := range records {
		dest := row[idx["destination_task"]]
		delay, err := strconv.ParseFloat(row[idx["delay"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid delay: %w", commLinksFile, rowNum, err)
		}
		// Maximum delay per destination wins when duplicates appear (§6).
		if cur, ok := out[dest]; !ok || delay > cur {
			out[dest] = delay
		}
	}
	return out, nil
}

func readTasks(path string, jitter map[string]float64) ([]taskRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "task_name", "wcet", "period", "component_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tasksFile, err)
	}
	deadlineIdx, hasDeadline := idx["deadline"]
	if !hasDeadline {
		deadlineIdx = -1
	}
	priorityIdx, hasPriority := idx["priority"]
	if !hasPriority {
		priorityIdx = -1
	}
	typeIdx, hasType := idx["type"]
	if !hasType {
		typeIdx = -1
	}

	seen := make(map[string]bool)
	var out []taskRow
	for rowNum, row := range records {
		id := row[idx["task_name"]]
		if seen[id] {
			return nil, fmt.Errorf("%s row %d: duplicate task_name %q", tasksFile, rowNum, id)
		}
		seen[id] = true

		wcet, err := strconv.ParseFloat(row[idx["wcet"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid wcet: %w", tasksFile, rowNum, err)
		}
		period, err := strconv.ParseFloat(row[idx["period"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid period: %w", tasksFile, rowNum, err)
		}

		deadline := period
		if deadlineIdx >= 0 && row[deadlineIdx] != "" {
			deadline, err = strconv.ParseFloat(row[deadlineIdx], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid deadline: %w", tasksFile, rowNum, err)
			}
		}

		priority := 0
		if priorityIdx >= 0 && row[priorityIdx] != "" {
			priority, err = strconv.Atoi(row[priorityIdx])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid priority: %w", tasksFile, rowNum, err)
			}
		}

		taskType := sim.TaskHard
		if typeIdx >= 0 && row[typeIdx] != "" {
			taskType = sim.TaskType(row[typeIdx])
		}

		out = append(out, taskRow{
			id:          id,
			wcet:        wcet,
			period:      period,
			deadline:    deadline,
			componentID: row[idx["component_id"]],
			priority:    priority,
			taskType:    taskType,
			jitter:      jitter[id],
		})
	}
	return out, nil
}

// assemble builds the Core/Component/Task tree from the three parsed
// tables, validating cross-references and rejecting parent_component
// cycles (§7 kind 1).
func assemble(cores []coreRow, budgets []budgetRow, tasks []taskRow) (*sim.SystemModel, error) {
	if err := checkParentCycles(budgets); err != nil {
		return nil, err
	}

	coreByID := make(map[string]*sim.Core, len(cores))
	model := &sim.SystemModel{}
	for _, cr := range cores {
		c := &sim.Core{ID: cr.id, Scheduler: cr.scheduler, SpeedFactor: cr.speedFactor}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", architectureFile, err)
		}
		coreByID[cr.id] = c
		model.Cores = append(model.Cores, c)
	}

	compByID := make(map[string]*sim.Component, len(budgets))
	for _, br := range budgets {
		iface, err := sim.NewPRM(br.q, br.p)
		if err != nil {
			return nil, fmt.Errorf("%s: component %s: %w", budgetsFile, br.componentID, err)
		}
		comp := &sim.Component{
			ID:        br.componentID,
			Scheduler: br.scheduler,
			Interface: iface,
			Priority:  br.priority,
			CoreID:    br.coreID,
		}
		compByID[br.componentID] = comp
	}

	for _, br := range budgets {
		comp := compByID[br.componentID]
		if br.parentComponent != "" {
			parent, ok := compByID[br.parentComponent]
			if !ok {
				return nil, fmt.Errorf("%s: component %s references unknown parent_component %q", budgetsFile, br.componentID, br.parentComponent)
			}
			comp.Parent = parent
			parent.Children = append(parent.Children, comp)
			continue
		}
		core, ok := coreByID[br.coreID]
		if !ok {
			return nil, fmt.Errorf("%s: component %s references unknown core_id %q", budgetsFile, br.componentID, br.coreID)
		}
		core.Components = append(core.Components, comp)
	}

	for _, tr := range tasks {
		comp, ok := compByID[tr.componentID]
		if !ok {
			return nil, fmt.Errorf("%s: task %s references unknown component_id %q", tasksFile, tr.id, tr.componentID)
		}
		t := &sim.Task{
			ID:          tr.id,
			WCET:        tr.wcet,
			Period:      tr.period,
			Deadline:    tr.deadline,
			Priority:    tr.priority,
			Type:        tr.taskType,
			Jitter:      tr.jitter,
			ComponentID: tr.componentID,
			CoreID:      comp.CoreID,
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", tasksFile, err)
		}
		comp.Tasks = append(comp.Tasks, t)
	}

	return model, nil
}

// checkParentCycles builds a directed graph of parent_component edges
// (child -> parent) and rejects the input if it contains a cycle,
// per §7 kind 1. Grounded on katalvlaran-lvlath's dfs.DetectCycles.
func checkParentCycles(budgets []budgetRow) error {
	g := core.NewGraph(core.WithDirected(true))
	for _, br := range budgets {
		if err := g.AddVertex(br.componentID); err != nil {
			return fmt.Errorf("%s: %w", budgetsFile, err)
		}
	}
	for _, br := range budgets {
		if br.parentComponent == "" {
			continue
		}
		if !g.HasVertex(br.parentComponent) {
			continue // reported as an unknown-reference error later in assemble
		}
		if _, err := g.AddEdge(br.componentID, br.parentComponent, 0); err != nil {
			return fmt.Errorf("%s: %w", budgetsFile, err)
		}
	}

	found, cycles, err := dfs.DetectCycles(g)
	if err != nil {
		return fmt.Errorf("%s: detecting parent_component cycles: %w", budgetsFile, err)
	}
	if found {
		return fmt.Errorf("%s: parent_component cycle detected: %v", budgetsFile, cycles[0])
	}
	return nil
}

// readCSV opens path, reads its header row, and returns the remaining
// rows alongside the header for column lookup.
func readCSV(path string) (records [][]string, header []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer file.Close() //nolint:errcheck // read-only file; close error is not actionable

	reader := csv.NewReader(file)
	header, err = reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s header: %w", filepath.Base(path), err)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		records = append(records, row)
	}
	return records, header, nil
}

// columnIndex maps required column names to their position in header,
// erroring out with all missing columns named at once (§7 kind 1:
// "missing required column").
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %v", missing)
	}
	return idx, nil
}
