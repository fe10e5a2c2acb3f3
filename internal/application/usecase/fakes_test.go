package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/shopspring/decimal"
)

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func obs(date, value string) entity.Observation {
	o := entity.Observation{Date: day(date)}
	if value != "" {
		o.Value = decimal.NewNullDecimal(decimal.RequireFromString(value))
	}
	return o
}

func series(id int, observations ...entity.Observation) entity.TimeSeries {
	if observations == nil {
		observations = []entity.Observation{}
	}
	return entity.TimeSeries{VariableID: id, Observations: observations}
}

// fakeStatsRepository serve séries em memória e mede a concorrência.
type fakeStatsRepository struct {
	series    map[int]entity.TimeSeries
	errs      map[int]error
	variables map[int]entity.Variable
	delay     time.Duration

	mu          sync.Mutex
	calls       map[int]int
	inFlight    int
	maxInFlight int
	closed      bool
}

func newFakeStatsRepository() *fakeStatsRepository {
	return &fakeStatsRepository{
		series:    map[int]entity.TimeSeries{},
		errs:      map[int]error{},
		variables: map[int]entity.Variable{},
		calls:     map[int]int{},
	}
}

func (f *fakeStatsRepository) ListVariables(ctx context.Context) ([]entity.Variable, error) {
	out := []entity.Variable{}
	for id := 1; id <= 1000; id++ {
		if v, ok := f.variables[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStatsRepository) GetVariable(ctx context.Context, id int) (entity.Variable, error) {
	v, ok := f.variables[id]
	if !ok {
		return entity.Variable{}, fmt.Errorf("variable %d not found", id)
	}
	return v, nil
}

func (f *fakeStatsRepository) GetSeries(ctx context.Context, id int, window entity.QueryWindow) (entity.TimeSeries, error) {
	f.mu.Lock()
	f.calls[id]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.errs[id]; err != nil {
		return entity.TimeSeries{}, err
	}
	if s, ok := f.series[id]; ok {
		return s, nil
	}
	return entity.EmptySeries(id), nil
}

func (f *fakeStatsRepository) Close() error {
	f.closed = true
	return nil
}

// fakeConsole records log lines and discards everything else.
type fakeConsole struct {
	mu       sync.Mutex
	logs     []string
	bars     []string
	rendered []string
}

func (c *fakeConsole) log(level, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, level+": "+fmt.Sprintf(format, a...))
}

func (c *fakeConsole) has(level, substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.logs {
		if strings.HasPrefix(l, level+": ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func (c *fakeConsole) Print(a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rendered = append(c.rendered, fmt.Sprint(a...))
}
func (c *fakeConsole) Printf(format string, a ...interface{}) {}
func (c *fakeConsole) Println(a ...interface{})               {}

func (c *fakeConsole) LogInfo(format string, a ...interface{})    { c.log("info", format, a...) }
func (c *fakeConsole) LogWarning(format string, a ...interface{}) { c.log("warning", format, a...) }
func (c *fakeConsole) LogError(format string, a ...interface{})   { c.log("error", format, a...) }
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) { c.log("success", format, a...) }

func (c *fakeConsole) Status(message string) types.StatusHandle         { return noopHandle{} }
func (c *fakeConsole) ProgressWithTotal(total int) types.ProgressHandle { return noopHandle{} }
func (c *fakeConsole) CreateTable() types.TableInterface                { return &fakeTable{} }

func (c *fakeConsole) DisplaySeriesBars(title string, points []types.SeriesPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bars = append(c.bars, fmt.Sprintf("%s:%d", title, len(points)))
}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment()    {}
func (noopHandle) Stop()         {}

type fakeTable struct {
	rows [][]string
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) {}

func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *fakeTable) Render() string {
	lines := make([]string, len(t.rows))
	for i, r := range t.rows {
		lines[i] = strings.Join(r, "|")
	}
	return strings.Join(lines, "\n")
}
