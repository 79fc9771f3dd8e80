package vic3d

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stages and gauges recorded by the scene.
const (
	StagePick       = "pick"
	StageRegenerate = "regenerate"

	CountVertices   = "vertices"
	CountCandidates = "candidates"
)

// StageStats accumulates the runs of one stage since the last Reset.
type StageStats struct {
	Calls int
	Last  time.Duration
	Max   time.Duration
	Total time.Duration
}

func (s StageStats) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Profiler times the scene stages over a reporting window and keeps the
// latest value of each gauge. Order lists stages by first use and survives
// Reset, so reports keep a stable layout.
type Profiler struct {
	Stages map[string]*StageStats
	Counts map[string]int
	Order  []string

	started map[string]time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Stages:  make(map[string]*StageStats),
		Counts:  make(map[string]int),
		started: make(map[string]time.Time),
	}
}

func (p *Profiler) BeginScope(stage string) {
	p.started[stage] = time.Now()
	if _, ok := p.Stages[stage]; !ok {
		p.Stages[stage] = &StageStats{}
		p.Order = append(p.Order, stage)
	}
}

// EndScope records the run started by the last BeginScope of stage. Without
// one it returns 0 and records nothing.
func (p *Profiler) EndScope(stage string) time.Duration {
	start, ok := p.started[stage]
	if !ok {
		return 0
	}
	delete(p.started, stage)
	d := time.Since(start)
	st := p.Stages[stage]
	st.Calls++
	st.Last = d
	st.Total += d
	if d > st.Max {
		st.Max = d
	}
	return d
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset starts a new reporting window. Gauges keep their values.
func (p *Profiler) Reset() {
	for _, st := range p.Stages {
		*st = StageStats{}
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (p *Profiler) StatsString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s %6s %9s %9s %9s\n", "stage", "calls", "last ms", "mean ms", "max ms")
	for _, name := range p.Order {
		st := p.Stages[name]
		fmt.Fprintf(&sb, "%-12s %6d %9.2f %9.2f %9.2f\n", name, st.Calls, ms(st.Last), ms(st.Mean()), ms(st.Max))
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%-12s %6d\n", k, p.Counts[k])
	}
	return sb.String()
}
