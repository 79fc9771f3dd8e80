package vic3d

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerStages(t *testing.T) {
	p := NewProfiler()
	assert.Zero(t, p.EndScope("never"))
	assert.Empty(t, p.Order)

	p.BeginScope(StagePick)
	p.BeginScope(StageRegenerate)
	p.BeginScope(StagePick)
	assert.GreaterOrEqual(t, int64(p.EndScope(StagePick)), int64(0))
	p.EndScope(StageRegenerate)
	assert.Equal(t, []string{StagePick, StageRegenerate}, p.Order)

	// a second end without a begin is ignored
	p.EndScope(StagePick)
	assert.Equal(t, 1, p.Stages[StagePick].Calls)

	p.SetCount(CountVertices, 12)
	p.SetCount(CountCandidates, 3)
	s := p.StatsString()
	assert.Less(t, strings.Index(s, StagePick), strings.Index(s, StageRegenerate))
	assert.Less(t, strings.Index(s, CountCandidates), strings.Index(s, CountVertices))
	assert.Contains(t, s, " 12\n")

	p.Reset()
	assert.Zero(t, p.Stages[StagePick].Calls)
	assert.Zero(t, p.Stages[StagePick].Max)
	assert.Len(t, p.Order, 2)
	assert.Equal(t, 12, p.Counts[CountVertices])
}

func TestStageStatsMean(t *testing.T) {
	assert.Zero(t, StageStats{}.Mean())
	st := StageStats{Calls: 4, Total: 10 * time.Millisecond}
	assert.Equal(t, 2500*time.Microsecond, st.Mean())
}

func TestSceneProfilesRegeneration(t *testing.T) {
	h := newHarness(t)
	require.Contains(t, h.s.Profiler.Order, StageRegenerate)
	assert.Positive(t, h.s.Profiler.Counts[CountVertices])
	before := h.s.Profiler.Stages[StageRegenerate].Calls

	h.s.Notify(ChangeColorMode)
	assert.Equal(t, before+1, h.s.Profiler.Stages[StageRegenerate].Calls)

	h.moveTo(viewCenter)
	h.press(MouseButtonLeft)
	assert.Contains(t, h.s.Profiler.Order, StagePick)
	assert.Positive(t, h.s.Profiler.Stages[StagePick].Calls)
}
