package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()

	require.NoError(t, g.AddTask(domain.Leaf("task1")))

	err := g.AddTask(domain.Leaf("task1"))
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "task1", zErr.Metadata()["task_name"])
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(domain.Series("A", "B")))
	require.NoError(t, g.AddTask(domain.Parallel("B", "C")))
	require.NoError(t, g.AddTask(domain.Series("C", "A")))

	err := g.Validate()
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "A -> B -> C -> A", zErr.Metadata()["cycle"])
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(domain.Series("A", "ghost")))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing dependency")
}

func TestGraph_Task_NotFound(t *testing.T) {
	g := domain.NewGraph()

	_, err := g.Task("nope")
	require.Error(t, err)
	assert.ErrorContains(t, err, "task not found")
}

func TestDefaultGraph(t *testing.T) {
	g := domain.DefaultGraph()
	require.NoError(t, g.Validate())

	build, err := g.Task(domain.TaskBuild)
	require.NoError(t, err)
	assert.Equal(t, domain.KindParallel, build.Kind)
	assert.ElementsMatch(t, []string{"html", "styles", "js", "images", "misc"}, build.Steps)

	cbuild, err := g.Task(domain.TaskCleanBuild)
	require.NoError(t, err)
	assert.Equal(t, domain.KindSeries, cbuild.Kind)
	assert.Equal(t, []string{domain.TaskClean, domain.TaskBuild}, cbuild.Steps)

	def, err := g.Task(domain.TaskDefault)
	require.NoError(t, err)
	assert.Equal(t, domain.KindSeries, def.Kind)
	assert.Equal(t, []string{domain.TaskClean, domain.TaskBuild, domain.TaskDevelop}, def.Steps)

	develop, err := g.Task(domain.TaskDevelop)
	require.NoError(t, err)
	assert.Equal(t, domain.KindParallel, develop.Kind)
	assert.Equal(t, []string{domain.TaskServe, domain.TaskWatch}, develop.Steps)

	for _, name := range []string{"clean", "html", "styles", "images", "js", "misc", "watch", "serve"} {
		task, err := g.Task(name)
		require.NoError(t, err, name)
		assert.Equal(t, domain.KindLeaf, task.Kind, name)
	}
}

func TestGraph_Reaches(t *testing.T) {
	g := domain.DefaultGraph()

	assert.True(t, g.Reaches(domain.TaskDefault, domain.TaskServe))
	assert.True(t, g.Reaches(domain.TaskServe, domain.TaskServe))
	assert.True(t, g.Reaches(domain.TaskCleanBuild, string(domain.GroupStyles)))
	assert.False(t, g.Reaches(domain.TaskCleanBuild, domain.TaskServe))
	assert.False(t, g.Reaches(domain.TaskWatch, domain.TaskServe))
	assert.False(t, g.Reaches("unknown", domain.TaskServe))
}
