package workflows_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/workflows"
)

func newEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *workflows.CoverageActivities) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := &workflows.CoverageActivities{}
	env.RegisterActivity(acts)
	env.RegisterWorkflow(workflows.CoverageRefreshWorkflow)
	return env, acts
}

func TestCoverageRefreshWorkflow(t *testing.T) {
	env, acts := newEnv(t)
	files := []string{"data/ch/sbb.json", "data/de/db.json"}

	env.OnActivity(acts.ListFiles, mock.Anything, "data").Return(files, nil)
	env.OnActivity(acts.FillFile, mock.Anything, "data/ch/sbb.json", mock.Anything).Return(false, nil)
	env.OnActivity(acts.FillFile, mock.Anything, "data/de/db.json", mock.Anything).Return(true, nil)
	env.OnActivity(acts.WriteAggregate, mock.Anything, "data", "coverage.geojson").Return(3, nil)

	env.ExecuteWorkflow(workflows.CoverageRefreshWorkflow, workflows.RefreshInput{
		Dir:     "data",
		Output:  "coverage.geojson",
		Options: usecases.BatchOptions{Threshold: 5000, Decimals: 2},
	})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var result usecases.BatchResult
	if err := env.GetWorkflowResult(&result); err != nil {
		t.Fatal(err)
	}
	if result.Files != 2 || result.Filled != 1 || result.Features != 3 {
		t.Errorf("result = %+v", result)
	}
	env.AssertExpectations(t)
}

func TestCoverageRefreshWorkflow_StopsAtFirstFailure(t *testing.T) {
	env, acts := newEnv(t)

	env.OnActivity(acts.ListFiles, mock.Anything, "data").Return([]string{"data/ch/sbb.json", "data/de/db.json"}, nil)
	env.OnActivity(acts.FillFile, mock.Anything, "data/ch/sbb.json", mock.Anything).Return(false, errors.New("missing region"))

	env.ExecuteWorkflow(workflows.CoverageRefreshWorkflow, workflows.RefreshInput{Dir: "data", Output: "coverage.geojson"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow error")
	}
	env.AssertNotCalled(t, "FillFile", mock.Anything, "data/de/db.json", mock.Anything)
	env.AssertNotCalled(t, "WriteAggregate", mock.Anything, mock.Anything, mock.Anything)
}
