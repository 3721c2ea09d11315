package emulator

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"model-platform-sdk/internal/adapters/secondary/kserve"
	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
	"model-platform-sdk/internal/testutil"
)

const serverID = "mhs"

func newTestRegistry(t *testing.T, mirror ports.ServingMirror) *Registry {
	t.Helper()
	return NewRegistry(NewMemoryStore(), Options{
		ServerID:   serverID,
		User:       "admin",
		Password:   "admin",
		StorageDir: t.TempDir(),
		Mirror:     mirror,
	})
}

func seedModel(t *testing.T, r *Registry) *api.ModelInstanceEntity {
	t.Helper()
	ctx := context.Background()

	ws, err := r.AddModelHistory(ctx, serverID, &api.AddModelHistoryRequest{ModelName: "ws"})
	require.NoError(t, err)
	exp, err := r.AddExperiment(ctx, serverID, &api.ExperimentEntity{ExperimentID: "exp-1", ModelHistoryID: ws.ModelHistoryID})
	require.NoError(t, err)
	m, err := r.AddModelInstance(ctx, serverID, &api.ModelInstanceEntity{ModelID: "model-1", ModelName: "mnist", ExperimentID: exp.ExperimentID})
	require.NoError(t, err)
	return m
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Insert(ctx, "k", "b", map[string]int{"v": 1}))
	require.NoError(t, s.Insert(ctx, "k", "a", map[string]int{"v": 2}))
	assert.ErrorIs(t, s.Insert(ctx, "k", "a", map[string]int{"v": 3}), ports.ErrRecordExists)

	require.NoError(t, s.Put(ctx, "k", "b", map[string]int{"v": 10}))

	var got map[string]int
	require.NoError(t, s.Get(ctx, "k", "b", &got))
	assert.Equal(t, 10, got["v"])
	assert.ErrorIs(t, s.Get(ctx, "other", "b", &got), ports.ErrRecordNotFound)

	var seen []string
	require.NoError(t, s.List(ctx, "k", func(raw []byte) error {
		seen = append(seen, string(raw))
		return nil
	}))
	assert.Equal(t, []string{`{"v":10}`, `{"v":2}`}, seen)

	require.NoError(t, s.Delete(ctx, "k", "b"))
	assert.ErrorIs(t, s.Delete(ctx, "k", "b"), ports.ErrRecordNotFound)
}

func TestRegistry_Login(t *testing.T) {
	r := newTestRegistry(t, nil)

	token, err := r.Login("admin", "admin")
	require.NoError(t, err)
	assert.True(t, r.Authenticate(token))
	assert.False(t, r.Authenticate("forged"))

	_, err = r.Login("admin", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegistry_UnknownServer(t *testing.T) {
	r := newTestRegistry(t, nil)

	_, err := r.AddModelHistory(context.Background(), "other", &api.AddModelHistoryRequest{ModelName: "ws"})
	assert.ErrorIs(t, err, domain.ErrUnknownServer)
}

func TestRegistry_Hierarchy(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()

	_, err := r.AddExperiment(ctx, serverID, &api.ExperimentEntity{ModelHistoryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrWorkSpaceNotFound)

	m := seedModel(t, r)
	assert.Equal(t, 1, m.ModelVersion)
	assert.NotZero(t, m.Created)

	_, err = r.AddModelInstance(ctx, serverID, &api.ModelInstanceEntity{ModelID: "model-1", ExperimentID: "exp-1"})
	assert.ErrorIs(t, err, domain.ErrModelExists)

	_, err = r.AddModelInstance(ctx, serverID, &api.ModelInstanceEntity{ExperimentID: "nope"})
	assert.ErrorIs(t, err, domain.ErrExperimentNotFound)

	require.NoError(t, r.DeleteModelInstance(ctx, serverID, "model-1"))
	_, err = r.GetModelInstance(ctx, serverID, "model-1")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestRegistry_AddEvaluationResult(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()
	seedModel(t, r)

	eval, err := r.AddEvaluationResult(ctx, serverID, &api.EvaluationResultsEntity{
		ModelInstanceID: "model-1",
		EvalID:          "model-1",
		Accuracy:        0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, eval.Accuracy)
	assert.NotZero(t, eval.Created)

	_, err = r.AddEvaluationResult(ctx, serverID, &api.EvaluationResultsEntity{ModelInstanceID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestRegistry_DeployLifecycle(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()

	d, err := r.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: "My Model_v1"})
	require.NoError(t, err)
	assert.Equal(t, "my-model-v1", d.DeploymentSlug)

	md, err := r.DeployModel(ctx, d.ID, &api.ImportModelRequest{
		Name: "mnist",
		URI:  []string{"dep/model/mnist/default", "dep/model/mnist/v1"},
	})
	require.NoError(t, err)
	assert.Equal(t, api.ModelStateStopped, md.State)
	assert.Equal(t, 1, md.Scale)

	started, err := r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
	require.NoError(t, err)
	assert.Equal(t, api.ModelStateStarted, started.State)
	assert.Equal(t, "/dep/model/mnist/default", started.ServingURL)

	_, err = r.SetModelState(ctx, d.ID, md.ID, "pause")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = r.GetDeployedModel(ctx, "other-deployment", md.ID)
	assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)

	list, err := r.ListDeployments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.DeleteDeployment(ctx, d.ID))
	_, err = r.GetDeployment(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)

	var count int
	require.NoError(t, r.store.List(ctx, ports.KindDeployedModel, func([]byte) error {
		count++
		return nil
	}))
	assert.Zero(t, count)
}

func TestRegistry_MirrorStartStop(t *testing.T) {
	mirror := new(testutil.MockServingMirror)
	r := newTestRegistry(t, mirror)
	ctx := context.Background()

	d, err := r.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: "prod"})
	require.NoError(t, err)
	md, err := r.DeployModel(ctx, d.ID, &api.ImportModelRequest{Name: "mnist", FileLocation: "s3://b/mnist.h5"})
	require.NoError(t, err)

	mirror.On("IsAvailable").Return(true)
	mirror.On("Start", mock.Anything, mock.AnythingOfType("*api.DeploymentResponse"), mock.AnythingOfType("*api.ModelEntity")).
		Return("prod-mnist", nil)
	mirror.On("Status", mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.MirrorStatus{URL: "http://prod-mnist.model-serving.example.com", Ready: true}, nil)
	mirror.On("Stop", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err = r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
	require.NoError(t, err)

	got, err := r.GetDeployedModel(ctx, d.ID, md.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://prod-mnist.model-serving.example.com", got.ServingURL)

	stopped, err := r.SetModelState(ctx, d.ID, md.ID, api.StateStop)
	require.NoError(t, err)
	assert.Equal(t, api.ModelStateStopped, stopped.State)
	assert.Empty(t, stopped.ServingURL)

	mirror.AssertCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
	mirror.AssertCalled(t, "Stop", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistry_MirrorFailure(t *testing.T) {
	mirror := new(testutil.MockServingMirror)
	r := newTestRegistry(t, mirror)
	ctx := context.Background()

	d, _ := r.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: "prod"})
	md, _ := r.DeployModel(ctx, d.ID, &api.ImportModelRequest{Name: "mnist"})

	mirror.On("IsAvailable").Return(true)
	mirror.On("Start", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
	assert.ErrorIs(t, err, domain.ErrMirrorFailed)

	got, err := r.GetDeployedModel(ctx, d.ID, md.ID)
	require.NoError(t, err)
	assert.Equal(t, api.ModelStateStopped, got.State)
}

func TestRegistry_MirrorSameNamedModels(t *testing.T) {
	gvr := schema.GroupVersionResource{Group: "serving.kserve.io", Version: "v1beta1", Resource: "inferenceservices"}
	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{gvr: "InferenceServiceList"})
	r := newTestRegistry(t, kserve.NewServingMirrorWithClient(client, "serving"))
	ctx := context.Background()

	var started []*api.ModelEntity
	for i := 0; i < 2; i++ {
		d, err := r.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: "mnist"})
		require.NoError(t, err)
		md, err := r.DeployModel(ctx, d.ID, &api.ImportModelRequest{Name: "mnist", FileLocation: "file:///models/mnist.h5"})
		require.NoError(t, err)

		got, err := r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
		require.NoError(t, err, "start in deployment %d", i)
		assert.Equal(t, api.ModelStateStarted, got.State)
		started = append(started, got)
	}

	// Starting a running model leaves the mirror alone.
	again, err := r.SetModelState(ctx, started[0].DeploymentID, started[0].ID, api.StateStart)
	require.NoError(t, err)
	assert.Equal(t, api.ModelStateStarted, again.State)

	list, err := client.Resource(gvr).Namespace("serving").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = r.SetModelState(ctx, started[0].DeploymentID, started[0].ID, api.StateStop)
	require.NoError(t, err)
	list, err = client.Resource(gvr).Namespace("serving").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestRegistry_StartIsIdempotent(t *testing.T) {
	mirror := new(testutil.MockServingMirror)
	r := newTestRegistry(t, mirror)
	ctx := context.Background()

	d, _ := r.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: "prod"})
	md, _ := r.DeployModel(ctx, d.ID, &api.ImportModelRequest{Name: "mnist"})

	mirror.On("IsAvailable").Return(true)
	mirror.On("Start", mock.Anything, mock.Anything, mock.Anything).Return("uid-1", nil).Once()

	_, err := r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
	require.NoError(t, err)
	_, err = r.SetModelState(ctx, d.ID, md.ID, api.StateStart)
	require.NoError(t, err)

	mirror.AssertNumberOfCalls(t, "Start", 1)
}

func TestRegistry_DeleteModelHistoryWithExperiments(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()
	m := seedModel(t, r)

	exp, err := r.GetExperiment(ctx, serverID, m.ExperimentID)
	require.NoError(t, err)

	err = r.DeleteModelHistory(ctx, serverID, exp.ModelHistoryID)
	assert.ErrorIs(t, err, domain.ErrWorkSpaceNotEmpty)

	_, err = r.GetExperiment(ctx, serverID, exp.ExperimentID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteExperiment(ctx, serverID, exp.ExperimentID))
	require.NoError(t, r.DeleteModelHistory(ctx, serverID, exp.ModelHistoryID))
	assert.ErrorIs(t, r.DeleteModelHistory(ctx, serverID, exp.ModelHistoryID), domain.ErrWorkSpaceNotFound)
}

func TestRegistry_SaveUpload(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()

	f, err := r.SaveUpload(ctx, "../../etc/mnist.h5", strings.NewReader("weights"))
	require.NoError(t, err)
	assert.Equal(t, "mnist.h5", f.FileName)
	assert.True(t, strings.HasPrefix(f.Path, r.opts.StorageDir))

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, "weights", string(data))

	uploads, err := r.ListUploads(ctx)
	require.NoError(t, err)
	assert.Len(t, uploads, 1)

	_, err = r.SaveUpload(ctx, "", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidUpload)
}
