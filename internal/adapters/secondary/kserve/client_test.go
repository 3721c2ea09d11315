package kserve

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/config"
)

func newFakeMirror() (*kserveMirror, *dynamicfake.FakeDynamicClient) {
	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{inferenceServiceGVR: "InferenceServiceList"})
	return NewServingMirrorWithClient(client, "serving").(*kserveMirror), client
}

func testModel() (*api.DeploymentResponse, *api.ModelEntity) {
	return &api.DeploymentResponse{ID: "dep-1", Name: "Prod", DeploymentSlug: "prod"},
		&api.ModelEntity{ID: "md-1", Name: "MNIST_v2", Scale: 2, FileLocation: "s3://bucket/models/abc/mnist.h5"}
}

func TestNewServingMirror_Disabled(t *testing.T) {
	m, err := NewServingMirror(&config.KubernetesConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, m.IsAvailable())
}

func TestResourceName(t *testing.T) {
	d, md := testModel()
	assert.Equal(t, "prod-mnist-v2-md-1", resourceName(d, md))

	d.DeploymentSlug = ""
	assert.Equal(t, "prod-mnist-v2-md-1", resourceName(d, md))

	long := &api.ModelEntity{
		ID:   "0f3c9a7e-2b1d-4c55-9e0a-6f1b2c3d4e5f",
		Name: "a-really-long-model-name-that-keeps-going-and-going-past-the-limit",
	}
	name := resourceName(d, long)
	assert.LessOrEqual(t, len(name), maxResourceName)
	assert.True(t, strings.HasSuffix(name, "-0f3c9a7e"), name)

	other := *long
	other.ID = "7d21e04b-0000-4000-8000-000000000000"
	assert.NotEqual(t, name, resourceName(d, &other))

	assert.Equal(t, "prod-mnist-v2", resourceName(d, &api.ModelEntity{Name: "MNIST_v2"}))
}

func TestBuildInferenceServiceCR(t *testing.T) {
	d, md := testModel()
	obj := buildInferenceServiceCR(d, md)

	assert.Equal(t, "prod-mnist-v2-md-1", obj.GetName())
	assert.Equal(t, "dep-1", obj.GetLabels()[labelDeploymentID])
	assert.Equal(t, "md-1", obj.GetLabels()[labelModelID])

	uri, _, _ := unstructured.NestedString(obj.Object, "spec", "predictor", "model", "storageUri")
	assert.Equal(t, md.FileLocation, uri)
	format, _, _ := unstructured.NestedString(obj.Object, "spec", "predictor", "model", "modelFormat", "name")
	assert.Equal(t, "tensorflow", format)
	replicas, _, _ := unstructured.NestedInt64(obj.Object, "spec", "predictor", "minReplicas")
	assert.Equal(t, int64(2), replicas)
}

func TestMirror_StartStatusStop(t *testing.T) {
	m, client := newFakeMirror()
	d, md := testModel()
	ctx := context.Background()

	_, err := m.Start(ctx, d, md)
	require.NoError(t, err)

	obj, err := client.Resource(inferenceServiceGVR).Namespace("serving").Get(ctx, "prod-mnist-v2-md-1", metav1.GetOptions{})
	require.NoError(t, err)

	// Simulate the controller reporting readiness.
	require.NoError(t, unstructured.SetNestedField(obj.Object, map[string]interface{}{
		"url": "http://prod-mnist-v2.serving.example.com",
		"conditions": []interface{}{
			map[string]interface{}{"type": "Ready", "status": "True"},
		},
	}, "status"))
	_, err = client.Resource(inferenceServiceGVR).Namespace("serving").Update(ctx, obj, metav1.UpdateOptions{})
	require.NoError(t, err)

	status, err := m.Status(ctx, d, md)
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, "http://prod-mnist-v2.serving.example.com", status.URL)

	require.NoError(t, m.Stop(ctx, d, md))
	// Stopping twice tolerates the missing resource.
	require.NoError(t, m.Stop(ctx, d, md))

	_, err = m.Status(ctx, d, md)
	assert.Error(t, err)
}

func TestMirror_StartConflict(t *testing.T) {
	m, _ := newFakeMirror()
	d, md := testModel()

	_, err := m.Start(context.Background(), d, md)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), d, md)
	assert.ErrorContains(t, err, "create kserve inferenceservice")
}

func TestParseStatus_NotReady(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"status": map[string]interface{}{
			"conditions": []interface{}{
				map[string]interface{}{"type": "Ready", "status": "False", "message": "image pull backoff"},
			},
		},
	}}

	status := parseStatus(obj)
	assert.False(t, status.Ready)
	assert.Equal(t, "image pull backoff", status.Error)
	assert.Empty(t, parseStatus(&unstructured.Unstructured{Object: map[string]interface{}{}}).URL)
}
