package kserve

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/config"
	ports "model-platform-sdk/internal/core/ports/output"
)

var inferenceServiceGVR = schema.GroupVersionResource{
	Group:    "serving.kserve.io",
	Version:  "v1beta1",
	Resource: "inferenceservices",
}

const (
	labelDeploymentID = "model-platform/deployment-id"
	labelModelID      = "model-platform/deployed-model-id"
	labelModelName    = "model-platform/model-name"

	maxResourceName = 63
	idPrefixLen     = 8
)

// modelFormats maps artifact extensions to KServe model format names.
var modelFormats = map[string]string{
	".h5":     "tensorflow",
	".keras":  "tensorflow",
	".pb":     "tensorflow",
	".onnx":   "onnx",
	".pt":     "pytorch",
	".pth":    "pytorch",
	".pkl":    "sklearn",
	".joblib": "sklearn",
	".bst":    "xgboost",
}

type kserveMirror struct {
	client    dynamic.Interface
	enabled   bool
	namespace string
}

// NewServingMirror creates a mirror that publishes started models as KServe
// InferenceServices. A disabled config yields a mirror that reports unavailable.
func NewServingMirror(cfg *config.KubernetesConfig) (ports.ServingMirror, error) {
	if !cfg.Enabled {
		return &kserveMirror{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return NewServingMirrorWithClient(client, cfg.DefaultNS), nil
}

func NewServingMirrorWithClient(client dynamic.Interface, namespace string) ports.ServingMirror {
	if namespace == "" {
		namespace = "model-serving"
	}
	return &kserveMirror{
		client:    client,
		enabled:   true,
		namespace: namespace,
	}
}

func (c *kserveMirror) IsAvailable() bool {
	return c.enabled
}

// Start creates the InferenceService and returns its UID.
func (c *kserveMirror) Start(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (string, error) {
	obj := buildInferenceServiceCR(deployment, model)

	created, err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("create kserve inferenceservice: %w", err)
	}

	return string(created.GetUID()), nil
}

// Stop deletes the InferenceService. A resource that is already gone is not an error.
func (c *kserveMirror) Stop(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) error {
	err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.namespace).
		Delete(ctx, resourceName(deployment, model), metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("delete kserve inferenceservice: %w", err)
	}
	return nil
}

func (c *kserveMirror) Status(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (*ports.MirrorStatus, error) {
	obj, err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.namespace).
		Get(ctx, resourceName(deployment, model), metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get kserve inferenceservice: %w", err)
	}

	return parseStatus(obj), nil
}

// resourceName is "<deployment slug>-<model name>-<model id prefix>" as a
// DNS-1123 label. Deployments share names, so the id keeps it unique.
func resourceName(deployment *api.DeploymentResponse, model *api.ModelEntity) string {
	slug := deployment.DeploymentSlug
	if slug == "" {
		slug = deployment.Name
	}
	base := dnsLabel(slug + "-" + model.Name)

	id := model.ID
	if len(id) > idPrefixLen {
		id = id[:idPrefixLen]
	}
	suffix := dnsLabel(id)
	if suffix == "" {
		return base
	}

	if room := maxResourceName - len(suffix) - 1; len(base) > room {
		base = strings.Trim(base[:room], "-")
	}
	return base + "-" + suffix
}

func dnsLabel(s string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(s) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteByte('-')
		}
	}

	name := b.String()
	if len(name) > maxResourceName {
		name = name[:maxResourceName]
	}
	return strings.Trim(name, "-")
}

func buildInferenceServiceCR(deployment *api.DeploymentResponse, model *api.ModelEntity) *unstructured.Unstructured {
	labels := map[string]interface{}{
		labelDeploymentID: deployment.ID,
		labelModelID:      model.ID,
		labelModelName:    dnsLabel(model.Name),
	}

	modelSpec := map[string]interface{}{
		"storageUri": model.FileLocation,
	}
	if format, ok := modelFormats[strings.ToLower(path.Ext(model.FileLocation))]; ok {
		modelSpec["modelFormat"] = map[string]interface{}{
			"name": format,
		}
	}

	scale := int64(model.Scale)
	if scale <= 0 {
		scale = 1
	}

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "serving.kserve.io/v1beta1",
			"kind":       "InferenceService",
			"metadata": map[string]interface{}{
				"name":   resourceName(deployment, model),
				"labels": labels,
			},
			"spec": map[string]interface{}{
				"predictor": map[string]interface{}{
					"minReplicas": scale,
					"model":       modelSpec,
				},
			},
		},
	}
}

func parseStatus(obj *unstructured.Unstructured) *ports.MirrorStatus {
	status := &ports.MirrorStatus{}

	statusMap, found, _ := unstructured.NestedMap(obj.Object, "status")
	if !found {
		return status
	}

	status.URL, _, _ = unstructured.NestedString(statusMap, "url")

	// Check conditions for ready state
	conditions, found, _ := unstructured.NestedSlice(statusMap, "conditions")
	if found {
		for _, cond := range conditions {
			condMap, ok := cond.(map[string]interface{})
			if !ok {
				continue
			}
			condType, _ := condMap["type"].(string)
			condStatus, _ := condMap["status"].(string)

			if condType == "Ready" {
				status.Ready = condStatus == "True"
				if condStatus == "False" {
					if msg, ok := condMap["message"].(string); ok {
						status.Error = msg
					}
				}
				break
			}
		}
	}

	return status
}

var _ ports.ServingMirror = (*kserveMirror)(nil)
