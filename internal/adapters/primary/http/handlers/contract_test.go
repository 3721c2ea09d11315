package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-platform-sdk/internal/api"
	ports "model-platform-sdk/internal/core/ports/output"
	"model-platform-sdk/internal/emulator"
	"model-platform-sdk/internal/testutil"
)

const testServer = "mhs"

// setupRouter builds the full emulator surface over a memory store and logs in.
func setupRouter(t *testing.T, mirror ports.ServingMirror) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := emulator.NewRegistry(emulator.NewMemoryStore(), emulator.Options{
		ServerID:   testServer,
		User:       "admin",
		Password:   "admin",
		StorageDir: t.TempDir(),
		Mirror:     mirror,
	})
	r := gin.New()
	New(registry).RegisterRoutes(r)

	token, err := registry.Login("admin", "admin")
	require.NoError(t, err)
	return r, token
}

func doJSON(t *testing.T, r *gin.Engine, token, method, path string, body any) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func assertFieldString(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isStr := val.(string)
		assert.True(t, isStr, "field %q should be string, got %T", key, val)
	}
}

func assertFieldNumber(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isNum := val.(float64)
		assert.True(t, isNum, "field %q should be number, got %T", key, val)
	}
}

func assertFieldArray(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isArr := val.([]interface{})
		assert.True(t, isArr, "field %q should be array, got %T", key, val)
	}
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

func TestContract_Login(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, resp := doJSON(t, r, "", http.MethodPost, "/login", api.LoginRequest{UserID: "admin", Password: "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assertFieldString(t, resp, "token")

	w, resp = doJSON(t, r, "", http.MethodPost, "/login", api.LoginRequest{UserID: "admin", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assertFieldString(t, resp, "error")

	w, _ = doJSON(t, r, "", http.MethodPost, "/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContract_RequiresToken(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, _ := doJSON(t, r, "", http.MethodGet, "/services", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContract_Services(t *testing.T) {
	r, token := setupRouter(t, nil)

	w, resp := doJSON(t, r, token, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assertFieldArray(t, resp, "services")

	svc := resp["services"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, testServer, svc["id"])
	assert.Equal(t, api.ServiceTypeModelHistory, svc["type"])
}

// ---------------------------------------------------------------------------
// Model history server
// ---------------------------------------------------------------------------

func TestContract_ModelHistoryFlow(t *testing.T) {
	r, token := setupRouter(t, nil)

	w, ws := doJSON(t, r, token, http.MethodPost, "/rpc/mhs/modelhistory", api.AddModelHistoryRequest{ModelName: "ws"})
	require.Equal(t, http.StatusCreated, w.Code)
	assertFieldString(t, ws, "modelHistoryId")
	assertFieldNumber(t, ws, "created")
	wsID := ws["modelHistoryId"].(string)

	w, exp := doJSON(t, r, token, http.MethodPost, "/rpc/mhs/experiment", api.ExperimentEntity{
		ExperimentID:   "exp-1",
		ExperimentName: "baseline",
		ModelHistoryID: wsID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "exp-1", exp["experimentId"])

	w, _ = doJSON(t, r, token, http.MethodPost, "/rpc/mhs/experiment", api.ExperimentEntity{ExperimentID: "exp-1", ModelHistoryID: wsID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, m := doJSON(t, r, token, http.MethodPost, "/rpc/mhs/model", api.ModelInstanceEntity{
		ModelID:      "model-1",
		ModelName:    "mnist",
		URI:          "file:///tmp/mnist.h5",
		ExperimentID: "exp-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assertFieldString(t, m, "uri")
	assertFieldNumber(t, m, "modelVersion")

	w, eval := doJSON(t, r, token, http.MethodPost, "/rpc/mhs/evaluation", api.EvaluationResultsEntity{
		ModelInstanceID: "model-1",
		EvalID:          "model-1",
		Accuracy:        0.97,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assertFieldString(t, eval, "evaluation")
	assertFieldNumber(t, eval, "accuracy")

	w, _ = doJSON(t, r, token, http.MethodGet, "/rpc/mhs/model/model-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/rpc/mhs/model/model-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, token, http.MethodGet, "/rpc/mhs/model/model-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/rpc/mhs/modelhistory/"+wsID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/rpc/mhs/experiment/exp-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/rpc/mhs/modelhistory/"+wsID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestContract_UnknownServer(t *testing.T) {
	r, token := setupRouter(t, nil)

	w, resp := doJSON(t, r, token, http.MethodPost, "/rpc/other/modelhistory", api.AddModelHistoryRequest{ModelName: "ws"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertFieldString(t, resp, "error")
}

// ---------------------------------------------------------------------------
// Deployments
// ---------------------------------------------------------------------------

func TestContract_DeploymentFlow(t *testing.T) {
	r, token := setupRouter(t, nil)

	w, dep := doJSON(t, r, token, http.MethodPost, "/deployment", api.CreateDeploymentRequest{Name: "mnist"})
	require.Equal(t, http.StatusCreated, w.Code)
	assertFieldString(t, dep, "deploymentSlug")
	depID := dep["id"].(string)

	w, md := doJSON(t, r, token, http.MethodPost, "/deployment/"+depID+"/model", api.ImportModelRequest{
		Name:         "mnist",
		Scale:        1,
		FileLocation: "file:///tmp/mnist.h5",
		ModelType:    api.ModelTypeModel,
		URI:          []string{"mnist/model/mnist/default", "mnist/model/mnist/v1"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, api.ModelStateStopped, md["state"])
	assertFieldArray(t, md, "uri")
	mdID := md["id"].(string)

	w, started := doJSON(t, r, token, http.MethodPost, "/deployment/"+depID+"/model/"+mdID+"/state", api.SetState{State: api.StateStart})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.ModelStateStarted, started["state"])

	w, _ = doJSON(t, r, token, http.MethodPost, "/deployment/"+depID+"/model/"+mdID+"/state", api.SetState{State: "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, list := doJSON(t, r, token, http.MethodGet, "/deployments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list["deployments"], 1)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/deployment/"+depID+"/model/"+mdID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/deployment/"+depID+"/model/"+mdID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, token, http.MethodDelete, "/deployment/"+depID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestContract_MirrorFailureIsBadGateway(t *testing.T) {
	mirror := new(testutil.MockServingMirror)
	mirror.On("IsAvailable").Return(true)
	mirror.On("Start", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)
	r, token := setupRouter(t, mirror)

	_, dep := doJSON(t, r, token, http.MethodPost, "/deployment", api.CreateDeploymentRequest{Name: "mnist"})
	depID := dep["id"].(string)
	_, md := doJSON(t, r, token, http.MethodPost, "/deployment/"+depID+"/model", api.ImportModelRequest{Name: "mnist"})

	w, resp := doJSON(t, r, token, http.MethodPost, "/deployment/"+depID+"/model/"+md["id"].(string)+"/state", api.SetState{State: api.StateStart})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assertFieldString(t, resp, "error")
}

// ---------------------------------------------------------------------------
// Uploads
// ---------------------------------------------------------------------------

func TestContract_Upload(t *testing.T) {
	r, token := setupRouter(t, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "mnist.h5")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("weights"))
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/upload/model", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.FileUploadResponseList, 1)
	assert.Equal(t, "mnist.h5", resp.FileUploadResponseList[0].FileName)
	assert.NotEmpty(t, resp.FileUploadResponseList[0].Path)

	w, _ = doJSON(t, r, token, http.MethodPost, "/api/upload/model", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
