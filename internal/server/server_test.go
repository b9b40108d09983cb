package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbullet/superbullet/internal/auth"
	"github.com/superbullet/superbullet/internal/controllers"
	"github.com/superbullet/superbullet/internal/managers"
	"github.com/superbullet/superbullet/internal/store/memory"
	"github.com/superbullet/superbullet/pkg/codegen"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := memory.New()
	tokens := auth.NewTokenManager(auth.TokenManagerDependencies{Secret: "test", TTL: time.Hour})

	userManager := managers.NewUserManager(managers.UserManagerDependencies{UserRepository: store, TokenManager: tokens})
	projectManager := managers.NewProjectManager(managers.ProjectManagerDependencies{ProjectRepository: store, FileRepository: store})
	fileManager := managers.NewFileManager(managers.FileManagerDependencies{ProjectRepository: store, FileRepository: store})
	codegenManager := managers.NewCodegenManager(managers.CodegenManagerDependencies{
		Generator: codegen.NewGenerator(codegen.GeneratorDependencies{}),
	})
	scaffoldManager := managers.NewScaffoldManager(managers.ScaffoldManagerDependencies{ProjectRepository: store, CodegenManager: codegenManager})
	exportManager := managers.NewExportManager(managers.ExportManagerDependencies{ProjectRepository: store, FileRepository: store})

	return NewHTTPServer(HTTPServerDependencies{
		SessionVerifier:   userManager,
		AuthController:    controllers.NewAuthController(controllers.AuthControllerDependencies{UserManager: userManager}),
		ProjectController: controllers.NewProjectController(controllers.ProjectControllerDependencies{ProjectManager: projectManager, ExportManager: exportManager}),
		FileController:    controllers.NewFileController(controllers.FileControllerDependencies{FileManager: fileManager}),
		KnitController:    controllers.NewKnitController(controllers.KnitControllerDependencies{ScaffoldManager: scaffoldManager, CodegenManager: codegenManager}),
		DisableRequestLog: true,
	})
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status, body := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, status, body)

	return body["token"].(string)
}

func createProject(t *testing.T, app *fiber.App, token string) string {
	t.Helper()

	status, body := do(t, app, http.MethodPost, "/api/projects", token, map[string]string{"name": "Obby"})
	require.Equal(t, http.StatusOK, status, body)

	return body["project"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email and password are required", body["error"])

	token := register(t, app, "a@example.com")

	status, body = do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", body["error"])

	status, body = do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, body = do(t, app, http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@example.com", body["user"].(map[string]any)["email"])

	status, body = do(t, app, http.MethodGet, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])

	status, body = do(t, app, http.MethodGet, "/api/auth/verify", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestProjectsAndFiles(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "a@example.com")
	projectID := createProject(t, app, token)

	status, body := do(t, app, http.MethodGet, "/api/projects", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["projects"], 1)

	status, body = do(t, app, http.MethodPost, "/api/projects/"+projectID+"/files", token, map[string]string{"path": "Workspace/Map.lua", "content": "-- map"})
	require.Equal(t, http.StatusOK, status, body)
	fileID := body["file"].(map[string]any)["id"].(string)
	assert.Equal(t, "lua", body["file"].(map[string]any)["fileType"])

	status, body = do(t, app, http.MethodPost, "/api/projects/"+projectID+"/files", token, map[string]string{"path": "Workspace/Map.lua", "content": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File already exists", body["error"])

	status, body = do(t, app, http.MethodPut, "/api/projects/"+projectID+"/files/"+fileID, token, map[string]string{"content": "-- edited"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "-- edited", body["file"].(map[string]any)["content"])

	status, body = do(t, app, http.MethodGet, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, status)
	project := body["project"].(map[string]any)
	assert.Len(t, project["files"], 1)
	workspace := project["structure"].(map[string]any)["Workspace"].(map[string]any)
	assert.Equal(t, "Workspace/Map.lua", workspace["children"].([]any)[0].(map[string]any)["path"])

	other := register(t, app, "b@example.com")
	status, body = do(t, app, http.MethodGet, "/api/projects/"+projectID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Project not found", body["error"])

	status, _ = do(t, app, http.MethodDelete, "/api/projects/"+projectID+"/files/"+fileID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = do(t, app, http.MethodPost, "/api/projects/"+projectID+"/export/gist", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Gist export is not configured", body["error"])

	status, body = do(t, app, http.MethodDelete, "/api/projects/"+projectID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, _ = do(t, app, http.MethodGet, "/api/projects/"+projectID+"/files", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScaffoldService(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "a@example.com")
	projectID := createProject(t, app, token)

	status, body := do(t, app, http.MethodPost, "/api/knit/scaffold-service", token, map[string]any{"projectId": projectID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Project ID and service name are required", body["error"])

	request := map[string]any{
		"projectId":   projectID,
		"serviceName": "ShopService",
		"components": map[string]any{
			"get":    []map[string]string{{"name": "GetItems", "description": "list items"}},
			"others": []map[string]string{{"name": "Purchase"}},
		},
	}

	status, body = do(t, app, http.MethodPost, "/api/knit/scaffold-service", token, request)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["files"], 5)
	assert.Equal(t, "Generated ShopService service with 5 files", body["message"])

	status, body = do(t, app, http.MethodPost, "/api/knit/scaffold-service", token, request)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["files"])
	assert.Len(t, body["existing"], 5)
}

func TestGenerateCode(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "a@example.com")

	status, body := do(t, app, http.MethodPost, "/api/ai/generate-code", token, map[string]string{"componentName": "GetCoins"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields: componentName, componentType, description", body["error"])

	status, body = do(t, app, http.MethodPost, "/api/ai/generate-code", token, map[string]string{
		"componentName": "GetCoins",
		"componentType": "get",
		"description":   "coins",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["fromFallback"])
	assert.Contains(t, body["code"], "function GetCoins.Get(playerId)")

	status, body = do(t, app, http.MethodGet, "/api/ai/generations?limit=5", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["generations"])

	status, _ = do(t, app, http.MethodGet, "/api/ai/generations?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
