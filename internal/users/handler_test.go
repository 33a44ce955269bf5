package users

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/member-hub/memberhub/internal/crypto"
	"github.com/member-hub/memberhub/internal/store"
)

func setupUsersApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := NewService(store.NewMemory(), crypto.NewBcryptHasher(bcrypt.MinCost))
	h := NewHandler(svc)

	app := fiber.New()
	group := app.Group("/api/v1/users")
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(payload)
}

func TestProfileCrudEndpoints(t *testing.T) {
	app := setupUsersApp(t)

	status, body := doRequest(t, app, fiber.MethodPost, "/api/v1/users/",
		`{"firstName":"Alice","email":"a@x.com","club":"Falcons"}`)
	if status != fiber.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", status, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	status, body = doRequest(t, app, fiber.MethodGet, "/api/v1/users/"+created.ID, "")
	if status != fiber.StatusOK || !strings.Contains(body, `"a@x.com"`) {
		t.Fatalf("get: %d %s", status, body)
	}

	status, body = doRequest(t, app, fiber.MethodPut, "/api/v1/users/"+created.ID, `{"club":"Eagles"}`)
	if status != fiber.StatusOK || !strings.Contains(body, `"Eagles"`) {
		t.Fatalf("update: %d %s", status, body)
	}

	status, _ = doRequest(t, app, fiber.MethodDelete, "/api/v1/users/"+created.ID, "")
	if status != fiber.StatusOK {
		t.Fatalf("delete: expected 200, got %d", status)
	}

	status, _ = doRequest(t, app, fiber.MethodGet, "/api/v1/users/"+created.ID, "")
	if status != fiber.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", status)
	}
}

func TestProfileEndpointsUnknownID(t *testing.T) {
	app := setupUsersApp(t)
	id := uuid.NewString()

	if status, _ := doRequest(t, app, fiber.MethodGet, "/api/v1/users/"+id, ""); status != fiber.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", status)
	}
	if status, _ := doRequest(t, app, fiber.MethodPut, "/api/v1/users/"+id, `{"club":"Eagles"}`); status != fiber.StatusNotFound {
		t.Fatalf("put: expected 404, got %d", status)
	}
	if status, _ := doRequest(t, app, fiber.MethodDelete, "/api/v1/users/"+id, ""); status != fiber.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", status)
	}
}
