package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	contactapp "github.com/oksasatya/agenda-api/internal/application"
	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/infrastructure/memory"
	handlers "github.com/oksasatya/agenda-api/internal/interface/http"
	"github.com/oksasatya/agenda-api/internal/interface/middleware"
	"github.com/oksasatya/agenda-api/internal/router/modules"
	"github.com/oksasatya/agenda-api/pkg/validation"
)

type errorBody struct {
	Status    int               `json:"status"`
	RequestID string            `json:"request_id"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Error     map[string]string `json:"error"`
}

func newTestEngine(t *testing.T, seed ...*entity.Contact) (*gin.Engine, *memory.ContactRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := memory.NewContactRepository(seed...)
	svc := contactapp.NewService(repo, nil, nil, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	modules.NewContactModule(handlers.NewContactHandler(svc, logger)).Register(&r.RouterGroup)
	return r, repo
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateThenGet(t *testing.T) {
	r, _ := newTestEngine(t)

	w := do(r, http.MethodPost, "/agenda", `{"name":"Ann","email":"a@x.com","phoneNumber":"123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[handlers.ContactDTO](t, w)
	require.NotNil(t, created.ID)
	require.GreaterOrEqual(t, *created.ID, int64(1))
	require.Equal(t, "Ann", created.Name)
	require.Equal(t, "a@x.com", created.Email)
	require.Equal(t, "123", created.PhoneNumber)
	require.Equal(t, "/agenda/1", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/agenda/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, created, decode[handlers.ContactDTO](t, w))
}

func TestCreateResponseUsesWireFieldNames(t *testing.T) {
	r, _ := newTestEngine(t)

	w := do(r, http.MethodPost, "/agenda", `{"name":"Ann","phoneNumber":"123","observations":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	raw := decode[map[string]any](t, w)
	require.ElementsMatch(t, []string{"id", "name", "email", "phoneNumber", "observations"}, keys(raw))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestListReturnsEveryContact(t *testing.T) {
	r, _ := newTestEngine(t, &entity.Contact{Name: "Ann"}, &entity.Contact{Name: "Bob"})

	w := do(r, http.MethodGet, "/agenda", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]handlers.ContactDTO](t, w)
	require.Len(t, list, 2)
	require.Equal(t, "Ann", list[0].Name)
	require.Equal(t, "Bob", list[1].Name)
}

func TestListEmptyIsArray(t *testing.T) {
	r, _ := newTestEngine(t)

	w := do(r, http.MethodGet, "/agenda", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestGetUnknownIsNotFound(t *testing.T) {
	r, _ := newTestEngine(t)

	w := do(r, http.MethodGet, "/agenda/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode[errorBody](t, w)
	require.False(t, body.Success)
	require.Equal(t, http.StatusNotFound, body.Status)
	require.Equal(t, "contact not found", body.Message)
	require.NotEmpty(t, body.RequestID)
}

func TestBadPathIDIsBadRequest(t *testing.T) {
	r, _ := newTestEngine(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := do(r, method, "/agenda/abc", `{"name":"Ann"}`)
		require.Equal(t, http.StatusBadRequest, w.Code, method)
		require.Equal(t, "must be an integer", decode[errorBody](t, w).Error["id"])
	}
}

func TestUpdateOverwritesContact(t *testing.T) {
	r, repo := newTestEngine(t, &entity.Contact{Name: "Ann", Email: "a@x.com", PhoneNumber: "123", Observations: "old"})

	w := do(r, http.MethodPut, "/agenda/1", `{"name":"Ann B","phoneNumber":"456"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[handlers.ContactDTO](t, w)
	require.Equal(t, int64(1), *updated.ID)
	require.Equal(t, "Ann B", updated.Name)
	require.Equal(t, "", updated.Email)
	require.Equal(t, "456", updated.PhoneNumber)
	require.Equal(t, "", updated.Observations)

	w = do(r, http.MethodGet, "/agenda/1", "")
	require.Equal(t, updated, decode[handlers.ContactDTO](t, w))
	require.Equal(t, 1, repo.Len())
}

func TestUpdateUnknownLeavesStoreUnchanged(t *testing.T) {
	r, repo := newTestEngine(t, &entity.Contact{Name: "Ann"})

	w := do(r, http.MethodPut, "/agenda/42", `{"name":"Ghost"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 1, repo.Len())

	w = do(r, http.MethodGet, "/agenda", "")
	list := decode[[]handlers.ContactDTO](t, w)
	require.Len(t, list, 1)
	require.Equal(t, "Ann", list[0].Name)
}

func TestUpdateRejectsMismatchedBodyID(t *testing.T) {
	r, _ := newTestEngine(t, &entity.Contact{Name: "Ann"}, &entity.Contact{Name: "Bob"})

	w := do(r, http.MethodPut, "/agenda/1", `{"id":2,"name":"Ann"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, decode[errorBody](t, w).Error, "id")

	w = do(r, http.MethodPut, "/agenda/1", `{"id":1,"name":"Ann C"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	r, repo := newTestEngine(t, &entity.Contact{Name: "Ann"})

	w := do(r, http.MethodDelete, "/agenda/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
	require.Zero(t, repo.Len())

	w = do(r, http.MethodGet, "/agenda/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/agenda/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidation(t *testing.T) {
	r, repo := newTestEngine(t)

	cases := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"missing name", `{"email":"a@x.com"}`, "name", "is required"},
		{"blank name", `{"name":"   "}`, "name", "is required"},
		{"bad email", `{"name":"Ann","email":"not-an-email"}`, "email", "must be a valid email"},
		{"client id", `{"id":5,"name":"Ann"}`, "id", "must be omitted on create"},
		{"wrong type", `{"name":"Ann","id":"x"}`, "id", "must be of type int64"},
		{"malformed", `{"name":`, "payload", "invalid json"},
		{"empty body", ``, "payload", "is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/agenda", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			require.Equal(t, tc.msg, decode[errorBody](t, w).Error[tc.field])
		})
	}
	require.Zero(t, repo.Len())
}

func TestSearch(t *testing.T) {
	r, _ := newTestEngine(t, &entity.Contact{Name: "Ann"})

	w := do(r, http.MethodGet, "/agenda/search", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "is required", decode[errorBody](t, w).Error["q"])

	// no search backend configured
	w = do(r, http.MethodGet, "/agenda/search?q=ann", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}
