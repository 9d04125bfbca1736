//go:build integration

package cases

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/organizer-service/test/integration/infra"
	"github.com/baechuer/real-time-ressys/services/organizer-service/test/integration/infra/wait"
)

const (
	organizerID = "11111111-1111-4111-8111-111111111111"
	otherID     = "33333333-3333-4333-8333-333333333333"
	attendeeID  = "55555555-5555-4555-8555-555555555555"
)

type Env struct {
	BaseURL   string
	DB        *sql.DB
	JWTSecret string
	JWTIssuer string

	OrganizerToken string
	OtherToken     string
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Skipf("missing env %s", k)
	}
	return v
}

// setup expects a running organizer-service at ORGANIZER_BASE_URL backed by
// DATABASE_URL.
func setup(t *testing.T) Env {
	t.Helper()

	e := Env{
		BaseURL:   mustEnv(t, "ORGANIZER_BASE_URL"),
		JWTSecret: mustEnv(t, "JWT_SECRET"),
		JWTIssuer: os.Getenv("JWT_ISSUER"),
	}
	dbURL := mustEnv(t, "DATABASE_URL")

	require.NoError(t, wait.HTTP200(e.BaseURL+"/healthz", 10*time.Second), "organizer-service not ready")

	db, err := infra.OpenDB(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, infra.PingDB(db))
	require.NoError(t, infra.Reset(db))

	require.NoError(t, infra.SeedUser(db, organizerID, "Olga Organizer", "olga@example.test"))
	require.NoError(t, infra.SeedUser(db, otherID, "Oscar Other", "oscar@example.test"))
	require.NoError(t, infra.SeedUser(db, attendeeID, "Ada Attendee", "ada@example.test"))
	e.DB = db

	e.OrganizerToken, err = infra.MakeToken(e.JWTSecret, e.JWTIssuer, organizerID, "user", 0, 15*time.Minute)
	require.NoError(t, err)
	e.OtherToken, err = infra.MakeToken(e.JWTSecret, e.JWTIssuer, otherID, "admin", 0, 15*time.Minute)
	require.NoError(t, err)

	return e
}

type Envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
		Input   json.RawMessage   `json:"input"`
	} `json:"error,omitempty"`
}

func doJSON(t *testing.T, method, url, token string, body any) (int, Envelope) {
	t.Helper()

	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func eventBody(title string, date time.Time) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "integration",
		"event_date":  date.UTC().Format(time.RFC3339),
		"location":    "Town Hall",
		"city":        "Sydney",
		"state":       "NSW",
		"capacity":    3,
		"is_paid":     false,
	}
}

func createEvent(t *testing.T, e Env, body map[string]any) string {
	t.Helper()
	code, env := doJSON(t, http.MethodPost, e.BaseURL+"/events", e.OrganizerToken, body)
	require.Equal(t, http.StatusCreated, code, "create failed: %+v", env.Error)

	var created struct {
		Event struct {
			ID string `json:"id"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.Event.ID
}
