//go:build integration

package cases

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizerACL_OnlyOwnerManages(t *testing.T) {
	e := setup(t)
	id := createEvent(t, e, eventBody("ACL Event", time.Now().Add(48*time.Hour)))
	base := e.BaseURL + "/events/" + id

	update := eventBody("Hijacked", time.Now().Add(72*time.Hour))
	update["status"] = "active"

	checks := []struct {
		name   string
		method string
		url    string
		body   any
	}{
		{"show", http.MethodGet, base, nil},
		{"edit", http.MethodGet, base + "/edit", nil},
		{"registrations", http.MethodGet, base + "/registrations", nil},
		{"update", http.MethodPut, base, update},
		{"delete", http.MethodDelete, base, nil},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			// the other caller holds an admin role; it does not help
			code, env := doJSON(t, c.method, c.url, e.OtherToken, c.body)
			assert.Equal(t, http.StatusForbidden, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "forbidden", env.Error.Code)
			assert.Empty(t, env.Data)
		})
	}

	code, env := doJSON(t, http.MethodGet, base, e.OrganizerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"title":"ACL Event"`)
}

func TestOrganizerACL_RequiresToken(t *testing.T) {
	e := setup(t)
	code, _ := doJSON(t, http.MethodGet, e.BaseURL+"/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
