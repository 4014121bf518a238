package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/middleware"
)

func serveWithMember(t *testing.T, header string) (*httptest.ResponseRecorder, domain.FamilyMember, bool) {
	t.Helper()
	var (
		got domain.FamilyMember
		ok  bool
	)
	h := middleware.NewMemberResolver(domain.DefaultRoster())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = middleware.MemberFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/packing", nil)
	if header != "" {
		req.Header.Set(middleware.MemberHeader, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got, ok
}

func TestMemberResolver_KnownMember(t *testing.T) {
	rec, m, ok := serveWithMember(t, "melissa")

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "Melissa", m.ID)
	assert.True(t, m.IsAdult())
}

func TestMemberResolver_NoHeaderIsGuest(t *testing.T) {
	rec, _, ok := serveWithMember(t, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok)
}

func TestMemberResolver_UnknownMember(t *testing.T) {
	rec, _, _ := serveWithMember(t, "Goofy")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"forbidden"`)
}
