package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// MemberHeader carries the ID of the family member using the page.
const MemberHeader = "X-Family-Member"

type memberKey struct{}

// NewMemberResolver returns a middleware that resolves MemberHeader against
// the roster (case-insensitively) and stores the member in the request
// context. Requests without the header continue as guests; an ID that is not
// on the roster is rejected with 403.
func NewMemberResolver(roster domain.Roster) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(MemberHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			for _, m := range roster {
				if strings.EqualFold(m.ID, id) {
					next.ServeHTTP(w, r.WithContext(WithMember(r.Context(), m)))
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "unknown family member")
		})
	}
}

// WithMember returns a copy of ctx carrying m.
func WithMember(ctx context.Context, m domain.FamilyMember) context.Context {
	return context.WithValue(ctx, memberKey{}, m)
}

// MemberFromContext returns the acting family member, if any.
func MemberFromContext(ctx context.Context) (domain.FamilyMember, bool) {
	m, ok := ctx.Value(memberKey{}).(domain.FamilyMember)
	return m, ok
}
