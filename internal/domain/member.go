package domain

import (
	"fmt"
	"strings"
)

// Role separates adults from children. Some writes (the packing list) are
// restricted to adults.
type Role string

const (
	RoleAdult Role = "adult"
	RoleChild Role = "child"
)

// FamilyMember is one traveller on the static roster. The roster is owned by
// configuration and never persisted.
type FamilyMember struct {
	ID   string `json:"id" koanf:"id"`
	Name string `json:"name" koanf:"name"`
	Age  int    `json:"age" koanf:"age"`
	Role Role   `json:"role" koanf:"role"`
}

// FirstName returns the first word of Name, or the ID when Name is blank.
func (m FamilyMember) FirstName() string {
	if f := strings.Fields(m.Name); len(f) > 0 {
		return f[0]
	}
	return m.ID
}

// IsAdult reports whether the member has the adult role.
func (m FamilyMember) IsAdult() bool {
	return m.Role == RoleAdult
}

// Roster is the ordered list of family members for a deployment.
// Order matters: it is the column order of the itinerary grid.
type Roster []FamilyMember

// Validate checks that every member has a unique, non-empty ID and a known role.
func (r Roster) Validate() error {
	seen := make(map[string]bool, len(r))
	for i, m := range r {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("%w: roster[%d]: id is required", ErrValidation, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: roster[%d]: duplicate id %q", ErrValidation, i, m.ID)
		}
		seen[m.ID] = true
		if m.Role != RoleAdult && m.Role != RoleChild {
			return fmt.Errorf("%w: roster[%d]: role must be adult or child", ErrValidation, i)
		}
	}
	return nil
}

// Lookup returns the member with the given ID.
func (r Roster) Lookup(id string) (FamilyMember, bool) {
	for _, m := range r {
		if m.ID == id {
			return m, true
		}
	}
	return FamilyMember{}, false
}

// IDs returns the member IDs in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r))
	for i, m := range r {
		ids[i] = m.ID
	}
	return ids
}

// AttendanceFromText builds a full attendance map from a loose, comma-separated
// list of names such as "Marc, Melissa" or "All".
//
// "all" or "everyone" anywhere in the text marks every member as attending.
// Otherwise a member attends when any fragment contains their ID or first name
// (case-insensitive).
func (r Roster) AttendanceFromText(text string) map[string]Attendance {
	lower := strings.ToLower(text)
	everyone := strings.Contains(lower, "all") || strings.Contains(lower, "everyone")

	fragments := strings.Split(lower, ",")
	out := make(map[string]Attendance, len(r))
	for _, m := range r {
		if everyone {
			out[m.ID] = Attending
			continue
		}
		id := strings.ToLower(m.ID)
		first := strings.ToLower(m.FirstName())
		out[m.ID] = NotAttending
		for _, f := range fragments {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if strings.Contains(f, id) || strings.Contains(f, first) {
				out[m.ID] = Attending
				break
			}
		}
	}
	return out
}

// NormalizeAttendance returns a copy of att that holds exactly the roster IDs.
// Missing members default to NotAttending, unknown keys are dropped and any
// value other than Attending is treated as NotAttending.
func (r Roster) NormalizeAttendance(att map[string]Attendance) map[string]Attendance {
	out := make(map[string]Attendance, len(r))
	for _, m := range r {
		if att[m.ID] == Attending {
			out[m.ID] = Attending
		} else {
			out[m.ID] = NotAttending
		}
	}
	return out
}

// DefaultRoster is the family the planner was first deployed for.
// Deployments override it with the "roster" config key.
func DefaultRoster() Roster {
	return Roster{
		{ID: "Marc", Name: "Marc Blair", Age: 43, Role: RoleAdult},
		{ID: "Melissa", Name: "Melissa Blair", Age: 39, Role: RoleAdult},
		{ID: "Billie", Name: "Billie Blair", Age: 10, Role: RoleChild},
		{ID: "Mimi", Name: "Mimi Blair", Age: 6, Role: RoleChild},
		{ID: "Daniel", Name: "Daniel Rosenberg", Age: 39, Role: RoleAdult},
		{ID: "Jessica", Name: "Jessica Blair", Age: 37, Role: RoleAdult},
		{ID: "Joey", Name: "Joey Rosenberg", Age: 5, Role: RoleChild},
		{ID: "Emma", Name: "Emma Rosenberg", Age: 7, Role: RoleChild},
		{ID: "Riley", Name: "Riley Rosenberg", Age: 1, Role: RoleChild},
		{ID: "John", Name: "John Blair", Age: 71, Role: RoleAdult},
		{ID: "Lindsay", Name: "Lindsay Blair", Age: 70, Role: RoleAdult},
		{ID: "Ricky", Name: "Ricky Blair", Age: 41, Role: RoleAdult},
	}
}
