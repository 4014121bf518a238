package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Field names a scalar column of an itinerary item that may be replaced.
type Field string

const (
	FieldDate      Field = "date"
	FieldActivity  Field = "activity"
	FieldStatus    Field = "status"
	FieldTimeOrder Field = "time_order"
	FieldCost      Field = "cost"
)

// FieldUpdate is one partial change to a document. It is either a SetField
// (replace a scalar) or a SetAttendance (replace one entry of the attendees map).
type FieldUpdate interface {
	isFieldUpdate()
}

// SetField replaces a scalar field. Value must match the field's type:
// string for date/activity/status, int for time_order, float64 for cost.
type SetField struct {
	Field Field
	Value any
}

// SetAttendance replaces the attendance of a single member.
type SetAttendance struct {
	MemberID   string
	Attendance Attendance
}

func (SetField) isFieldUpdate()      {}
func (SetAttendance) isFieldUpdate() {}

// Validate checks the value type against the field.
func (u SetField) Validate() error {
	var ok bool
	switch u.Field {
	case FieldDate, FieldActivity, FieldStatus:
		_, ok = u.Value.(string)
	case FieldTimeOrder:
		var n int
		n, ok = u.Value.(int)
		if ok && n < 0 {
			return fmt.Errorf("%w: time_order must not be negative", ErrValidation)
		}
	case FieldCost:
		_, ok = u.Value.(float64)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrValidation, u.Field)
	}
	if !ok {
		return fmt.Errorf("%w: invalid value %T for field %q", ErrValidation, u.Value, u.Field)
	}
	return nil
}

// Validate checks that the attendance value is Y or N.
func (u SetAttendance) Validate() error {
	if u.MemberID == "" {
		return fmt.Errorf("%w: member id is required", ErrValidation)
	}
	if u.Attendance != Attending && u.Attendance != NotAttending {
		return fmt.Errorf("%w: attendance must be Y or N", ErrValidation)
	}
	return nil
}

// DocumentUpdate groups the field updates for one itinerary item.
type DocumentUpdate struct {
	ID     uuid.UUID
	Fields []FieldUpdate
}

// Validate checks every field update in the document.
func (d DocumentUpdate) Validate() error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("%w: document id is required", ErrValidation)
	}
	for _, f := range d.Fields {
		var err error
		switch u := f.(type) {
		case SetField:
			err = u.Validate()
		case SetAttendance:
			err = u.Validate()
		default:
			err = fmt.Errorf("%w: unsupported update %T", ErrValidation, f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo returns a copy of item with the updates applied. The attendees map
// is copied so the original item is never modified.
func (d DocumentUpdate) ApplyTo(item ItineraryItem) ItineraryItem {
	out := item
	out.Attendees = make(map[string]Attendance, len(item.Attendees))
	for k, v := range item.Attendees {
		out.Attendees[k] = v
	}
	for _, f := range d.Fields {
		switch u := f.(type) {
		case SetField:
			switch u.Field {
			case FieldDate:
				out.Date, _ = u.Value.(string)
			case FieldActivity:
				out.Activity, _ = u.Value.(string)
			case FieldStatus:
				out.Status, _ = u.Value.(string)
			case FieldTimeOrder:
				out.TimeOrder, _ = u.Value.(int)
			case FieldCost:
				out.Cost, _ = u.Value.(float64)
			}
		case SetAttendance:
			out.Attendees[u.MemberID] = u.Attendance
		}
	}
	return out
}
