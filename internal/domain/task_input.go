package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// OptionalString is a JSON string field that remembers whether it was present,
// explicitly null, or of the wrong JSON type. Decoding never fails on it, so
// type mismatches surface as validation messages instead of decode errors.
type OptionalString struct {
	Set     bool
	Null    bool
	Value   string
	Invalid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(trimmed, &o.Value); err != nil {
		o.Invalid = true
	}
	return nil
}

// String returns an OptionalString holding value.
func String(value string) OptionalString {
	return OptionalString{Set: true, Value: value}
}

// Null returns an OptionalString that was explicitly null.
func Null() OptionalString {
	return OptionalString{Set: true, Null: true}
}

// present reports whether the field carries a non-null value.
func (o OptionalString) present() bool {
	return o.Set && !o.Null
}

// TaskInput is the raw, unvalidated body of a create or update request.
type TaskInput struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	Status      OptionalString `json:"status"`
	CompletedAt OptionalString `json:"completed_at"`
}

// TaskChanges is the validated form of a TaskInput. Nil pointers and false
// *Set flags mean "leave the field alone".
type TaskChanges struct {
	Title          *string
	DescriptionSet bool
	Description    *string
	Status         *TaskStatus
	CompletedAtSet bool
	CompletedAt    *time.Time
}

// Validation messages returned to clients.
const (
	msgTitleRequired     = "Title is required"
	msgTitleEmpty        = "Title cannot be empty if provided"
	msgTitleString       = "Title must be a string"
	msgDescriptionString = "Description must be a string"
	msgCompletedAtFormat = "completed_at must be a valid ISO date string"
)

// msgTitleTooLong and msgStatusInvalid depend on constants computed at init.
var (
	msgTitleTooLong  = fmt.Sprintf("Title must not exceed %d characters", MaxTitleLength)
	msgStatusInvalid = fmt.Sprintf("Status must be one of: %s", statusList())
)

// dateLayouts are the ISO-8601 shapes accepted for completed_at: calendar
// dates in extended or basic form, reduced-precision dates, and date-times
// separated by "T" or a space with hour, minute or second precision and an
// optional zone. Fractional seconds need no layout of their own. Layouts
// without a zone are read as UTC.
var dateLayouts = buildDateLayouts()

func buildDateLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	times := []string{"15:04:05", "15:04", "15"}
	zones := []string{"", "Z07:00", "Z0700", "Z07"}

	layouts := []string{"2006", "2006-01"}
	layouts = append(layouts, dates...)
	for _, date := range dates {
		for _, sep := range []string{"T", " "} {
			for _, clock := range times {
				for _, zone := range zones {
					layouts = append(layouts, date+sep+clock+zone)
				}
			}
		}
	}
	return layouts
}

// ParseTimestamp parses an ISO-8601 date or date-time string.
func ParseTimestamp(value string) (time.Time, error) {
	// A lower-case UTC designator is valid ISO-8601; Go layouts only match "Z".
	if strings.HasSuffix(value, "z") {
		value = value[:len(value)-1] + "Z"
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", ErrValidation, value)
}

// ValidateForCreate checks a create request. Title is mandatory; every other
// field is optional.
func (in TaskInput) ValidateForCreate() (TaskChanges, error) {
	verrs := &ValidationErrors{}
	var changes TaskChanges

	switch {
	case in.Title.Invalid:
		verrs.Add("title", msgTitleString)
	case !in.Title.present() || in.Title.Value == "":
		verrs.Add("title", msgTitleRequired)
	default:
		validateTitle(in.Title.Value, &changes, verrs)
	}

	validateOptionalFields(in, &changes, verrs)

	return changes, verrs.errOrNil()
}

// ValidateForUpdate checks a partial update. Only fields present in the
// request are validated; absent fields produce no changes.
func (in TaskInput) ValidateForUpdate() (TaskChanges, error) {
	verrs := &ValidationErrors{}
	var changes TaskChanges

	if in.Title.Set {
		switch {
		case in.Title.Invalid:
			verrs.Add("title", msgTitleString)
		case in.Title.Null || in.Title.Value == "":
			verrs.Add("title", msgTitleEmpty)
		default:
			validateTitle(in.Title.Value, &changes, verrs)
		}
	}

	validateOptionalFields(in, &changes, verrs)

	return changes, verrs.errOrNil()
}

func validateTitle(title string, changes *TaskChanges, verrs *ValidationErrors) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		verrs.Add("title", msgTitleTooLong)
		return
	}
	changes.Title = &title
}

// validateOptionalFields handles description, status and completed_at, whose
// rules are the same for create and update.
func validateOptionalFields(in TaskInput, changes *TaskChanges, verrs *ValidationErrors) {
	if in.Description.Set {
		switch {
		case in.Description.Invalid:
			verrs.Add("description", msgDescriptionString)
		case in.Description.Null:
			changes.DescriptionSet = true
		default:
			desc := in.Description.Value
			changes.DescriptionSet = true
			changes.Description = &desc
		}
	}

	// A null status is treated as absent.
	if in.Status.Set && !in.Status.Null {
		status := TaskStatus(in.Status.Value)
		if in.Status.Invalid || !status.Valid() {
			verrs.Add("status", msgStatusInvalid)
		} else {
			changes.Status = &status
		}
	}

	if in.CompletedAt.Set {
		switch {
		case in.CompletedAt.Invalid:
			verrs.Add("completed_at", msgCompletedAtFormat)
		case in.CompletedAt.Null:
			changes.CompletedAtSet = true
		default:
			ts, err := ParseTimestamp(in.CompletedAt.Value)
			if err != nil {
				verrs.Add("completed_at", msgCompletedAtFormat)
				return
			}
			changes.CompletedAtSet = true
			changes.CompletedAt = &ts
		}
	}
}
