package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MeetingStatus represents whether a meeting has happened yet.
type MeetingStatus string

const (
	MeetingStatusUpcoming  MeetingStatus = "Upcoming"
	MeetingStatusCompleted MeetingStatus = "Completed"
)

// Meeting is a scheduled conversation about a project.
type Meeting struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"projectId"`
	Title        string        `json:"title"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Duration     int           `json:"duration"`
	Status       MeetingStatus `json:"status"`
	Minutes      string        `json:"minutes"`
	Participants []string      `json:"participants"`
}

func (m Meeting) Key() string        { return m.ID }
func (m Meeting) ProjectRef() string { return m.ProjectID }

// Participants is an ordered list of names stored as a JSON array column.
type Participants []string

// Value implements driver.Valuer.
func (p Participants) Value() (driver.Value, error) {
	if p == nil {
		p = Participants{}
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, fmt.Errorf("encode participants: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL scans to an empty list.
func (p *Participants) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Participants{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan participants: unsupported type %T", src)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return fmt.Errorf("decode participants: %w", err)
	}
	*p = names
	return nil
}

// ParseParticipants splits a comma separated list of names, trimming blanks.
// Order and duplicates are kept.
func ParseParticipants(s string) []string {
	names := []string{}
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MeetingRow is the persisted shape of a meeting.
type MeetingRow struct {
	ID           string       `db:"id"`
	UserID       string       `db:"user_id"`
	ProjectID    string       `db:"project_id"`
	Title        string       `db:"title"`
	Date         string       `db:"date"`
	Time         string       `db:"time"`
	Duration     int          `db:"duration"`
	Status       string       `db:"status"`
	Minutes      *string      `db:"minutes"`
	Participants Participants `db:"participants"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// MeetingInput carries the fields of a meeting create or partial update.
type MeetingInput struct {
	ProjectID    *string        `json:"projectId" validate:"omitnil,min=1"`
	Title        *string        `json:"title" validate:"omitnil,min=1,max=200"`
	Date         *string        `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Time         *string        `json:"time" validate:"omitnil,datetime=15:04"`
	Duration     *int           `json:"duration" validate:"omitnil,gt=0"`
	Status       *MeetingStatus `json:"status" validate:"omitnil,oneof=Upcoming Completed"`
	Minutes      *string        `json:"minutes" validate:"omitnil,max=20000"`
	Participants *[]string      `json:"participants" validate:"omitnil,max=100"`
}

// Complete reports the first field a new meeting cannot be created without.
func (in MeetingInput) Complete() error {
	switch {
	case in.ProjectID == nil:
		return missing("projectId")
	case in.Title == nil:
		return missing("title")
	case in.Date == nil:
		return missing("date")
	case in.Time == nil:
		return missing("time")
	case in.Duration == nil:
		return missing("duration")
	case in.Status == nil:
		return missing("status")
	}
	return nil
}

// ToRow maps the supplied fields onto meeting columns owned by ownerID.
func (in MeetingInput) ToRow(ownerID string) RowPatch {
	p := newRowPatch(ownerID)
	setIf(p, "project_id", in.ProjectID)
	setIf(p, "title", in.Title)
	setIf(p, "date", in.Date)
	setIf(p, "time", in.Time)
	setIf(p, "duration", in.Duration)
	setText(p, "status", in.Status)
	setIf(p, "minutes", in.Minutes)
	if in.Participants != nil {
		p["participants"] = Participants(*in.Participants)
	}
	return p
}

// MeetingFromRow maps a stored meeting row to its record.
func MeetingFromRow(row MeetingRow) Meeting {
	participants := []string(row.Participants)
	if participants == nil {
		participants = []string{}
	}
	return Meeting{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		Title:        row.Title,
		Date:         row.Date,
		Time:         row.Time,
		Duration:     row.Duration,
		Status:       MeetingStatus(row.Status),
		Minutes:      orEmpty(row.Minutes),
		Participants: participants,
	}
}

// MarkMeetingCompleted returns the partial update that marks a meeting held.
func MarkMeetingCompleted() MeetingInput {
	status := MeetingStatusCompleted
	return MeetingInput{Status: &status}
}
