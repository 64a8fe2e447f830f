package domain

// Severity controls how a notification is presented.
type Severity string

const (
	SeverityInfo  Severity = "default"
	SeverityError Severity = "destructive"
)

// Notification is a user-visible, fire-and-forget message about the outcome
// of a data operation.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Success builds an informational notification.
func Success(description string) Notification {
	return Notification{Title: "Success!", Description: description, Severity: SeverityInfo}
}

// Failure builds an error notification.
func Failure(description string) Notification {
	return Notification{Title: "Error", Description: description, Severity: SeverityError}
}
