package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// DocumentStatus represents the lifecycle status of a business document.
// "Overdue" is intentionally absent: it is a derived display state computed
// on read, never stored.
type DocumentStatus int

const (
	DocumentStatusDraft     DocumentStatus = 0
	DocumentStatusPending   DocumentStatus = 1
	DocumentStatusApproved  DocumentStatus = 2
	DocumentStatusSent      DocumentStatus = 3
	DocumentStatusPaid      DocumentStatus = 4
	DocumentStatusCancelled DocumentStatus = 5
)

func (s DocumentStatus) String() string {
	names := [...]string{"Draft", "Pending", "Approved", "Sent", "Paid", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

func (s DocumentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DocumentStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = DocumentStatusDraft
	case "Pending":
		*s = DocumentStatusPending
	case "Approved":
		*s = DocumentStatusApproved
	case "Sent":
		*s = DocumentStatusSent
	case "Paid":
		*s = DocumentStatusPaid
	case "Cancelled":
		*s = DocumentStatusCancelled
	}
	return nil
}

// ParseDocumentStatus parses a status name, case-insensitively
func ParseDocumentStatus(str string) (DocumentStatus, bool) {
	switch strings.ToLower(str) {
	case "draft":
		return DocumentStatusDraft, true
	case "pending":
		return DocumentStatusPending, true
	case "approved":
		return DocumentStatusApproved, true
	case "sent":
		return DocumentStatusSent, true
	case "paid":
		return DocumentStatusPaid, true
	case "cancelled":
		return DocumentStatusCancelled, true
	}
	return DocumentStatusDraft, false
}

func (s DocumentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DocumentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DocumentStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DocumentStatus(v)
	case int:
		*s = DocumentStatus(v)
	}
	return nil
}
