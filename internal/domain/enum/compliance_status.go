package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ComplianceStatus represents the ZATCA submission state of an e-invoice,
// layered on top of the base document status.
type ComplianceStatus int

const (
	ComplianceStatusPending   ComplianceStatus = 0
	ComplianceStatusSubmitted ComplianceStatus = 1
	ComplianceStatusApproved  ComplianceStatus = 2
	ComplianceStatusRejected  ComplianceStatus = 3
)

func (s ComplianceStatus) String() string {
	names := [...]string{"Pending", "Submitted", "Approved", "Rejected"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

func (s ComplianceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ComplianceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ComplianceStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ComplianceStatusPending
	case "Submitted":
		*s = ComplianceStatusSubmitted
	case "Approved":
		*s = ComplianceStatusApproved
	case "Rejected":
		*s = ComplianceStatusRejected
	}
	return nil
}

func (s ComplianceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ComplianceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ComplianceStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ComplianceStatus(v)
	case int:
		*s = ComplianceStatus(v)
	}
	return nil
}
