package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one employee's attendance for one calendar day.
// (EmployeeID, Date) is unique.
type Record struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	TotalHours   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Record) IsCheckedIn() bool {
	return r.CheckInTime != nil
}

func (r Record) IsCheckedOut() bool {
	return r.CheckOutTime != nil
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

var validStatuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

func (s Status) IsValid() bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DateLayout is the wire and storage format of Record.Date.
const DateLayout = "2006-01-02"
