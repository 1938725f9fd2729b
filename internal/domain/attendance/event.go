package attendance

// ManagersTopic is the live feed topic that carries every check-in and
// check-out as a RecordWithEmployeeResponse.
const ManagersTopic = "attendance.managers"

const (
	EventCheckedIn  = "attendance.checked_in"
	EventCheckedOut = "attendance.checked_out"
)
