package jobs

type JobType string

const (
	TypeBookingConfirmation JobType = "booking.confirmation"
	TypeEventCancelled      JobType = "event.cancelled_notice"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case TypeBookingConfirmation, TypeEventCancelled:
		return true
	default:
		return false
	}
}
