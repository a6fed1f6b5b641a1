package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/geocoder89/tickethub/internal/domain/job"
)

// DecodePayload unmarshals job.Payload into the correct typed payload struct.
func DecodePayload(j job.Job) (any, error) {
	t := JobType(j.Type)

	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}
	if len(j.Payload) == 0 {
		return nil, ErrInvalidJobPayload
	}

	switch t {
	case TypeBookingConfirmation:
		var p BookingConfirmationPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		if err := validateBookingConfirmation(p); err != nil {
			return nil, err
		}
		return p, nil

	case TypeEventCancelled:
		var p EventCancelledPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		if strings.TrimSpace(p.EventID) == "" {
			return nil, ErrInvalidJobPayload
		}
		return p, nil

	default:
		return nil, ErrInvalidJobType
	}
}

func validateBookingConfirmation(p BookingConfirmationPayload) error {
	trim := strings.TrimSpace

	if trim(p.BookingID) == "" || trim(p.EventID) == "" || trim(p.UserID) == "" {
		return ErrInvalidJobPayload
	}

	if p.Quantity < 1 {
		return ErrInvalidJobPayload
	}

	return nil
}
