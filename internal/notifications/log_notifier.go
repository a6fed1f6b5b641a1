package notifications

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, in BookingConfirmationInput) error {
	if err := simulatedProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.booking_confirmation email=%s name=%s event=%s booking=%s quantity=%d",
		in.Email, in.Name, in.EventID, in.BookingID, in.Quantity,
	)
	return nil
}

func (n *LogNotifier) SendEventCancelled(ctx context.Context, in EventCancelledInput) error {
	if err := simulatedProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.event_cancelled event=%s title=%q", in.EventID, in.Title)
	return nil
}

func simulatedProvider(ctx context.Context) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
