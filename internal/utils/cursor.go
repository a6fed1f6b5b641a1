package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

type EventCursor struct {
	StartDate string `json:"start_date"`
	ID        string `json:"id"`
}

func EncodeEventCursor(startDate, id string) (string, error) {
	b, err := json.Marshal(EventCursor{StartDate: startDate, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeEventCursor(cursor string) (EventCursor, error) {
	if cursor == "" {
		return EventCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return EventCursor{}, err
	}

	var c EventCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return EventCursor{}, err
	}
	if c.ID == "" || c.StartDate == "" {
		return EventCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
