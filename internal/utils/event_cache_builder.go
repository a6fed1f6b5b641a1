package utils

import (
	"strconv"
	"strings"
)

const EventsListCachePrefix = "events:list:v1:"

func BuildEventsListCacheKey(limit int, categoryID, venueID *int, status, organizerID, query, from, to, cursor *string) string {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(*p))
	}
	num := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}

	return EventsListCachePrefix +
		"limit=" + strconv.Itoa(limit) +
		":category=" + num(categoryID) +
		":venue=" + num(venueID) +
		":status=" + str(status) +
		":organizer=" + str(organizerID) +
		":q=" + str(query) +
		":from=" + str(from) +
		":to=" + str(to) +
		":cursor=" + str(cursor)
}
