package domain

import "strings"

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on_the_way"
	StatusDelivered Status = "delivered"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPreparing: {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered},
	StatusDelivered: {StatusDone},
	StatusDone:      {},
	StatusCancelled: {},
}

// ParseStatus normalizes a status string coming from the API or a request.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	_, ok := validTransitions[st]
	return st, ok
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo checks if an order in status s can move to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Actionable reports whether a courier-side action is still possible.
func (s Status) Actionable() bool {
	return s == StatusPreparing || s == StatusOnTheWay || s == StatusDelivered
}

// Rank orders statuses along the lifecycle. Terminal cancellation ranks
// above everything so it is never overwritten by an older status.
func (s Status) Rank() int {
	switch s {
	case StatusPreparing:
		return 1
	case StatusOnTheWay:
		return 2
	case StatusDelivered:
		return 3
	case StatusDone:
		return 4
	case StatusCancelled:
		return 5
	default:
		return 0
	}
}
