package services

import "sira/internal/models"

// Allowed status transitions. Assignment to a tasker happens through
// the accept/confirm flows, not through a raw status update.
var TaskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.TaskOpen:       {models.TaskCancelled: true},
	models.TaskAssigned:   {models.TaskInProgress: true, models.TaskCancelled: true},
	models.TaskInProgress: {models.TaskCompleted: true, models.TaskCancelled: true},
	models.TaskCompleted:  {},
	models.TaskCancelled:  {},
}

var BookingTransitions = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.BookingPending:    {models.BookingConfirmed: true, models.BookingCancelled: true},
	models.BookingConfirmed:  {models.BookingInProgress: true, models.BookingCancelled: true},
	models.BookingInProgress: {models.BookingCompleted: true, models.BookingCancelled: true},
	models.BookingCompleted:  {},
	models.BookingCancelled:  {},
}

func canTransitionTask(current, to models.TaskStatus) bool {
	nexts, ok := TaskTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

func canTransitionBooking(current, to models.BookingStatus) bool {
	nexts, ok := BookingTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}
