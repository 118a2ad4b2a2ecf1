package board

import "github.com/runoshun/shopdesk/internal/domain"

// MsgTasksLoaded is sent when tasks are loaded from the store.
type MsgTasksLoaded struct {
	Tasks []*domain.Task
}

// MsgTaskMoved is sent after a task changed status.
type MsgTaskMoved struct {
	Task *domain.Task
	From domain.Status
}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}
