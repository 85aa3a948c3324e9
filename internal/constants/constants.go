package constants

const (
	// Pagination
	DefaultPage         = 1
	MinPageSize         = 1
	DefaultPageSize     = 20
	DefaultTaskPageSize = 100
	MaxPageSize         = 500

	// UnassignedUserName is what clients see in assignedUserName for a task with no owner
	UnassignedUserName = "unassigned"

	// AI
	MaxAIGeneratedTasks = 20
	MaxDraftTextLength  = 10000
)
