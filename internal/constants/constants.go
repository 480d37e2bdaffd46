package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID          = "user_id"
	ContextKeyWorkspace       = "workspace"
	ContextKeyWorkspaceMember = "workspace_member"
	ContextKeyProject         = "project"
	ContextKeyColumn          = "task_column"
	ContextKeyTask            = "task"
)

// Auth
const MinPasswordLength = 8

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Finance: the reserved transfer category and the display suffixes appended
// to each leg's description.
const (
	TransferCategoryName  = "Transferencia"
	TransferSuffixOut     = " (salida)"
	TransferSuffixIn      = " (entrada)"
	ReservedCategoryOut   = "Transferencia (salida)"
	ReservedCategoryIn    = "Transferencia (entrada)"
)
