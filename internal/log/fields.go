package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldUserEmail   = "user_email"
	FieldTxID        = "transaction_id"
	FieldKind        = "transaction_type"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldYear        = "year"
	FieldMonth       = "month"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentService = "service"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSeed    = "seed"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpList      = "list"
	OpAggregate = "aggregate"
	OpDelete    = "delete"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpRefresh   = "refresh"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
