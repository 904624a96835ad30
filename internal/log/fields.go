package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldPeriod      = "period"
	FieldMonth       = "month"
	FieldCategory    = "category"
	FieldDirection   = "direction"
	FieldAmount      = "amount"
	FieldFingerprint = "fingerprint"
	FieldDescription = "description"
	FieldSubject     = "subject"
	FieldCount       = "count"
	FieldSheetsRef   = "sheets_ref"
	FieldMessageID   = "message_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentImport  = "import"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentMail    = "mail"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpExtract   = "extract"
	OpDedup     = "dedup"
	OpStage     = "stage"
	OpAppend    = "append"
	OpSync      = "sync"
	OpReconcile = "reconcile"
	OpFetch     = "fetch"
	OpParse     = "parse"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
