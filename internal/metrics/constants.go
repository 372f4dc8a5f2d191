package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "arcanetable_http_requests_total"
	MetricNameHTTPRequestDuration  = "arcanetable_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "arcanetable_http_requests_in_flight"

	MetricNameWSConnections      = "arcanetable_ws_connections"
	MetricNameMessagesDispatched = "arcanetable_ws_messages_dispatched_total"
	MetricNameDispatchErrors     = "arcanetable_ws_dispatch_errors_total"
	MetricNameBroadcastFailures  = "arcanetable_ws_broadcast_send_failures_total"

	MetricNameLootBagsGenerated = "arcanetable_loot_bags_generated_total"
	MetricNameRoomsRehydrated   = "arcanetable_rooms_rehydrated_total"
	MetricNamePersistenceErrors = "arcanetable_persistence_errors_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests processed"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextWSConnections      = "Number of live websocket connections"
	HelpTextMessagesDispatched = "Total inbound websocket messages dispatched, by type"
	HelpTextDispatchErrors     = "Total dispatch failures, by reason"
	HelpTextBroadcastFailures  = "Total best-effort broadcast sends that failed"

	HelpTextLootBagsGenerated = "Total loot bags generated, by source"
	HelpTextRoomsRehydrated   = "Total rooms rehydrated from the durable store"
	HelpTextPersistenceErrors = "Total write-through persistence failures, by operation"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelReason    = "reason"
	LabelSource    = "source"
	LabelOperation = "operation"
)

// Dispatch error reasons
const (
	ReasonUnknownType  = "unknown_type"
	ReasonUnauthorized = "unauthorized"
	ReasonBadPayload   = "bad_payload"
	ReasonHandlerError = "handler_error"
)

// HTTPLatencyBuckets are tuned for a small interactive API.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
