package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ValidationError is a malformed, duplicate or unknown mutation. Dropped, never retried.
	ValidationError ErrorCode = "validation_error"
	// StaleError is a sequence or version older than the current state.
	StaleError ErrorCode = "stale_error"
	// GapError is a sequence or version ahead of the current state; it triggers a resync.
	GapError ErrorCode = "gap_error"
	// TransientInfraError is raised when the table store or the cache/queue is unreachable.
	TransientInfraError ErrorCode = "transient_infra_error"
	// FatalConfigError aborts startup.
	FatalConfigError ErrorCode = "fatal_config_error"
	// UnknownPair is returned for a pair the sequencer does not serve.
	UnknownPair ErrorCode = "unknown_pair"
	// ServiceUnavailable is returned when the sequencer connection is down.
	ServiceUnavailable ErrorCode = "service_unavailable"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"

	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisIncrError represents an error when incrementing a counter in Redis.
	RedisIncrError ErrorCode = "redis_incr_error"

	// RedisHGetError represents an error when getting a field from a hash in Redis.
	RedisHGetError ErrorCode = "redis_hget_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisHDelError represents an error when deleting fields from a hash in Redis.
	RedisHDelError ErrorCode = "redis_hdel_error"

	// RedisListError represents an error on a list command (push, pop, move, remove).
	RedisListError ErrorCode = "redis_list_error"
	// RedisTxError represents an error when executing a MULTI/EXEC pipeline.
	RedisTxError ErrorCode = "redis_tx_error"
	// RedisSubscribeError represents an error when subscribing to channels in Redis.
	RedisSubscribeError ErrorCode = "redis_subscribe_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates a critical error that requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates a high severity error that should be addressed promptly.
	SeverityHigh Severity = "high"
	// SeverityLow indicates a low severity error that can be addressed at a later time.
	SeverityLow Severity = "low"
)

// SeverityOf maps a code to the severity used when logging it.
func SeverityOf(code ErrorCode) Severity {
	switch code {
	case FatalConfigError, UnknownPair:
		return SeverityCritical
	case TransientInfraError, ServiceUnavailable:
		return SeverityHigh
	default:
		return SeverityLow
	}
}
