package stats

// Provider defines the interface for components that expose statistics
type Provider interface {
	// GetStats returns all statistics
	GetStats() map[string]interface{}

	// GetStatsFiltered returns statistics filtered by prefix
	GetStatsFiltered(prefix string) map[string]interface{}
}

// Collector defines the methods for recording statistics
type Collector interface {
	Provider

	// TrackOperation records a single operation
	TrackOperation(op OperationType)

	// TrackError increments the counter for the specified error type
	TrackError(errorType string)

	// TrackValues adds to the count of input values processed
	TrackValues(n uint64)

	// TrackRehash increments the map growth counter
	TrackRehash()
}

// Ensure AtomicCollector implements the Collector interface
var _ Collector = (*AtomicCollector)(nil)
