// Package stats collects operation counters for the tally containers
// and pipeline. Counters are atomic so the interactive shell can read
// them while a pipeline run is in flight.
package stats

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// OperationType defines the type of operation being tracked
type OperationType string

// Common operation types
const (
	OpInsert     OperationType = "insert"
	OpErase      OperationType = "erase"
	OpFind       OperationType = "find"
	OpEntries    OperationType = "entries"
	OpHeapInsert OperationType = "heap_insert"
	OpExtractMax OperationType = "extract_max"
	OpBuild      OperationType = "build"
	OpSort       OperationType = "sort"
	OpPipeline   OperationType = "pipeline"
)

// AtomicCollector provides centralized statistics collection with
// minimal contention using atomic counters
type AtomicCollector struct {
	counts   map[OperationType]*atomic.Uint64
	countsMu sync.RWMutex // Only used when creating new counter entries

	lastOpTime   map[OperationType]time.Time
	lastOpTimeMu sync.RWMutex

	errors   map[string]*atomic.Uint64
	errorsMu sync.RWMutex

	valuesProcessed atomic.Uint64
	rehashCount     atomic.Uint64
}

// NewCollector creates a new statistics collector
func NewCollector() *AtomicCollector {
	return &AtomicCollector{
		counts:     make(map[OperationType]*atomic.Uint64),
		lastOpTime: make(map[OperationType]time.Time),
		errors:     make(map[string]*atomic.Uint64),
	}
}

// TrackOperation increments the counter for the specified operation type
func (c *AtomicCollector) TrackOperation(op OperationType) {
	counter := c.getOrCreateCounter(op)
	counter.Add(1)

	c.lastOpTimeMu.Lock()
	c.lastOpTime[op] = time.Now()
	c.lastOpTimeMu.Unlock()
}

// TrackError increments the counter for the specified error type
func (c *AtomicCollector) TrackError(errorType string) {
	c.errorsMu.RLock()
	counter, exists := c.errors[errorType]
	c.errorsMu.RUnlock()

	if !exists {
		c.errorsMu.Lock()
		if counter, exists = c.errors[errorType]; !exists {
			counter = &atomic.Uint64{}
			c.errors[errorType] = counter
		}
		c.errorsMu.Unlock()
	}

	counter.Add(1)
}

// TrackValues adds to the count of input values processed
func (c *AtomicCollector) TrackValues(n uint64) {
	c.valuesProcessed.Add(n)
}

// TrackRehash increments the map growth counter
func (c *AtomicCollector) TrackRehash() {
	c.rehashCount.Add(1)
}

// GetStats returns all statistics as a map
func (c *AtomicCollector) GetStats() map[string]interface{} {
	stats := make(map[string]interface{})

	c.countsMu.RLock()
	for op, counter := range c.counts {
		stats[string(op)+"_ops"] = counter.Load()
	}
	c.countsMu.RUnlock()

	c.lastOpTimeMu.RLock()
	for op, timestamp := range c.lastOpTime {
		stats["last_"+string(op)+"_time"] = timestamp.UnixNano()
	}
	c.lastOpTimeMu.RUnlock()

	stats["values_processed"] = c.valuesProcessed.Load()
	stats["rehash_count"] = c.rehashCount.Load()

	c.errorsMu.RLock()
	errorStats := make(map[string]uint64)
	for errType, counter := range c.errors {
		errorStats[errType] = counter.Load()
	}
	c.errorsMu.RUnlock()
	stats["errors"] = errorStats

	return stats
}

// GetStatsFiltered returns statistics filtered by key prefix
func (c *AtomicCollector) GetStatsFiltered(prefix string) map[string]interface{} {
	allStats := c.GetStats()
	filtered := make(map[string]interface{})

	for key, value := range allStats {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			filtered[key] = value
		}
	}

	return filtered
}

// getOrCreateCounter gets or creates an atomic counter for the operation
func (c *AtomicCollector) getOrCreateCounter(op OperationType) *atomic.Uint64 {
	// Fast path under read lock
	c.countsMu.RLock()
	counter, exists := c.counts[op]
	c.countsMu.RUnlock()

	if !exists {
		c.countsMu.Lock()
		if counter, exists = c.counts[op]; !exists {
			counter = &atomic.Uint64{}
			c.counts[op] = counter
		}
		c.countsMu.Unlock()
	}

	return counter
}
