package n2k

import (
	"sync"
)

// TelemetryStore holds the most recent decoded value for each field name. Field names are
// shared over all PGNs so `Latitude` from PGN 129025 and `Heading` from PGN 127250 live in
// the same map. Store is safe for single producer and multiple snapshot readers. Each field
// update is atomic, cross field consistency within one frame is not guaranteed: reader may
// observe `Latitude` from frame N and `Longitude` still from frame N-1.
type TelemetryStore struct {
	mu     sync.RWMutex
	fields map[string]interface{}
}

func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{
		fields: make(map[string]interface{}),
	}
}

// Update upserts single field value, overwriting any previous value for that name.
func (s *TelemetryStore) Update(name string, value interface{}) {
	s.mu.Lock()
	s.fields[name] = value
	s.mu.Unlock()
}

// Value returns latest value for given field name. Second return is false when field has
// never been successfully decoded.
func (s *TelemetryStore) Value(name string) (interface{}, bool) {
	s.mu.RLock()
	v, ok := s.fields[name]
	s.mu.RUnlock()
	return v, ok
}

// Snapshot returns independent copy of current state, never a live alias.
func (s *TelemetryStore) Snapshot() map[string]interface{} {
	s.mu.RLock()
	result := make(map[string]interface{}, len(s.fields))
	for name, value := range s.fields {
		result[name] = value
	}
	s.mu.RUnlock()
	return result
}
