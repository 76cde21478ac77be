package core

import "github.com/google/uuid"

// LoadID identifies a single level (re)load. Every log line produced while
// building a level carries it so interleaved reloads can be told apart.
type LoadID string

func NewLoadID() LoadID {
	return LoadID(uuid.New().String())
}

// Short returns the first block of the id, enough for log correlation.
func (id LoadID) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}
