// Package overlay implements the staged-edit lifecycle for editable
// entities: changes requested by a user are staged in an updates JSON
// column (Pending), flattened over the canonical columns on every read,
// and merged into them only when an administrator confirms (Approved).
// All read paths and the confirm flow go through this package so the
// merge rule lives in one place.
package overlay

import (
	"encoding/json"
	"fmt"
)

// State tags where an editable entity sits in the edit-then-approve
// lifecycle.
type State string

const (
	// Approved: no staged changes, canonical columns are authoritative.
	Approved State = "approved"
	// Pending: staged changes exist and await administrative confirmation.
	Pending State = "pending"
)

// StateOf reports the lifecycle state for a staged-updates column.
func StateOf(updates json.RawMessage) State {
	if len(updates) == 0 || string(updates) == "null" || string(updates) == "{}" {
		return Approved
	}
	return Pending
}

// Flatten returns the entity as a generic JSON object with the staged
// updates laid over the canonical fields. The "updates" key itself is
// removed from the result. The stored row is never modified.
func Flatten(entity any, updates json.RawMessage) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}
	base := map[string]any{}
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("unmarshal entity: %w", err)
	}
	delete(base, "updates")

	if StateOf(updates) == Approved {
		return base, nil
	}
	staged := map[string]any{}
	if err := json.Unmarshal(updates, &staged); err != nil {
		return nil, fmt.Errorf("unmarshal staged updates: %w", err)
	}
	for key, value := range staged {
		base[key] = value
	}
	return base, nil
}

// Stage deep-merges new changes into an existing staged set, returning
// the column value to persist. Later stagings win key-by-key.
func Stage(current json.RawMessage, changes map[string]any) (json.RawMessage, error) {
	staged := map[string]any{}
	if StateOf(current) == Pending {
		if err := json.Unmarshal(current, &staged); err != nil {
			return nil, fmt.Errorf("unmarshal staged updates: %w", err)
		}
	}
	for key, value := range changes {
		staged[key] = value
	}
	return json.Marshal(staged)
}

// Confirm merges the staged updates into the canonical entity in place.
// The caller persists the mutated entity and clears the updates column
// in the same transaction.
func Confirm(entity any, updates json.RawMessage) error {
	if StateOf(updates) == Approved {
		return nil
	}
	if err := json.Unmarshal(updates, entity); err != nil {
		return fmt.Errorf("apply staged updates: %w", err)
	}
	return nil
}
