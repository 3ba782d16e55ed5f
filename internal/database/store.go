// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EntryFilter narrows which knowledge entries a snapshot load pulls
type EntryFilter struct {
	Category  string
	CreatorID string
	Verified  *bool
}

// Store is the read-only view of the platform's CRUD store that the
// intelligence engine snapshots from. The engine never writes through it.
type Store struct {
	db *gorm.DB
}

// NewStore creates a read-only store over an existing connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection (seeding and tests only)
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ListEntries returns knowledge entries matching the filter, oldest first.
// Stable ordering matters: snapshot loads must be reproducible.
func (s *Store) ListEntries(filter EntryFilter) ([]HiveKnowledgeEntry, error) {
	query := s.db.Model(&HiveKnowledgeEntry{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}

	var entries []HiveKnowledgeEntry
	if err := query.Order("created_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// GetEntry fetches a single entry by id
func (s *Store) GetEntry(id string) (*HiveKnowledgeEntry, error) {
	var entry HiveKnowledgeEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", id, err)
	}
	return &entry, nil
}

// ListAgents returns all registered agents, oldest first
func (s *Store) ListAgents() ([]HiveAgent, error) {
	var agents []HiveAgent
	if err := s.db.Order("created_at ASC, id ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

// ListActivity returns activity records, optionally scoped to one agent
func (s *Store) ListActivity(agentID string) ([]HiveActivityRecord, error) {
	query := s.db.Model(&HiveActivityRecord{})
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	var records []HiveActivityRecord
	if err := query.Order("agent_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return records, nil
}

// ListUsage returns knowledge usage events since the given time
// (zero time means all events), oldest first
func (s *Store) ListUsage(since time.Time) ([]HiveUsageEvent, error) {
	query := s.db.Model(&HiveUsageEvent{})
	if !since.IsZero() {
		query = query.Where("used_at >= ?", since)
	}

	var events []HiveUsageEvent
	if err := query.Order("used_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list usage events: %w", err)
	}
	return events, nil
}
