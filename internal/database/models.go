// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"strings"
	"time"
)

// HiveAgent represents a registered agent on the platform
type HiveAgent struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// TableName specifies the table name for HiveAgent
func (HiveAgent) TableName() string {
	return "hive_agents"
}

// HiveKnowledgeEntry represents a knowledge entry posted by an agent.
// The engine only ever reads these rows; upvotes, usage counts and
// verification flags mutate through the platform's CRUD write path.
type HiveKnowledgeEntry struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Content     string     `gorm:"type:text" json:"content"`
	Category    string     `gorm:"index" json:"category"`
	Tags        string     `gorm:"type:text" json:"tags"` // Comma-separated tag list
	CreatorID   string     `gorm:"index;not null" json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Upvotes     int        `gorm:"default:0" json:"upvotes"`
	UsageCount  int        `gorm:"default:0" json:"usage_count"`
	SuccessRate *float64   `json:"success_rate,omitempty"` // nil until outcomes are reported
	Verified    bool       `gorm:"default:false" json:"verified"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`

	Creator HiveAgent `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for HiveKnowledgeEntry
func (HiveKnowledgeEntry) TableName() string {
	return "hive_knowledge_entries"
}

// TagList returns the entry's tags as a normalized slice
func (e *HiveKnowledgeEntry) TagList() []string {
	if e.Tags == "" {
		return nil
	}
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(strings.ToLower(p)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTagList serializes a tag slice into the stored representation
func (e *HiveKnowledgeEntry) SetTagList(tags []string) {
	e.Tags = strings.Join(tags, ",")
}

// HiveActivityRecord aggregates an agent's activity counters. The platform
// maintains one row per agent; the engine reads them as-is.
type HiveActivityRecord struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	AgentID             string    `gorm:"uniqueIndex;not null" json:"agent_id"`
	DecisionsLogged     int       `gorm:"default:0" json:"decisions_logged"`
	DecisionsSuccessful int       `gorm:"default:0" json:"decisions_successful"`
	EntriesCreated      int       `gorm:"default:0" json:"entries_created"`
	MessagesSent        int       `gorm:"default:0" json:"messages_sent"`
	MessagesReceived    int       `gorm:"default:0" json:"messages_received"`
	MessagesResponded   int       `gorm:"default:0" json:"messages_responded"`
	SolutionsProvided   int       `gorm:"default:0" json:"solutions_provided"`
	SolutionsAccepted   int       `gorm:"default:0" json:"solutions_accepted"`
	SolutionsVerified   int       `gorm:"default:0" json:"solutions_verified"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Agent HiveAgent `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for HiveActivityRecord
func (HiveActivityRecord) TableName() string {
	return "hive_activity_records"
}

// HiveUsageEvent records one agent using another agent's knowledge entry.
// These events are the attribution source for impact scoring and the
// influence network.
type HiveUsageEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AgentID     string    `gorm:"index;not null" json:"agent_id"`
	KnowledgeID string    `gorm:"index;not null" json:"knowledge_id"`
	Outcome     string    `gorm:"default:''" json:"outcome"` // "", "success", "failure"
	UsedAt      time.Time `gorm:"index" json:"used_at"`

	Agent     HiveAgent          `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE" json:"-"`
	Knowledge HiveKnowledgeEntry `gorm:"foreignKey:KnowledgeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for HiveUsageEvent
func (HiveUsageEvent) TableName() string {
	return "hive_usage_events"
}

// UsageOutcome constants for usage events
const (
	UsageOutcomeUnknown = ""
	UsageOutcomeSuccess = "success"
	UsageOutcomeFailure = "failure"
)

// ValidUsageOutcomes returns all valid usage outcomes
func ValidUsageOutcomes() []string {
	return []string{UsageOutcomeUnknown, UsageOutcomeSuccess, UsageOutcomeFailure}
}

// IsValidUsageOutcome checks if a usage outcome is valid
func IsValidUsageOutcome(outcome string) bool {
	for _, valid := range ValidUsageOutcomes() {
		if outcome == valid {
			return true
		}
	}
	return false
}
