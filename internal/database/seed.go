// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the on-disk fixture format consumed by the --seed flag.
// It mirrors what the platform's write path would have produced.
type SeedFile struct {
	Agents  []SeedAgent  `yaml:"agents"`
	Entries []SeedEntry  `yaml:"entries"`
	Usage   []SeedUsage  `yaml:"usage"`
	Records []SeedRecord `yaml:"activity"`
}

// SeedAgent describes an agent fixture
type SeedAgent struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	CreatedAt    time.Time `yaml:"created_at"`
	LastActiveAt time.Time `yaml:"last_active_at"`
}

// SeedEntry describes a knowledge entry fixture
type SeedEntry struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Content     string    `yaml:"content"`
	Category    string    `yaml:"category"`
	Tags        []string  `yaml:"tags"`
	Creator     string    `yaml:"creator"`
	CreatedAt   time.Time `yaml:"created_at"`
	Upvotes     int       `yaml:"upvotes"`
	UsageCount  int       `yaml:"usage_count"`
	SuccessRate *float64  `yaml:"success_rate"`
	Verified    bool      `yaml:"verified"`
}

// SeedUsage describes a usage attribution fixture
type SeedUsage struct {
	Agent     string    `yaml:"agent"`
	Knowledge string    `yaml:"knowledge"`
	Outcome   string    `yaml:"outcome"`
	UsedAt    time.Time `yaml:"used_at"`
}

// SeedRecord describes an activity record fixture
type SeedRecord struct {
	Agent               string `yaml:"agent"`
	DecisionsLogged     int    `yaml:"decisions_logged"`
	DecisionsSuccessful int    `yaml:"decisions_successful"`
	EntriesCreated      int    `yaml:"entries_created"`
	MessagesSent        int    `yaml:"messages_sent"`
	MessagesReceived    int    `yaml:"messages_received"`
	MessagesResponded   int    `yaml:"messages_responded"`
	SolutionsProvided   int    `yaml:"solutions_provided"`
	SolutionsAccepted   int    `yaml:"solutions_accepted"`
	SolutionsVerified   int    `yaml:"solutions_verified"`
}

// Seed loads a YAML fixture file into the store. Existing rows with the
// same ids are left untouched; seeding is for empty development databases.
func Seed(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, a := range file.Agents {
		agent := HiveAgent{
			ID:           orUUID(a.ID),
			Name:         a.Name,
			CreatedAt:    a.CreatedAt,
			LastActiveAt: a.LastActiveAt,
		}
		if err := db.FirstOrCreate(&agent, HiveAgent{ID: agent.ID}).Error; err != nil {
			return fmt.Errorf("failed to seed agent %s: %w", a.Name, err)
		}
	}

	for _, e := range file.Entries {
		entry := HiveKnowledgeEntry{
			ID:          orUUID(e.ID),
			Title:       e.Title,
			Description: e.Description,
			Content:     e.Content,
			Category:    e.Category,
			CreatorID:   e.Creator,
			CreatedAt:   e.CreatedAt,
			Upvotes:     e.Upvotes,
			UsageCount:  e.UsageCount,
			SuccessRate: e.SuccessRate,
			Verified:    e.Verified,
		}
		entry.SetTagList(e.Tags)
		if err := db.FirstOrCreate(&entry, HiveKnowledgeEntry{ID: entry.ID}).Error; err != nil {
			return fmt.Errorf("failed to seed entry %q: %w", e.Title, err)
		}
	}

	for _, u := range file.Usage {
		if !IsValidUsageOutcome(u.Outcome) {
			return fmt.Errorf("invalid usage outcome %q in seed file", u.Outcome)
		}
		event := HiveUsageEvent{
			AgentID:     u.Agent,
			KnowledgeID: u.Knowledge,
			Outcome:     u.Outcome,
			UsedAt:      u.UsedAt,
		}
		if err := db.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to seed usage event: %w", err)
		}
	}

	for _, r := range file.Records {
		record := HiveActivityRecord{
			AgentID:             r.Agent,
			DecisionsLogged:     r.DecisionsLogged,
			DecisionsSuccessful: r.DecisionsSuccessful,
			EntriesCreated:      r.EntriesCreated,
			MessagesSent:        r.MessagesSent,
			MessagesReceived:    r.MessagesReceived,
			MessagesResponded:   r.MessagesResponded,
			SolutionsProvided:   r.SolutionsProvided,
			SolutionsAccepted:   r.SolutionsAccepted,
			SolutionsVerified:   r.SolutionsVerified,
		}
		if err := db.FirstOrCreate(&record, HiveActivityRecord{AgentID: r.Agent}).Error; err != nil {
			return fmt.Errorf("failed to seed activity for %s: %w", r.Agent, err)
		}
	}

	return nil
}

// orUUID returns the id unchanged, or a fresh UUID when the fixture omits one
func orUUID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
