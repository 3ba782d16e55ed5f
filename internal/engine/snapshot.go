// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package engine

import (
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/graph"
	"github.com/hivemind-ai/intelligence/internal/text"
)

// Snapshot is an immutable view of the platform store plus everything the
// engine derives from it: the TF-IDF corpus, per-entry quality scores and
// the relationship graph. Load once, answer many queries, discard.
// Concurrent queries may share a snapshot freely since nothing mutates it.
type Snapshot struct {
	Entries []database.HiveKnowledgeEntry
	Agents  []database.HiveAgent
	Usage   []database.HiveUsageEvent
	TakenAt time.Time

	Corpus    *text.Corpus
	Graph     *graph.Graph
	Qualities map[string]float64 // entry id -> quality at TakenAt

	entryByID  map[string]*database.HiveKnowledgeEntry
	agentByID  map[string]*database.HiveAgent
	activity   map[string]*database.HiveActivityRecord
	authoredBy map[string][]database.HiveKnowledgeEntry
	creators   map[string]string // entry id -> creator agent id
}

// Entry looks up an entry by id
func (s *Snapshot) Entry(id string) (*database.HiveKnowledgeEntry, bool) {
	e, ok := s.entryByID[id]
	return e, ok
}

// Agent looks up an agent by id
func (s *Snapshot) Agent(id string) (*database.HiveAgent, bool) {
	a, ok := s.agentByID[id]
	return a, ok
}

// ActivityFor returns the agent's activity record, or nil when the agent
// has none yet
func (s *Snapshot) ActivityFor(agentID string) *database.HiveActivityRecord {
	return s.activity[agentID]
}

// AuthoredBy returns the entries an agent created
func (s *Snapshot) AuthoredBy(agentID string) []database.HiveKnowledgeEntry {
	return s.authoredBy[agentID]
}

// Creators returns the entry id -> creator id attribution map
func (s *Snapshot) Creators() map[string]string {
	return s.creators
}

// index builds the lookup maps after the raw slices are populated
func (s *Snapshot) index(activity []database.HiveActivityRecord) {
	s.entryByID = make(map[string]*database.HiveKnowledgeEntry, len(s.Entries))
	s.authoredBy = make(map[string][]database.HiveKnowledgeEntry)
	s.creators = make(map[string]string, len(s.Entries))
	for i := range s.Entries {
		e := &s.Entries[i]
		s.entryByID[e.ID] = e
		s.authoredBy[e.CreatorID] = append(s.authoredBy[e.CreatorID], *e)
		s.creators[e.ID] = e.CreatorID
	}

	s.agentByID = make(map[string]*database.HiveAgent, len(s.Agents))
	for i := range s.Agents {
		s.agentByID[s.Agents[i].ID] = &s.Agents[i]
	}

	s.activity = make(map[string]*database.HiveActivityRecord, len(activity))
	for i := range activity {
		s.activity[activity[i].AgentID] = &activity[i]
	}
}

// usageOfAgentSince returns events where another agent used one of this
// agent's entries at or after the cutoff (zero cutoff means all)
func (s *Snapshot) usageOfAgentSince(agentID string, cutoff time.Time) []database.HiveUsageEvent {
	var events []database.HiveUsageEvent
	for _, e := range s.Usage {
		if s.creators[e.KnowledgeID] != agentID || e.AgentID == agentID {
			continue
		}
		if !cutoff.IsZero() && e.UsedAt.Before(cutoff) {
			continue
		}
		events = append(events, e)
	}
	return events
}

// usageByAgent returns the entry ids an agent has used
func (s *Snapshot) usageByAgent(agentID string) map[string]bool {
	used := make(map[string]bool)
	for _, e := range s.Usage {
		if e.AgentID == agentID {
			used[e.KnowledgeID] = true
		}
	}
	return used
}
