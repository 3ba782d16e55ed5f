// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler refreshes the engine snapshot on a fixed interval so
// long-running servers keep answering from reasonably fresh data.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/hivemind-ai/intelligence/internal/engine"
)

// Scheduler handles periodic snapshot refreshes
type Scheduler struct {
	engine   *engine.Engine
	interval time.Duration
	stopChan chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(eng *engine.Engine, intervalMinutes int) *Scheduler {
	return &Scheduler{
		engine:   eng,
		interval: time.Duration(intervalMinutes) * time.Minute,
		stopChan: make(chan bool),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopChan <- true
}

// refresh rebuilds the snapshot, bounded so a stuck database cannot pile
// up refresh goroutines
func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if err := s.engine.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh snapshot: %v", err)
	}
}
