// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedFixture = `
agents:
  - id: ava
    name: Ava
  - name: Unnamed
entries:
  - id: e-ecs
    title: Deploying services to ECS
    description: Rolling deployments on AWS
    content: Update the task definition and roll tasks.
    category: deployment
    tags: [aws, ecs]
    creator: ava
    upvotes: 3
    usage_count: 12
    success_rate: 0.9
    verified: true
usage:
  - agent: ava
    knowledge: e-ecs
    outcome: success
activity:
  - agent: ava
    decisions_logged: 5
    decisions_successful: 4
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSeed_LoadsFixture(t *testing.T) {
	db := setupTestDB(t)
	path := writeSeedFile(t, seedFixture)

	require.NoError(t, Seed(db, path))

	store := NewStore(db)

	agents, err := store.ListAgents()
	require.NoError(t, err)
	assert.Len(t, agents, 2, "agents without an id get a generated one")

	entry, err := store.GetEntry("e-ecs")
	require.NoError(t, err)
	assert.Equal(t, "ava", entry.CreatorID)
	assert.Equal(t, []string{"aws", "ecs"}, entry.TagList())
	require.NotNil(t, entry.SuccessRate)
	assert.Equal(t, 0.9, *entry.SuccessRate)
	assert.True(t, entry.Verified)
}

func TestSeed_IsIdempotentForKeyedRows(t *testing.T) {
	db := setupTestDB(t)
	path := writeSeedFile(t, seedFixture)

	require.NoError(t, Seed(db, path))
	require.NoError(t, Seed(db, path))

	var count int64
	require.NoError(t, db.Model(&HiveKnowledgeEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "entries keyed by id are not duplicated")
}

func TestSeed_RejectsInvalidOutcome(t *testing.T) {
	db := setupTestDB(t)
	path := writeSeedFile(t, `
usage:
  - agent: ava
    knowledge: e-ecs
    outcome: maybe
`)

	err := Seed(db, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid usage outcome")
}
