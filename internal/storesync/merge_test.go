package storesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type rec struct {
	id      string
	created time.Time
	updated time.Time
	val     string
}

func (r rec) RecordID() string       { return r.id }
func (r rec) CreatedTime() time.Time { return r.created }
func (r rec) UpdatedTime() time.Time { return r.updated }

func TestMergeNewerRecordWinsWholesale(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	local := []rec{
		{id: "a", created: base, updated: base.Add(2 * time.Hour), val: "local-a"},
		{id: "b", created: base, updated: base.Add(time.Minute), val: "local-b"},
	}
	remote := []rec{
		{id: "a", created: base, updated: base.Add(time.Hour), val: "remote-a"},
		{id: "b", created: base, updated: base.Add(time.Hour), val: "remote-b"},
	}

	got := MergeByID(local, remote)
	assert.Len(t, got, 2)
	assert.Equal(t, "local-a", got[0].val, "newer local copy wins")
	assert.Equal(t, "remote-b", got[1].val, "newer remote copy wins")
}

func TestMergeUsesCreatedWhenNewer(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// A freshly created local record with a zero UpdatedAt still beats an
	// older remote copy: the greater of the two timestamps counts.
	local := []rec{{id: "a", created: base.Add(time.Hour), val: "local"}}
	remote := []rec{{id: "a", created: base, updated: base.Add(time.Minute), val: "remote"}}

	got := MergeByID(local, remote)
	assert.Equal(t, "local", got[0].val)
}

func TestMergeKeepsDisjointRecords(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	local := []rec{{id: "only-local", created: base}}
	remote := []rec{{id: "only-remote", created: base}}

	got := MergeByID(local, remote)
	assert.Len(t, got, 2)
	assert.Equal(t, "only-remote", got[0].id, "remote ordering first")
	assert.Equal(t, "only-local", got[1].id)
}
