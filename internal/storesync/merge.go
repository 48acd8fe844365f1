package storesync

import "time"

// Record is any list-valued row sharing a storage key with its siblings
type Record interface {
	RecordID() string
	CreatedTime() time.Time
	UpdatedTime() time.Time
}

func touched(r Record) time.Time {
	c, u := r.CreatedTime(), r.UpdatedTime()
	if u.After(c) {
		return u
	}
	return c
}

// MergeByID reconciles a local and a remote copy of one key's record list.
// Records are matched by id; when both sides hold the same id the record
// touched more recently wins wholesale. No field-level merge is attempted:
// coarse last-writer-wins is the accepted availability tradeoff. Remote
// ordering is preserved, with local-only records appended in local order.
func MergeByID[T Record](local, remote []T) []T {
	byID := make(map[string]T, len(local))
	for _, r := range local {
		byID[r.RecordID()] = r
	}

	out := make([]T, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))

	for _, rem := range remote {
		id := rem.RecordID()
		seen[id] = true
		if loc, ok := byID[id]; ok && touched(loc).After(touched(rem)) {
			out = append(out, loc)
		} else {
			out = append(out, rem)
		}
	}

	for _, loc := range local {
		if !seen[loc.RecordID()] {
			out = append(out, loc)
		}
	}
	return out
}
