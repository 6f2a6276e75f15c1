package bulk

import (
	"github.com/google/uuid"
)

// Existing is the store snapshot of one member, as much of it as the
// conflict checks and the conditional header update need.
type Existing struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Username string
}

type dupKey struct {
	mode  Mode
	value string
}

// MarkFileDuplicates rejects later rows that repeat an earlier row's
// email or username. Keys are scoped by mode, so an ADD row and an
// EDIT row may share an email without tripping this check; the store
// conflict pass catches the cross-mode case where it matters. First
// occurrence wins regardless of whether it is itself rejected.
func MarkFileDuplicates(rows []*Row) {
	seenEmail := make(map[dupKey]struct{})
	seenUsername := make(map[dupKey]struct{})

	for _, r := range rows {
		if r.Email != "" {
			key := dupKey{r.Mode, r.Email}
			if _, dup := seenEmail[key]; dup {
				r.Reject("Duplicate email within file")
			} else {
				seenEmail[key] = struct{}{}
			}
		}
		if r.Username != "" {
			key := dupKey{r.Mode, r.Username}
			if _, dup := seenUsername[key]; dup {
				r.Reject("Duplicate username within file")
			} else {
				seenUsername[key] = struct{}{}
			}
		}
	}
}

// StoreSnapshot indexes the existing members relevant to one batch.
type StoreSnapshot struct {
	ByID       map[string]Existing
	ByEmail    map[string]Existing
	ByUsername map[string]Existing
}

func NewStoreSnapshot(members []Existing) *StoreSnapshot {
	s := &StoreSnapshot{
		ByID:       make(map[string]Existing, len(members)),
		ByEmail:    make(map[string]Existing, len(members)),
		ByUsername: make(map[string]Existing, len(members)),
	}
	for _, m := range members {
		s.ByID[m.ID.String()] = m
		s.ByEmail[m.Email] = m
		s.ByUsername[m.Username] = m
	}
	return s
}

// MarkStoreConflicts checks surviving rows against the snapshot. ADD
// rows conflict with any existing email/username; EDIT rows must name
// an existing member and may only reuse their own email/username.
// Rows already rejected are skipped, they claimed no keys in the
// store queries.
func MarkStoreConflicts(rows []*Row, snap *StoreSnapshot) {
	for _, r := range rows {
		if r.Rejected() {
			continue
		}
		switch r.Mode {
		case ModeAdd:
			if _, ok := snap.ByEmail[r.Email]; ok {
				r.Reject("Email already exists")
			}
			if _, ok := snap.ByUsername[r.Username]; ok {
				r.Reject("Username already exists")
			}
		case ModeEdit:
			cur, ok := snap.ByID[r.Identifier]
			if !ok {
				r.Reject("Member not found")
				continue
			}
			if r.Email != "" {
				if owner, taken := snap.ByEmail[r.Email]; taken && owner.ID != cur.ID {
					r.Reject("Email belongs to another member")
				}
			}
			if r.Username != "" {
				if owner, taken := snap.ByUsername[r.Username]; taken && owner.ID != cur.ID {
					r.Reject("Username belongs to another member")
				}
			}
		}
	}
}

// Partition is the final split: Accepted rows are committed, Rejected
// rows are reported. The two sets are disjoint and cover every
// non-blank data row.
type Partition struct {
	Accepted []*Row
	Rejected []*Row
}

func Split(rows []*Row) Partition {
	var p Partition
	for _, r := range rows {
		if r.Rejected() {
			p.Rejected = append(p.Rejected, r)
		} else {
			p.Accepted = append(p.Accepted, r)
		}
	}
	return p
}
