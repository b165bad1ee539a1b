package boltprov

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/scjalliance/unlocker/journal"
)

const (
	// UnlockerBucket is the default name of the unlocker boltdb bucket in
	// which the provider stores data.
	UnlockerBucket = "unlocker"
	// SessionBucket is the name of the session journal bucket.
	SessionBucket = "session"
)

// Provider provides a boltdb-backed session journal.
//
// Entries are keyed by start time followed by session ID, so a cursor walks
// them in start order.
type Provider struct {
	db   *bolt.DB
	root []byte
}

// New returns a new bolt provider that stores entries in db.
func New(db *bolt.DB) *Provider {
	return &Provider{
		db:   db,
		root: []byte(UnlockerBucket),
	}
}

// Open opens or creates the bolt database at path and returns a provider
// for it.
func Open(path string) (*Provider, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Close releases any resources consumed by the provider.
func (p *Provider) Close() error {
	return p.db.Close()
}

// ProviderName returns the name of the provider.
func (p *Provider) ProviderName() string {
	return "bolt db"
}

// Record adds an entry to the journal.
func (p *Provider) Record(entry journal.Entry) error {
	if entry.Session == "" {
		return errors.New("unable to record journal entry without a session ID")
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return p.db.Update(func(btx *bolt.Tx) error {
		root, err := btx.CreateBucketIfNotExists(p.root)
		if err != nil {
			return err
		}

		container, err := root.CreateBucketIfNotExists([]byte(SessionBucket))
		if err != nil {
			return err
		}

		return container.Put(key(entry.Started, entry.Session), value)
	})
}

// Entries returns every entry in the journal, ordered by start time.
func (p *Provider) Entries() (entries []journal.Entry, err error) {
	err = p.db.View(func(btx *bolt.Tx) error {
		container := p.container(btx)
		if container == nil {
			return nil
		}

		c := container.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry journal.Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		return nil
	})
	return
}

// Prune removes entries for sessions that started before cutoff.
func (p *Provider) Prune(cutoff time.Time) (removed int, err error) {
	limit := prefix(cutoff)
	err = p.db.Update(func(btx *bolt.Tx) error {
		container := p.container(btx)
		if container == nil {
			return nil
		}

		var stale [][]byte
		c := container.Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k[:len(limit)], limit) < 0; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}

		for _, k := range stale {
			if err := container.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return
}

func (p *Provider) container(btx *bolt.Tx) *bolt.Bucket {
	root := btx.Bucket(p.root)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(SessionBucket))
}

func prefix(t time.Time) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(t.UnixNano()))
	return b
}

func key(started time.Time, session string) []byte {
	return append(prefix(started), session...)
}
