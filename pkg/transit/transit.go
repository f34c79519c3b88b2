// Package transit holds the domain model of transitdb: canonical station
// records, the pages of the content tree that mirrors them, and the
// interfaces of the stores both live in. It has no I/O dependencies.
package transit

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a page or a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoCompositeKey is returned by Upsert for records without a
	// station id or a line id.
	ErrNoCompositeKey = errors.New("station record has no composite key")

	// ErrSlugTaken is returned when a sibling page already uses a slug.
	ErrSlugTaken = errors.New("slug is taken by a sibling page")
)

// PageTree gives access to the content tree.
type PageTree interface {
	// Page returns a page by its ID.
	Page(ctx context.Context, id int64) (*Page, error)

	// Children returns the direct children of a page in creation order.
	Children(ctx context.Context, parentID int64, m Match) ([]*Page, error)

	// Descendants returns all pages below a page.
	Descendants(ctx context.Context, ancestorID int64, m Match) ([]*Page, error)

	// Pages returns every page of the tree accepted by m, ordered by ID.
	Pages(ctx context.Context, m Match) ([]*Page, error)

	// CreateChild adds a new page as the last child of a parent. It sets
	// ID, ParentID, URLPath and Position of p.
	CreateChild(ctx context.Context, parentID int64, p *Page) error

	// Save stores title, slug, live state and payload of an existing page.
	Save(ctx context.Context, p *Page) error

	// Publish saves the page, makes it live and records a revision.
	Publish(ctx context.Context, p *Page) error
}

// StationStore is the canonical store of station records.
type StationStore interface {
	// Upsert creates a record for a new key or updates the existing one.
	// The boolean result is true when a record was created.
	Upsert(ctx context.Context, key StationKey, f StationFields) (*StationRecord, bool, error)

	// Station returns a record by its ID.
	Station(ctx context.Context, id int64) (*StationRecord, error)

	// Stations returns records ordered by station label, line label and
	// ID.
	Stations(ctx context.Context, f StationFilter) ([]*StationRecord, error)

	// SystemLabels returns distinct non-empty system labels, sorted.
	SystemLabels(ctx context.Context) ([]string, error)

	// SystemQID returns the first non-empty system id of a system label.
	SystemQID(ctx context.Context, systemLabel string) (string, error)

	// Lines returns distinct lines of a system with non-empty labels,
	// sorted by label.
	Lines(ctx context.Context, systemLabel string) ([]LineRef, error)

	// CountStations returns the number of stored records.
	CountStations(ctx context.Context) (int, error)
}

// UnitOfWork makes all writes of a session atomic.
type UnitOfWork interface {
	Commit() error
	Rollback() error
}

// Session is a transactional view of the whole store.
type Session interface {
	PageTree
	StationStore
	UnitOfWork
}

// Store opens sessions.
type Store interface {
	Begin(ctx context.Context) (Session, error)
}

// Atomically runs fn inside one session. The session is committed when
// fn succeeds, unless dryRun is set, and rolled back in every other case.
func Atomically(
	ctx context.Context,
	s Store,
	dryRun bool,
	fn func(Session) error,
) (err error) {
	sess, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sess.Rollback()
			panic(p)
		}
	}()

	if err = fn(sess); err != nil {
		if rbErr := sess.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if dryRun {
		return sess.Rollback()
	}
	return sess.Commit()
}
