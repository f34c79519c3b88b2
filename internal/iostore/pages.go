package iostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gnames/transitdb/pkg/schema"
	"github.com/gnames/transitdb/pkg/transit"
)

var pageSelect = "SELECT " +
	strings.Join(schema.Columns(schema.Page{}), ", ") + " FROM pages"

func toPage(row schema.Page) (*transit.Page, error) {
	res := &transit.Page{
		ID:        row.ID,
		ParentID:  row.ParentID.Int64,
		Kind:      transit.NewKind(row.Kind),
		Title:     row.Title,
		Slug:      row.Slug,
		Live:      row.Live,
		URLPath:   row.URLPath,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := res.UnmarshalPayload([]byte(row.Data)); err != nil {
		return nil, fmt.Errorf("page %d: %w", row.ID, err)
	}
	return res, nil
}

func (s *session) pages(
	ctx context.Context,
	m transit.Match,
	where string,
	args ...any,
) ([]*transit.Page, error) {
	var rows []schema.Page
	q := pageSelect + " " + where
	if err := s.sel(ctx, &rows, q, args...); err != nil {
		return nil, QueryError("pages", err)
	}

	var res []*transit.Page
	for _, row := range rows {
		p, err := toPage(row)
		if err != nil {
			return nil, QueryError("pages", err)
		}
		if m.Accepts(p) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (s *session) Page(ctx context.Context, id int64) (*transit.Page, error) {
	var row schema.Page
	err := s.get(ctx, &row, pageSelect+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %d: %w", id, transit.ErrNotFound)
	}
	if err != nil {
		return nil, QueryError("page", err)
	}
	res, err := toPage(row)
	if err != nil {
		return nil, QueryError("page", err)
	}
	return res, nil
}

func (s *session) Children(
	ctx context.Context,
	parentID int64,
	m transit.Match,
) ([]*transit.Page, error) {
	return s.pages(ctx, m, "WHERE parent_id = ? ORDER BY position, id",
		parentID)
}

// pathLen is the length of a url_path as SQL substr counts it, in
// characters. Slugs may contain any letters, so bytes do not match.
func pathLen(path string) int {
	return utf8.RuneCountInString(path)
}

func (s *session) Descendants(
	ctx context.Context,
	ancestorID int64,
	m transit.Match,
) ([]*transit.Page, error) {
	anc, err := s.Page(ctx, ancestorID)
	if err != nil {
		return nil, err
	}
	return s.pages(ctx, m,
		"WHERE substr(url_path, 1, ?) = ? AND id <> ? ORDER BY id",
		pathLen(anc.URLPath), anc.URLPath, anc.ID)
}

func (s *session) Pages(
	ctx context.Context,
	m transit.Match,
) ([]*transit.Page, error) {
	return s.pages(ctx, m, "ORDER BY id")
}

// slugTaken checks sibling slugs of a parent, ignoring the page selfID.
func (s *session) slugTaken(
	ctx context.Context,
	parentID int64,
	slug string,
	selfID int64,
) (bool, error) {
	var count int
	err := s.get(ctx, &count,
		"SELECT count(*) FROM pages WHERE parent_id = ? AND slug = ? AND id <> ?",
		parentID, slug, selfID)
	if err != nil {
		return false, QueryError("sibling slugs", err)
	}
	return count > 0, nil
}

func (s *session) CreateChild(
	ctx context.Context,
	parentID int64,
	p *transit.Page,
) error {
	parent, err := s.Page(ctx, parentID)
	if err != nil {
		return err
	}
	if p.Slug == "" {
		return fmt.Errorf("page %q has an empty slug", p.Title)
	}

	taken, err := s.slugTaken(ctx, parentID, p.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s%s/: %w", parent.URLPath, p.Slug,
			transit.ErrSlugTaken)
	}

	var pos int
	err = s.get(ctx, &pos,
		"SELECT COALESCE(MAX(position), 0) FROM pages WHERE parent_id = ?",
		parentID)
	if err != nil {
		return QueryError("page position", err)
	}

	data, err := p.MarshalPayload()
	if err != nil {
		return WriteError("page payload", err)
	}

	now := s.now()
	urlPath := parent.URLPath + p.Slug + "/"
	var id int64
	err = s.get(ctx, &id, `INSERT INTO pages
		(parent_id, kind, title, slug, live, url_path, position, data,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		parentID, p.Kind.String(), p.Title, p.Slug, p.Live, urlPath,
		pos+1, string(data), now, now)
	if err != nil {
		return WriteError("page", err)
	}

	p.ID = id
	p.ParentID = parentID
	p.URLPath = urlPath
	p.Position = pos + 1
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *session) Save(ctx context.Context, p *transit.Page) error {
	cur, err := s.Page(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Slug == "" {
		return fmt.Errorf("page %d has an empty slug", p.ID)
	}

	urlPath := cur.URLPath
	if p.Slug != cur.Slug && cur.ParentID != 0 {
		parent, err := s.Page(ctx, cur.ParentID)
		if err != nil {
			return err
		}
		taken, err := s.slugTaken(ctx, cur.ParentID, p.Slug, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%s%s/: %w", parent.URLPath, p.Slug,
				transit.ErrSlugTaken)
		}
		urlPath = parent.URLPath + p.Slug + "/"
	}

	data, err := p.MarshalPayload()
	if err != nil {
		return WriteError("page payload", err)
	}

	now := s.now()
	err = s.exec(ctx, `UPDATE pages
		SET title = ?, slug = ?, live = ?, url_path = ?, data = ?,
		    updated_at = ?
		WHERE id = ?`,
		p.Title, p.Slug, p.Live, urlPath, string(data), now, p.ID)
	if err != nil {
		return WriteError("page", err)
	}

	if urlPath != cur.URLPath {
		err = s.exec(ctx, `UPDATE pages
			SET url_path = CAST(? AS TEXT) || substr(url_path, ?)
			WHERE substr(url_path, 1, ?) = ? AND id <> ?`,
			urlPath, pathLen(cur.URLPath)+1, pathLen(cur.URLPath), cur.URLPath,
			p.ID)
		if err != nil {
			return WriteError("descendant paths", err)
		}
	}

	p.ParentID = cur.ParentID
	p.URLPath = urlPath
	p.Position = cur.Position
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = now
	return nil
}

type revision struct {
	ID      int64           `json:"id"`
	Kind    string          `json:"kind"`
	Title   string          `json:"title"`
	Slug    string          `json:"slug"`
	URLPath string          `json:"url_path"`
	Data    json.RawMessage `json:"data"`
}

func (s *session) Publish(ctx context.Context, p *transit.Page) error {
	p.Live = true
	if err := s.Save(ctx, p); err != nil {
		return err
	}

	data, err := p.MarshalPayload()
	if err != nil {
		return WriteError("page payload", err)
	}
	content, err := json.Marshal(revision{
		ID:      p.ID,
		Kind:    p.Kind.String(),
		Title:   p.Title,
		Slug:    p.Slug,
		URLPath: p.URLPath,
		Data:    data,
	})
	if err != nil {
		return WriteError("page revision", err)
	}

	err = s.exec(ctx, `INSERT INTO page_revisions (page_id, content, created_at)
		VALUES (?, ?, ?)`, p.ID, string(content), s.now())
	if err != nil {
		return WriteError("page revision", err)
	}
	return nil
}
