package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/gnames/transitdb/pkg/geodata"
	"github.com/gnames/transitdb/pkg/schema"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// stationSelect lists station columns. PostgreSQL keeps coordinates as
// numeric, they are read back as text.
func (s *session) stationSelect() string {
	cols := schema.Columns(schema.Station{})
	for i, c := range cols {
		if s.driver == db.DriverPostgres &&
			(c == "latitude" || c == "longitude") {
			cols[i] = fmt.Sprintf("CAST(%s AS TEXT) AS %s", c, c)
		}
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM stations"
}

func nullCoord(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{
		String: d.Decimal.StringFixed(geodata.CoordinatePlaces),
		Valid:  true,
	}
}

func coord(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func toRow(key transit.StationKey, f transit.StationFields) (schema.Station, error) {
	raw, err := transit.MarshalProperties(f.RawProperties)
	if err != nil {
		return schema.Station{}, err
	}
	res := schema.Station{
		UUID:          gnuuid.New(key.String()).String(),
		StationLabel:  f.StationLabel,
		StationQID:    key.StationQID,
		SystemLabel:   f.SystemLabel,
		SystemQID:     f.SystemQID,
		LineLabel:     f.LineLabel,
		LineQID:       key.LineQID,
		StationCodes:  f.StationCodes,
		Latitude:      nullCoord(f.Latitude),
		Longitude:     nullCoord(f.Longitude),
		RawProperties: string(raw),
	}
	if f.Opening != nil {
		res.Opening = sql.NullTime{Time: *f.Opening, Valid: true}
	}
	return res, nil
}

func toRecord(row schema.Station) (*transit.StationRecord, error) {
	lat, err := coord(row.Latitude)
	if err != nil {
		return nil, err
	}
	lon, err := coord(row.Longitude)
	if err != nil {
		return nil, err
	}
	raw, err := transit.UnmarshalProperties([]byte(row.RawProperties))
	if err != nil {
		return nil, err
	}

	res := &transit.StationRecord{
		ID:   row.ID,
		UUID: row.UUID,
		StationKey: transit.StationKey{
			StationQID: row.StationQID,
			LineQID:    row.LineQID,
		},
		StationFields: transit.StationFields{
			StationLabel:  row.StationLabel,
			SystemLabel:   row.SystemLabel,
			SystemQID:     row.SystemQID,
			LineLabel:     row.LineLabel,
			StationCodes:  row.StationCodes,
			Latitude:      lat,
			Longitude:     lon,
			RawProperties: raw,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Opening.Valid {
		y, m, d := row.Opening.Time.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		res.Opening = &date
	}
	return res, nil
}

func (s *session) stations(
	ctx context.Context,
	where string,
	args ...any,
) ([]*transit.StationRecord, error) {
	var rows []schema.Station
	if err := s.sel(ctx, &rows, s.stationSelect()+" "+where, args...); err != nil {
		return nil, QueryError("stations", err)
	}
	res := make([]*transit.StationRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toRecord(row)
		if err != nil {
			return nil, QueryError("stations", err)
		}
		res = append(res, rec)
	}
	return res, nil
}

func (s *session) Upsert(
	ctx context.Context,
	key transit.StationKey,
	f transit.StationFields,
) (*transit.StationRecord, bool, error) {
	if !key.Valid() {
		return nil, false, transit.ErrNoCompositeKey
	}
	if err := transit.ValidateStation(key, f); err != nil {
		return nil, false, ValidationError(key.String(), err)
	}

	row, err := toRow(key, f)
	if err != nil {
		return nil, false, WriteError("station", err)
	}

	found, err := s.stations(ctx,
		"WHERE station_qid = ? AND line_qid = ?", key.StationQID, key.LineQID)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	if len(found) > 0 {
		cur := found[0]
		if cur.StationFields.Equal(f) {
			return cur, false, nil
		}
		err = s.exec(ctx, `UPDATE stations
			SET station_label = ?, system_label = ?, system_qid = ?,
			    line_label = ?, opening = ?, station_codes = ?,
			    latitude = ?, longitude = ?, raw_properties = ?, updated_at = ?
			WHERE id = ?`,
			row.StationLabel, row.SystemLabel, row.SystemQID, row.LineLabel,
			row.Opening, row.StationCodes, row.Latitude, row.Longitude,
			row.RawProperties, now, cur.ID)
		if err != nil {
			return nil, false, WriteError("station", err)
		}
		rec, err := s.Station(ctx, cur.ID)
		return rec, false, err
	}

	var id int64
	err = s.get(ctx, &id, `INSERT INTO stations
		(uuid, station_label, station_qid, system_label, system_qid,
		 line_label, line_qid, opening, station_codes, latitude, longitude,
		 raw_properties, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		row.UUID, row.StationLabel, row.StationQID, row.SystemLabel,
		row.SystemQID, row.LineLabel, row.LineQID, row.Opening,
		row.StationCodes, row.Latitude, row.Longitude, row.RawProperties,
		now, now)
	if err != nil {
		return nil, false, WriteError("station", err)
	}
	rec, err := s.Station(ctx, id)
	return rec, true, err
}

func (s *session) Station(
	ctx context.Context,
	id int64,
) (*transit.StationRecord, error) {
	res, err := s.stations(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("station %d: %w", id, transit.ErrNotFound)
	}
	return res[0], nil
}

func (s *session) Stations(
	ctx context.Context,
	f transit.StationFilter,
) ([]*transit.StationRecord, error) {
	var conds []string
	var args []any
	if f.SystemLabel != "" {
		conds = append(conds, "system_label = ?")
		args = append(args, f.SystemLabel)
	}
	if f.LineLabel != "" {
		conds = append(conds, "line_label = ?")
		args = append(args, f.LineLabel)
	}
	if f.LineQID != "" {
		conds = append(conds, "line_qid = ?")
		args = append(args, f.LineQID)
	}
	if len(f.IDs) > 0 {
		q, inArgs, err := sqlx.In("id IN (?)", f.IDs)
		if err != nil {
			return nil, QueryError("stations", err)
		}
		conds = append(conds, q)
		args = append(args, inArgs...)
	}

	var where string
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	res, err := s.stations(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	transit.SortStations(res, transit.DefaultStationSort)
	return res, nil
}

func (s *session) SystemLabels(ctx context.Context) ([]string, error) {
	var res []string
	err := s.sel(ctx, &res, `SELECT DISTINCT system_label FROM stations
		WHERE system_label <> ''`)
	if err != nil {
		return nil, QueryError("system labels", err)
	}
	slices.Sort(res)
	return res, nil
}

func (s *session) SystemQID(
	ctx context.Context,
	systemLabel string,
) (string, error) {
	var res string
	// canonical record order, then id
	err := s.get(ctx, &res, `SELECT system_qid FROM stations
		WHERE system_label = ? AND system_qid <> ''
		ORDER BY station_label, line_label, id LIMIT 1`, systemLabel)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", QueryError("system id", err)
	}
	return res, nil
}

func (s *session) Lines(
	ctx context.Context,
	systemLabel string,
) ([]transit.LineRef, error) {
	var rows []struct {
		LineLabel string `db:"line_label"`
		LineQID   string `db:"line_qid"`
	}
	err := s.sel(ctx, &rows, `SELECT DISTINCT line_label, line_qid
		FROM stations WHERE system_label = ? AND line_label <> ''`,
		systemLabel)
	if err != nil {
		return nil, QueryError("lines", err)
	}

	byLabel := make(map[string]string)
	for _, v := range rows {
		qid, ok := byLabel[v.LineLabel]
		if !ok || (qid == "" && v.LineQID != "") ||
			(v.LineQID != "" && v.LineQID < qid) {
			byLabel[v.LineLabel] = v.LineQID
		}
	}

	res := make([]transit.LineRef, 0, len(byLabel))
	for label, qid := range byLabel {
		res = append(res, transit.LineRef{LineLabel: label, LineQID: qid})
	}
	slices.SortFunc(res, func(a, b transit.LineRef) int {
		return strings.Compare(a.LineLabel, b.LineLabel)
	})
	return res, nil
}

func (s *session) CountStations(ctx context.Context) (int, error) {
	var res int
	if err := s.get(ctx, &res, "SELECT count(*) FROM stations"); err != nil {
		return 0, QueryError("station count", err)
	}
	return res, nil
}
