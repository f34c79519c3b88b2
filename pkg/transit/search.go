package transit

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SearchStations ranks records by a fuzzy, case-insensitive match of the
// query against their labels, station codes and ids. Records that do not
// match are dropped. An empty query returns recs as they are.
func SearchStations(recs []*StationRecord, query string) []*StationRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return recs
	}

	words := make([]string, len(recs))
	for i, v := range recs {
		words[i] = strings.Join([]string{
			v.StationLabel, v.SystemLabel, v.LineLabel,
			v.StationCodes, v.StationQID, v.LineQID,
		}, " ")
	}

	ranks := fuzzy.RankFindNormalizedFold(query, words)
	sort.Stable(ranks)

	res := make([]*StationRecord, 0, len(ranks))
	for _, rank := range ranks {
		res = append(res, recs[rank.OriginalIndex])
	}
	return res
}
