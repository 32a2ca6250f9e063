package taxonomy

// Project creates a Row for the lineage of id.
//
// The lineage is ordered from the root to id. Every element of the
// lineage is looked up in ranks; when a rank occurs more than once,
// the occurrence closer to the leaf wins. For each element of rankList
// the name of the node of that rank is taken from names. If the rank is
// not in the lineage, or the node has no name, Sentinel is used.
//
// An empty lineage produces a null row.
func Project(
	input string,
	id TaxID,
	lineage []TaxID,
	ranks map[TaxID]string,
	names map[TaxID]string,
	rankList []string,
) Row {
	res := Row{Input: input, TaxID: id}
	if len(lineage) == 0 {
		return res
	}

	byRank := make(map[string]TaxID, len(lineage))
	for _, v := range lineage {
		if rank, ok := ranks[v]; ok {
			byRank[rank] = v
		}
	}

	res.Names = make([]string, len(rankList))
	for i, rank := range rankList {
		res.Names[i] = Sentinel

		rankID, ok := byRank[rank]
		if !ok {
			continue
		}
		if name := names[rankID]; name != "" {
			res.Names[i] = name
		}
	}
	return res
}

// Compact removes null rows.
func Compact(rows []Row) []Row {
	res := make([]Row, 0, len(rows))
	for _, v := range rows {
		if v.IsNull() {
			continue
		}
		res = append(res, v)
	}
	return res
}
