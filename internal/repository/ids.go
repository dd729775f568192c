package repository

// dedupeIDs returns the distinct ids in input order. Bulk existence and
// ownership checks compare counts against the distinct set so that
// duplicate ids in a request cannot skew the result.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
