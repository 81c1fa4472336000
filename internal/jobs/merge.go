package jobs

// Merge concatenates job lists dropping duplicates by key.
// Lists are walked in order and the first occurrence of a key wins,
// so the output keeps first-seen order.
func Merge(lists [][]*Job) []*Job {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	out := make([]*Job, 0, total)
	for _, l := range lists {
		for _, j := range l {
			if j == nil {
				continue
			}
			key := j.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, j)
		}
	}
	return out
}
