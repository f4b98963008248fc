package datasets

import "math"
import "math/rand"
import "sort"

import "github.com/neurlang/newsclassifier/hash"

// SplittedDataset holds the two disjoint partitions of a split.
type SplittedDataset struct {
	Train      []Record
	Validation []Record
}

// SplitDataset partitions records into a training and a held-out part. The split is
// stratified: each label group is shuffled on its own seeded stream and contributes
// round(fraction*n) records to the held-out part, keeping at least one record on each
// side when the group has two or more. The same seed and input always give the same split.
func SplitDataset(records []Record, fraction float64, seed int64) (o SplittedDataset, err error) {
	if !(fraction > 0 && fraction < 1) {
		return o, ErrFraction
	}
	if len(records) == 0 {
		return o, ErrEmpty
	}

	var groups = make(map[int][]Record)
	for _, r := range records {
		groups[r.Label] = append(groups[r.Label], r)
	}
	var labels = make([]int, 0, len(groups))
	for l := range groups {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	for _, label := range labels {
		group := groups[label]
		rng := rand.New(rand.NewSource(hash.Seed(seed, uint32(label))))
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		held := int(math.Round(fraction * float64(len(group))))
		if len(group) >= 2 {
			if held < 1 {
				held = 1
			}
			if held > len(group)-1 {
				held = len(group) - 1
			}
		}
		o.Validation = append(o.Validation, group[:held]...)
		o.Train = append(o.Train, group[held:]...)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(o.Train), func(i, j int) { o.Train[i], o.Train[j] = o.Train[j], o.Train[i] })
	rng.Shuffle(len(o.Validation), func(i, j int) { o.Validation[i], o.Validation[j] = o.Validation[j], o.Validation[i] })
	return o, nil
}
