package chord

import (
	"sort"

	"github.com/jsphweid/harmonline/model"
)

// knownRootBoost lifts the chord's own root above every unboosted score.
const knownRootBoost = 1000

// RootLikelihoodsAndNames names c on each candidate root and groups the
// labels by certainty, highest first. A nil candidates slice uses the
// namer's default candidates; a nil key spells roots in C major.
func (n *Namer) RootLikelihoodsAndNames(candidates []int, c *model.Chord, key *model.Key) ([]model.Bucket, error) {
	if err := c.Modulus().CheckHeptatonic(); err != nil {
		return nil, err
	}
	if key == nil {
		key = model.DefaultKey()
	}
	if candidates == nil {
		candidates = n.candidates(c)
	}
	knownRoot, hasRoot := c.Root()

	byCertainty := make(map[int][]string)
	var order []int
	for _, r := range candidates {
		nm := nameForRoot(c, r)
		certainty := nm.Certainty
		if hasRoot && nm.Root == knownRoot {
			certainty += knownRootBoost
		}
		label, err := nm.Label(key)
		if err != nil {
			return nil, err
		}
		if _, ok := byCertainty[certainty]; !ok {
			order = append(order, certainty)
		}
		byCertainty[certainty] = append(byCertainty[certainty], label)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	buckets := make([]model.Bucket, 0, len(order))
	for _, certainty := range order {
		buckets = append(buckets, model.Bucket{Certainty: certainty, Names: byCertainty[certainty]})
	}
	return buckets, nil
}

func RootLikelihoodsAndNames(candidates []int, c *model.Chord, key *model.Key) ([]model.Bucket, error) {
	return defaultNamer.RootLikelihoodsAndNames(candidates, c, key)
}
