// Package search finds the fingerprints two documents have in common.
package search

import (
	"github.com/gcbaptista/go-winnow/index"
	"github.com/gcbaptista/go-winnow/model"
)

// Collisions pairs every fingerprint of a with every fingerprint of b that
// has the same hash. The result is ordered as a nested loop over a then b
// would produce it, so a hash shared n times in a and m times in b yields
// n*m collisions.
func Collisions(a, b []model.Fingerprint) []model.Collision {
	if len(a) == 0 || len(b) == 0 {
		return []model.Collision{}
	}

	idx := index.Build(b)
	collisions := make([]model.Collision, 0)
	for _, fpA := range a {
		for _, posting := range idx.Lookup(fpA.Hash) {
			collisions = append(collisions, model.Collision{
				Source: model.RawHit{StartLine: fpA.StartLine, EndLine: fpA.EndLine},
				Target: model.RawHit{StartLine: posting.StartLine, EndLine: posting.EndLine},
			})
		}
	}
	return collisions
}

// Search returns the line spans of every colliding fingerprint on each side
// along with the collisions themselves. hitsA[i] and hitsB[i] come from
// collisions[i].
func Search(a, b []model.Fingerprint) (hitsA, hitsB []model.RawHit, collisions []model.Collision) {
	collisions = Collisions(a, b)
	hitsA = make([]model.RawHit, len(collisions))
	hitsB = make([]model.RawHit, len(collisions))
	for i, c := range collisions {
		hitsA[i] = c.Source
		hitsB[i] = c.Target
	}
	return hitsA, hitsB, collisions
}
