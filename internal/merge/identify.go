package merge

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// IDGenerator mints match identifiers.
type IDGenerator func() uuid.UUID

// Identify assigns a match identifier to every merged range of both documents.
//
// Ranges are nodes of an arena: source ranges occupy indices [0, len(rangesA))
// and target ranges follow. Every collision links the source range containing
// its source hit to the target range containing its target hit, and each
// connected component receives one identifier, minted in order of the
// component's first collision. Both ranges of any collision therefore share
// an identifier regardless of the order collisions are listed in. Ranges no
// collision touches get a fresh identifier of their own.
//
// The returned matches follow the order of rangesA and rangesB.
func Identify(collisions []model.Collision, rangesA, rangesB []model.MergedRange, newID IDGenerator) (matchesA, matchesB []model.LineMatch, err error) {
	if err := checkSorted("ranges_a", rangesA); err != nil {
		return nil, nil, err
	}
	if err := checkSorted("ranges_b", rangesB); err != nil {
		return nil, nil, err
	}
	if newID == nil {
		newID = uuid.New
	}

	offset := len(rangesA)
	components := newUnionFind(len(rangesA) + len(rangesB))
	roots := make([]int, 0, len(collisions))

	for i, c := range collisions {
		ia := containing(rangesA, c.Source)
		if ia < 0 {
			return nil, nil, uncovered(i, "source", c.Source)
		}
		ib := containing(rangesB, c.Target)
		if ib < 0 {
			return nil, nil, uncovered(i, "target", c.Target)
		}
		components.union(ia, offset+ib)
		roots = append(roots, ia)
	}

	ids := make(map[int]model.MatchIdentifier)
	for _, node := range roots {
		root := components.find(node)
		if _, ok := ids[root]; !ok {
			ids[root] = newID()
		}
	}

	idFor := func(node int) model.MatchIdentifier {
		root := components.find(node)
		if id, ok := ids[root]; ok {
			return id
		}
		id := newID()
		ids[root] = id
		return id
	}

	matchesA = make([]model.LineMatch, len(rangesA))
	for i, r := range rangesA {
		matchesA[i] = model.LineMatch{MatchID: idFor(i), StartLine: r.StartLine, EndLine: r.EndLine}
	}
	matchesB = make([]model.LineMatch, len(rangesB))
	for i, r := range rangesB {
		matchesB[i] = model.LineMatch{MatchID: idFor(offset + i), StartLine: r.StartLine, EndLine: r.EndLine}
	}
	return matchesA, matchesB, nil
}

func uncovered(i int, side string, hit model.RawHit) error {
	return errors.NewValidationError(
		fmt.Sprintf("collisions[%d].%s", i, side),
		fmt.Sprintf("lines %d-%d are not inside any merged range", hit.StartLine, hit.EndLine),
	)
}

type unionFind struct {
	parent []int
	rank   []uint8
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]uint8, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
