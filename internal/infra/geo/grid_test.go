package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestGridIndex_Within(t *testing.T) {
	index := NewGridIndex(5.0)
	index.Insert("F001", orb.Point{78.0322, 30.3165})
	index.Insert("F002", orb.Point{78.0422, 30.3265}) // ~1.5 km from F001
	index.Insert("F003", orb.Point{77.2090, 28.6139}) // Delhi, far away

	assert.Equal(t, 3, index.Size())

	matches := index.Within(orb.Point{78.0322, 30.3165}, 10)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"F001", "F002"}, ids)
}

func TestGridIndex_Within_DistancesAreExact(t *testing.T) {
	index := NewGridIndex(5.0)
	index.Insert("F002", orb.Point{78.0422, 30.3265})

	matches := index.Within(orb.Point{78.0322, 30.3165}, 50)

	assert.Len(t, matches, 1)
	assert.InDelta(t, 1.47, matches[0].DistanceKm, 0.1)
}

func TestGridIndex_Within_Empty(t *testing.T) {
	index := NewGridIndex(5.0)

	assert.Nil(t, index.Within(orb.Point{78.0322, 30.3165}, 50))
}

func TestGridIndex_Within_CrossesCellBoundary(t *testing.T) {
	// Two points in different grid cells but within radius of each other.
	index := NewGridIndex(1.0)
	index.Insert("near", orb.Point{78.04, 30.33})

	matches := index.Within(orb.Point{78.02, 30.31}, 5)

	assert.Len(t, matches, 1)
	assert.Equal(t, "near", matches[0].ID)
}
