package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func members(n int) []Record {

	records := make([]Record, n)

	for i := range records {
		records[i] = Record{Latitude: 40.0, Longitude: float64(i) * 0.0001}
	}

	return records
}

func TestFilterClusters(t *testing.T) {

	clusters := []Cluster{
		{Label: 0, Members: members(5)},
		{Label: 1, Members: members(3)},
		{Label: 2, Members: members(4)},
		{Label: 3, Members: members(1)},
	}

	retained, discarded_clusters, discarded_points := FilterClusters(clusters, DefaultMinGroupSize)

	require.Len(t, retained, 2)

	// Exactly the threshold is discarded; one more is retained.
	assert.Len(t, retained[0].Members, 5)
	assert.Len(t, retained[1].Members, 4)

	// Survivors are renumbered 1..K in label order.
	assert.Equal(t, 1, retained[0].Index)
	assert.Equal(t, 2, retained[1].Index)

	assert.Equal(t, 2, discarded_clusters)
	assert.Equal(t, 4, discarded_points)
}

func TestFilterClustersNoneRetained(t *testing.T) {

	clusters := []Cluster{
		{Label: 0, Members: members(2)},
		{Label: 1, Members: members(3)},
	}

	retained, discarded_clusters, discarded_points := FilterClusters(clusters, DefaultMinGroupSize)

	assert.Len(t, retained, 0)
	assert.Equal(t, 2, discarded_clusters)
	assert.Equal(t, 5, discarded_points)
}

func TestFilterClustersEmpty(t *testing.T) {

	retained, discarded_clusters, discarded_points := FilterClusters(nil, DefaultMinGroupSize)

	assert.Len(t, retained, 0)
	assert.Equal(t, 0, discarded_clusters)
	assert.Equal(t, 0, discarded_points)
}

func nearby(base Record, n int) []Record {

	records := make([]Record, n)

	for i := range records {

		records[i] = Record{
			ID:        base.ID,
			Latitude:  base.Latitude + float64(i)*0.0001,
			Longitude: base.Longitude + float64(i)*0.0001,
		}
	}

	return records
}

func TestClusterAndFilterSingleGroup(t *testing.T) {

	// Five photos within tens of metres of each other survive as one group
	// holding all five.

	records := nearby(Record{ID: "a", Latitude: 48.8566, Longitude: 2.3522}, 5)

	clusters := ClusterPoints(records, 1.8)
	retained, discarded_clusters, discarded_points := FilterClusters(clusters, DefaultMinGroupSize)

	require.Len(t, retained, 1)
	assert.Equal(t, 1, retained[0].Index)
	assert.Len(t, retained[0].Members, 5)
	assert.Equal(t, 0, discarded_clusters)
	assert.Equal(t, 0, discarded_points)
}

func TestClusterAndFilterMixed(t *testing.T) {

	// Two dense sites far apart: one with 10 photos, one with only 3. The
	// small site is discarded whole and its members are counted.

	records := append(
		nearby(Record{ID: "big", Latitude: 48.8566, Longitude: 2.3522}, 10),
		nearby(Record{ID: "small", Latitude: 35.6586, Longitude: 139.7454}, 3)...,
	)

	clusters := ClusterPoints(records, 1.8)
	require.Len(t, clusters, 2)

	retained, discarded_clusters, discarded_points := FilterClusters(clusters, DefaultMinGroupSize)

	require.Len(t, retained, 1)
	assert.Len(t, retained[0].Members, 10)
	assert.Equal(t, 1, discarded_clusters)
	assert.Equal(t, 3, discarded_points)
}

func TestClusterAndFilterAllScattered(t *testing.T) {

	// Two photos 50-odd kilometres apart with a 1.8 km radius: two singleton
	// clusters, nothing retained.

	records := []Record{
		{ID: "a", Latitude: 48.8566, Longitude: 2.3522},
		{ID: "b", Latitude: 49.3, Longitude: 2.3522},
	}

	clusters := ClusterPoints(records, 1.8)
	retained, discarded_clusters, discarded_points := FilterClusters(clusters, DefaultMinGroupSize)

	assert.Len(t, retained, 0)
	assert.Equal(t, 2, discarded_clusters)
	assert.Equal(t, 2, discarded_points)
}
