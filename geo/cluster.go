package geo

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Cluster is a density-connected group of records. Members are connected
// through a chain of pairwise distances each within the clustering radius;
// the cluster's overall diameter is NOT bounded by that radius.
type Cluster struct {
	// Label is assigned in first-point-encountered order, starting at 0.
	Label int
	// Members in input-sequence order.
	Members []Record
}

type clusterItem struct {
	rect  rtreego.Rect
	index int
}

func (item clusterItem) Bounds() rtreego.Rect {
	return item.rect
}

// ClusterPoints groups records with a DBSCAN-equivalent density clustering:
// neighbourhood radius max_distance_km of great-circle distance and a minimum
// sample count of 1, so every record lands in exactly one cluster and there
// is no noise label. Two records are directly connected if their great-circle
// distance is within max_distance_km; clusters are the transitive closure of
// direct connections. Cluster order follows the first point encountered in
// the input sequence, which keeps downstream numbering stable across runs.
func ClusterPoints(records []Record, max_distance_km float64) []Cluster {

	if len(records) == 0 {
		return nil
	}

	// Candidate lookups go through an R-tree over (lat, lon) degrees. The
	// search box over-covers the radius (longitude degrees shrink with
	// latitude) and the exact haversine test below discards false positives.

	tree := rtreego.NewTree(2, 25, 50)

	for i, r := range records {
		rect := rtreego.Point{r.Latitude, r.Longitude}.ToRect(searchPadding(r, max_distance_km))
		tree.Insert(clusterItem{rect: rect, index: i})
	}

	neighbours := func(idx int) []int {

		r := records[idx]
		rect := rtreego.Point{r.Latitude, r.Longitude}.ToRect(searchPadding(r, max_distance_km))

		candidates := tree.SearchIntersect(rect)
		matches := make([]int, 0, len(candidates))

		for _, obj := range candidates {

			item := obj.(clusterItem)

			if DistanceKm(r, records[item.index]) <= max_distance_km {
				matches = append(matches, item.index)
			}
		}

		return matches
	}

	visited := make([]bool, len(records))
	clusters := make([]Cluster, 0)

	for i := range records {

		if visited[i] {
			continue
		}

		visited[i] = true
		member_idx := []int{i}

		for j := 0; j < len(member_idx); j++ {

			for _, n := range neighbours(member_idx[j]) {

				if !visited[n] {
					visited[n] = true
					member_idx = append(member_idx, n)
				}
			}
		}

		// Restore input-sequence order within the cluster.
		sort.Ints(member_idx)

		members := make([]Record, len(member_idx))

		for j, idx := range member_idx {
			members[j] = records[idx]
		}

		clusters = append(clusters, Cluster{
			Label:   len(clusters),
			Members: members,
		})
	}

	return clusters
}

// searchPadding returns a degree padding for the R-tree search box that is
// guaranteed to cover max_distance_km at the record's latitude.
func searchPadding(r Record, max_distance_km float64) float64 {

	pad_lat := max_distance_km / EarthRadiusKm * 180 / math.Pi

	cos_lat := math.Cos(radians(r.Latitude))

	if cos_lat < 0.01 {
		cos_lat = 0.01
	}

	pad_lon := pad_lat / cos_lat

	if pad_lon > 180 {
		pad_lon = 180
	}

	return pad_lon
}
