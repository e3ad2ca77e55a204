package geo

// DefaultMinGroupSize is the size threshold for retaining a cluster. A
// cluster survives the filter only when it holds strictly more members than
// this, so groups of 4 and up are retained.
const DefaultMinGroupSize = 3

// RetainedGroup is a cluster that survived the minimum-size filter and is
// eligible for document output.
type RetainedGroup struct {
	// Index is 1-based and assigned in cluster (label) order among the
	// retained groups only.
	Index int
	// Members in input-sequence order, unchanged from the cluster.
	Members []Record
}

// FilterClusters walks clusters in label order and retains those with
// strictly more than min_size members, numbering survivors 1..K. It returns
// the retained groups along with the number of discarded clusters and the
// total number of points inside them; both figures are reported separately
// by callers. Zero retained groups for a non-empty input is a valid outcome.
func FilterClusters(clusters []Cluster, min_size int) ([]RetainedGroup, int, int) {

	retained := make([]RetainedGroup, 0, len(clusters))

	discarded_clusters := 0
	discarded_points := 0

	for _, c := range clusters {

		if len(c.Members) <= min_size {
			discarded_clusters += 1
			discarded_points += len(c.Members)
			continue
		}

		retained = append(retained, RetainedGroup{
			Index:   len(retained) + 1,
			Members: c.Members,
		})
	}

	return retained, discarded_clusters, discarded_points
}
