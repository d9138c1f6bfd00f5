package staff

import (
	"sort"

	"github.com/chantlab/neumatic/model"
)

// ClusterConfig holds configuration for polygon clustering.
type ClusterConfig struct {
	// Tolerance is the maximum vertical distance, in pixels, between a
	// polygon's center and the running mean of the current group for the
	// polygon to join the group.
	Tolerance float64
}

// DefaultClusterConfig returns a configuration with the default tolerance.
// The tolerance is scale-dependent; callers working with unusually high or
// low resolution scans should adjust it.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Tolerance: 100,
	}
}

// ClusterResult holds the grouped polygons and any skipped input.
type ClusterResult struct {
	// Groups are the polygon groups in top-to-bottom order. Each group is
	// one candidate staff.
	Groups [][]model.Polygon

	// Skipped counts empty polygons dropped from the input.
	Skipped int
}

// GroupCount returns the number of candidate staves found.
func (r *ClusterResult) GroupCount() int {
	return len(r.Groups)
}

// Clusterer groups staff polygons into candidate staves by vertical
// proximity.
type Clusterer struct {
	config ClusterConfig
}

// NewClusterer creates a clusterer with the default configuration.
func NewClusterer() *Clusterer {
	return &Clusterer{config: DefaultClusterConfig()}
}

// NewClustererWithConfig creates a clusterer with a custom configuration.
func NewClustererWithConfig(config ClusterConfig) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster groups polygons into candidate staves. Polygons are sorted by
// top-most y (ties broken by left-most x, so the result is independent of
// input order), then accumulated into a running group: a polygon joins the
// group while its vertical center stays within the tolerance of the running
// mean y of all points already in the group, and otherwise closes the group
// and starts a new one.
//
// Empty polygons are skipped and counted in the result. Empty input yields
// an empty result.
func (c *Clusterer) Cluster(polygons []model.Polygon) *ClusterResult {
	result := &ClusterResult{}

	sorted := make([]model.Polygon, 0, len(polygons))
	for _, poly := range polygons {
		if poly.Empty() {
			result.Skipped++
			continue
		}
		sorted = append(sorted, poly)
	}
	if len(sorted) == 0 {
		return result
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := sorted[i].MinY(), sorted[j].MinY()
		if yi != yj {
			return yi < yj
		}
		return sorted[i].MinX() < sorted[j].MinX()
	})

	var group []model.Polygon
	var groupSumY float64
	var groupPoints int

	for _, poly := range sorted {
		if len(group) == 0 {
			group, groupSumY, groupPoints = appendToGroup(group, groupSumY, groupPoints, poly)
			continue
		}

		groupMeanY := groupSumY / float64(groupPoints)
		if diff := poly.CenterY() - groupMeanY; diff < c.config.Tolerance && diff > -c.config.Tolerance {
			group, groupSumY, groupPoints = appendToGroup(group, groupSumY, groupPoints, poly)
		} else {
			result.Groups = append(result.Groups, group)
			group, groupSumY, groupPoints = appendToGroup(nil, 0, 0, poly)
		}
	}
	result.Groups = append(result.Groups, group)

	return result
}

// appendToGroup adds a polygon to a group, updating the running y sum used
// for the group's mean.
func appendToGroup(group []model.Polygon, sumY float64, points int, poly model.Polygon) ([]model.Polygon, float64, int) {
	for _, pt := range poly {
		sumY += float64(pt.Y)
	}
	return append(group, poly), sumY, points + len(poly)
}
