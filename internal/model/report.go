package model

// DuplicateGroup is a set of point ids whose coordinates match within the
// configured rounding tolerance. Ids are in store insertion order.
type DuplicateGroup struct {
	Key     string   `json:"key"`
	Members []string `json:"members"`
}

// QualityReport summarizes one quality-analysis pass. Counts cover the
// whole store; flag annotations live on the points themselves.
type QualityReport struct {
	Total           int              `json:"total"`
	ImpossibleCount int              `json:"impossible_count"`
	DuplicateCount  int              `json:"duplicate_count"`
	OutlierCount    int              `json:"outlier_count"`
	DuplicateGroups []DuplicateGroup `json:"duplicate_groups,omitempty"`

	// Per-axis statistics over non-impossible points, kept for the summary.
	MeanLon   float64 `json:"mean_lon"`
	MeanLat   float64 `json:"mean_lat"`
	StddevLon float64 `json:"stddev_lon"`
	StddevLat float64 `json:"stddev_lat"`
}

// Extent is a planar bounding box in decimal degrees.
type Extent struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Cluster is one density-connected group produced by a cluster pass.
type Cluster struct {
	ID          int      `json:"id"`
	Members     []string `json:"members"`
	CentroidLon float64  `json:"centroid_lon"`
	CentroidLat float64  `json:"centroid_lat"`
	Extent      Extent   `json:"extent"`
}

// ClusterReport summarizes one clustering pass. Clusters are ordered by
// id, which follows seed visitation order over the store.
type ClusterReport struct {
	Eps       float64   `json:"eps"`
	MinPoints int       `json:"min_points"`
	Clusters  []Cluster `json:"clusters"`
	Noise     int       `json:"noise"`
}

// Summary is the structured report emitted at the end of a run.
type Summary struct {
	TotalCount    int            `json:"totalCount" yaml:"totalCount"`
	RegionCounts  map[string]int `json:"regionCounts" yaml:"regionCounts"`
	QualityCounts map[string]int `json:"qualityCounts" yaml:"qualityCounts"`
	ClusterCount  int            `json:"clusterCount" yaml:"clusterCount"`
	ClusterSizes  []int          `json:"clusterSizes" yaml:"clusterSizes"`
}
