// Package model defines the point record, annotation, and report types
// shared by the analysis stages.
package model

import "sort"

// Region labels produced by the built-in longitude rule sets.
const (
	RegionWestern      = "Western"
	RegionCentral      = "Central"
	RegionEastern      = "Eastern"
	RegionUnclassified = "Unclassified"
)

// Flag marks a data-quality finding on a point.
type Flag string

// Quality flags.
const (
	FlagDuplicate  Flag = "duplicate"
	FlagOutlier    Flag = "outlier"
	FlagImpossible Flag = "impossible_coordinate"
)

// FlagSet is the set of quality flags attached to a point.
type FlagSet map[Flag]bool

// Has reports whether f is set.
func (s FlagSet) Has(f Flag) bool { return s[f] }

// Add returns a copy of s with f set. A nil receiver is treated as empty.
func (s FlagSet) Add(f Flag) FlagSet {
	out := make(FlagSet, len(s)+1)
	for k := range s {
		out[k] = true
	}
	out[f] = true
	return out
}

// Sorted returns the flags in lexical order for deterministic output.
func (s FlagSet) Sorted() []Flag {
	out := make([]Flag, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Point is a single geotagged site-investigation record. Lon and Lat are
// signed decimal degrees. Region, Flags, and ClusterID are annotations
// written by the classify, quality, and cluster stages respectively; each
// stage owns exactly one field.
type Point struct {
	ID         string         `json:"id"`
	Lon        float64        `json:"longitude"`
	Lat        float64        `json:"latitude"`
	Attributes map[string]any `json:"attributes,omitempty"`

	Region    *string `json:"region,omitempty"`
	Flags     FlagSet `json:"quality_flags,omitempty"`
	ClusterID *int    `json:"cluster_id,omitempty"`
}

// ValidCoords reports whether the point's coordinates lie inside the
// WGS84 range (lon in [-180, 180], lat in [-90, 90]).
func (p Point) ValidCoords() bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}
