// Package quality flags duplicate, outlier, and physically impossible
// coordinates across a point store.
package quality

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Config holds the quality-analysis parameters.
type Config struct {
	// Precision is the decimal precision used for duplicate comparison.
	// 6 decimals is roughly 0.1 m at the equator.
	Precision int
	// Sigma is the outlier threshold in standard deviations per axis.
	Sigma float64
}

// DefaultConfig returns the standard precision and sigma.
func DefaultConfig() Config {
	return Config{Precision: 6, Sigma: 3.0}
}

// Validate rejects unusable parameters before any work happens.
func (c Config) Validate() error {
	if c.Precision < 0 {
		return eris.Wrapf(model.ErrConfiguration, "quality: negative precision %d", c.Precision)
	}
	if c.Sigma < 0 {
		return eris.Wrapf(model.ErrConfiguration, "quality: negative sigma %g", c.Sigma)
	}
	return nil
}

// Impossible reports whether the coordinates cannot be a real location:
// non-finite values, out-of-range latitude or longitude, or the (0, 0)
// null-island sentinel. NaN must be caught here: it passes every range
// comparison and would poison the outlier statistics for the whole store.
func Impossible(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return true
	}
	return math.Abs(lat) > 90 || math.Abs(lon) > 180 || (lat == 0 && lon == 0)
}

// duplicateKey rounds both coordinates to the configured precision. Two
// points sharing a key are duplicates within tolerance.
func duplicateKey(lon, lat float64, precision int) string {
	return roundCoord(lon, precision) + "," + roundCoord(lat, precision)
}

// roundCoord formats v at the given decimal precision, collapsing a
// rounded negative zero onto "0..." so coordinates straddling zero land
// in the same bucket.
func roundCoord(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

// Analyze computes the three flag sets independently, unions them per
// point, and commits the flags atomically. Outlier statistics exclude
// impossible-coordinate points so a bad sentinel cannot skew the mean.
// Duplicate detection is a single bucketing pass over rounded keys, not
// a pairwise scan.
func Analyze(st *store.Store, cfg Config) (*model.QualityReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "quality"))

	flags := make(map[string]model.FlagSet, st.Size())
	report := &model.QualityReport{Total: st.Size()}

	// Impossible coordinates, and the duplicate buckets, in one pass.
	buckets := make(map[string][]string)
	var lons, lats []float64
	var validIDs []string

	for p := range st.All() {
		flags[p.ID] = nil

		if Impossible(p.Lon, p.Lat) {
			flags[p.ID] = flags[p.ID].Add(model.FlagImpossible)
			report.ImpossibleCount++
		} else {
			lons = append(lons, p.Lon)
			lats = append(lats, p.Lat)
			validIDs = append(validIDs, p.ID)
		}

		key := duplicateKey(p.Lon, p.Lat, cfg.Precision)
		buckets[key] = append(buckets[key], p.ID)
	}

	// Duplicate groups, ordered by key for a deterministic report.
	keys := make([]string, 0, len(buckets))
	for k, members := range buckets {
		if len(members) >= 2 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		members := buckets[k]
		report.DuplicateGroups = append(report.DuplicateGroups, model.DuplicateGroup{Key: k, Members: members})
		for _, id := range members {
			flags[id] = flags[id].Add(model.FlagDuplicate)
			report.DuplicateCount++
		}
	}

	// Outliers over the non-impossible population, per axis.
	if len(lons) >= 2 {
		meanLon, stdLon := stat.MeanStdDev(lons, nil)
		meanLat, stdLat := stat.MeanStdDev(lats, nil)
		report.MeanLon, report.StddevLon = meanLon, stdLon
		report.MeanLat, report.StddevLat = meanLat, stdLat

		for i, id := range validIDs {
			if deviates(lons[i], meanLon, stdLon, cfg.Sigma) || deviates(lats[i], meanLat, stdLat, cfg.Sigma) {
				flags[id] = flags[id].Add(model.FlagOutlier)
				report.OutlierCount++
			}
		}
	}

	if err := st.SetFlags(flags); err != nil {
		return nil, err
	}

	log.Info("quality analysis complete",
		zap.Int("impossible", report.ImpossibleCount),
		zap.Int("duplicates", report.DuplicateCount),
		zap.Int("outliers", report.OutlierCount),
	)
	return report, nil
}

// deviates reports whether v lies more than sigma standard deviations
// from the mean. A zero or undefined spread flags nothing.
func deviates(v, mean, std, sigma float64) bool {
	if std == 0 || math.IsNaN(std) {
		return false
	}
	return math.Abs(v-mean) > sigma*std
}
