package search

import (
	"sort"

	"github.com/abiiranathan/pdfview/geom"
)

// Tolerance for a box to join the current line cluster, as a fraction of the
// median character height.
const lineTolFraction = 0.7

// lineBands clusters the character boxes of one occurrence into one padded
// band per text line. Boxes are ordered by descending top then ascending
// left; a box joins the current cluster when its top lies within the
// tolerance of a running cluster-top estimate. The estimate is smoothed
// 80/20 toward each joining box so long spans do not drift out of their own
// cluster.
func lineBands(boxes []geom.Rect, med float64) []geom.Rect {
	sorted := make([]geom.Rect, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top > sorted[j].Top
		}
		return sorted[i].Left < sorted[j].Left
	})

	tol := med * lineTolFraction
	if tol < 1e-3 {
		tol = 1e-3
	}

	var bands []geom.Rect
	cluster := []geom.Rect{sorted[0]}
	clusterTop := sorted[0].Top

	flush := func() {
		bands = append(bands, unionPad(cluster, med))
	}

	for _, box := range sorted[1:] {
		diff := box.Top - clusterTop
		if diff < 0 {
			diff = -diff
		}

		if diff <= tol {
			cluster = append(cluster, box)
			clusterTop = clusterTop*0.8 + box.Top*0.2
		} else {
			flush()
			cluster = []geom.Rect{box}
			clusterTop = box.Top
		}
	}
	flush()

	return bands
}
