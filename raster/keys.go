package raster

import "strconv"

// Well-known tag dictionary keys. The georeference lives in one global
// sub-scope; each band owns one sub-scope keyed by its 1-based index.
const (
	scopeGeoref = "georef"
	scopeGCPs   = "gcps"

	keyTransform    = "transform" // 6 float64, in container byte order
	keyProjection   = "projection"
	keyGCPCount     = "count"
	keyGCPID        = "id"
	keyGCPInfo      = "info"
	keyGCPPixel     = "pixel"
	keyGCPLine      = "line"
	keyGCPX         = "x"
	keyGCPY         = "y"
	keyGCPZ         = "z"
	keyNoData       = "nodata"
	keyMinimum      = "min"
	keyMaximum      = "max"
	keyOffset       = "offset"
	keyScale        = "scale"
	keyUnit         = "unit"
	keyDescription  = "description"
	keyColorInterp  = "color_interp"
	scopeCategories = "categories"
	bandScopePrefix = "band/"
)

func bandScopeKey(index int) string {
	return bandScopePrefix + strconv.Itoa(index)
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}
