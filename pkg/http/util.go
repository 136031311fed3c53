package http

import (
	xutil "DemandCast/pkg/util"
)

// ParseInt parses s as a base-10 int. Returns (v, true) on success.
func ParseInt(s string) (int, bool) { return xutil.ParseInt(s) }

// ParseFloat parses s as a finite float. Returns (v, true) on success.
func ParseFloat(s string) (float64, bool) { return xutil.ParseFloat(s) }
