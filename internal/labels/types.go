// Package labels parses YOLO segmentation label files: one record per line of
// the form "class_id x1 y1 x2 y2 ... xn yn", with every coordinate normalized
// to [0, 1]. Malformed lines are classified and skipped rather than aborting
// the file, so a single bad annotation never poisons a whole label set.
package labels

import "fmt"

// ErrorKind classifies why a line or file was rejected.
type ErrorKind int

const (
	// MalformedNumber means a token could not be parsed as the expected
	// numeric type (integer class id or float coordinate).
	MalformedNumber ErrorKind = iota
	// MissingClassId means the first token parses as a float but not an
	// integer: the line starts directly with coordinates.
	MissingClassId
	// OddCoordinateCount means the coordinate tokens do not pair up into
	// (x, y) points.
	OddCoordinateCount
	// TooFewPoints means fewer than 3 points were parsed; a closed polygon
	// needs at least a triangle.
	TooFewPoints
	// CoordinateOutOfRange means a coordinate fell outside [0.0, 1.0].
	CoordinateOutOfRange
	// FileAccess means the file itself was missing or unreadable. This is
	// the only file-level kind; all others are line-level.
	FileAccess
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedNumber:
		return "malformed_number"
	case MissingClassId:
		return "missing_class_id"
	case OddCoordinateCount:
		return "odd_coordinate_count"
	case TooFewPoints:
		return "too_few_points"
	case CoordinateOutOfRange:
		return "coordinate_out_of_range"
	case FileAccess:
		return "file_access"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Point is one polygon vertex in normalized image coordinates.
type Point struct {
	X float64
	Y float64
}

// LabelRecord is one successfully parsed annotation line. It is never
// constructed from a line that failed validation; there are no partial
// polygons.
type LabelRecord struct {
	Line    int
	ClassID int
	Polygon []Point
}

// ParseError describes one rejected line (or, for FileAccess, a whole file).
type ParseError struct {
	Line    int
	Kind    ErrorKind
	Message string
}

func (e ParseError) Error() string {
	if e.Kind == FileAccess {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

// ParseResult holds everything extracted from a single file. Records and
// Errors are both in line order.
type ParseResult struct {
	Path    string
	Records []LabelRecord
	Errors  []ParseError
}

// Fatal reports whether the file could not be read at all.
func (r ParseResult) Fatal() bool {
	return len(r.Errors) == 1 && r.Errors[0].Kind == FileAccess
}
