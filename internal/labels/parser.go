package labels

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Parser reads label files and reports every rejected line through its
// logger: line-level problems at warn, file-level problems at error. The
// zero value is not usable; construct with New.
type Parser struct {
	log zerolog.Logger
}

// New returns a Parser reporting through logger. Pass zerolog.Nop() to
// parse silently.
func New(logger zerolog.Logger) *Parser {
	return &Parser{log: logger}
}

// ParseFile reads one label file line by line. Blank lines are ignored.
// Every malformed line is recorded as exactly one ParseError and skipped;
// the scan always continues to the end of the file. A missing or unreadable
// file yields an empty result with a single FileAccess error. ParseFile
// never returns a Go error: the failure taxonomy is entirely inside the
// ParseResult.
func (p *Parser) ParseFile(path string) ParseResult {
	res := ParseResult{Path: path}

	f, err := os.Open(path)
	if err != nil {
		msg := fmt.Sprintf("cannot open %s: %v", path, err)
		if os.IsNotExist(err) {
			msg = fmt.Sprintf("file not found: %s", path)
		}
		res.Errors = append(res.Errors, ParseError{Kind: FileAccess, Message: msg})
		p.log.Error().Str("path", path).Msg(msg)
		return res
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, perr := p.parseLine(lineNo, line)
		if perr != nil {
			res.Errors = append(res.Errors, *perr)
			p.log.Warn().Str("path", path).Int("line", perr.Line).
				Str("kind", perr.Kind.String()).Msg(perr.Message)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	// A read fault mid-file (I/O error, token too long) voids the file,
	// same contract as a file that never opened.
	if err := scanner.Err(); err != nil {
		msg := fmt.Sprintf("read failed at line %d: %v", lineNo, err)
		res.Records = nil
		res.Errors = []ParseError{{Kind: FileAccess, Message: msg}}
		p.log.Error().Str("path", path).Msg(msg)
	}

	return res
}

// parseLine validates one non-blank line. Validation stops at the first
// failure so each bad line contributes exactly one error.
func (p *Parser) parseLine(lineNo int, line string) (LabelRecord, *ParseError) {
	fail := func(kind ErrorKind, format string, args ...interface{}) (LabelRecord, *ParseError) {
		return LabelRecord{}, &ParseError{
			Line:    lineNo,
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		}
	}

	tokens := strings.Fields(line)

	// 1. Class ID must be a non-negative integer.
	classID, err := strconv.Atoi(tokens[0])
	if err != nil {
		// A float here means the line starts straight at the coordinates.
		if _, ferr := strconv.ParseFloat(tokens[0], 64); ferr == nil {
			return fail(MissingClassId, "first token %q is a coordinate, class id missing", tokens[0])
		}
		return fail(MalformedNumber, "class id %q is not an integer", tokens[0])
	}
	if classID < 0 {
		return fail(MalformedNumber, "class id %d is negative", classID)
	}

	// 2. Coordinates must pair up into (x, y) points.
	coords := tokens[1:]
	if len(coords)%2 != 0 {
		return fail(OddCoordinateCount, "%d coordinate values do not pair into points", len(coords))
	}

	// 3. Every coordinate parses and lies in [0, 1]. The whole line is
	// discarded on the first bad value; partial polygons are meaningless.
	polygon := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, err := strconv.ParseFloat(coords[i], 64)
		if err != nil {
			return fail(MalformedNumber, "coordinate %d (%q) is not a number", i+1, coords[i])
		}
		y, err := strconv.ParseFloat(coords[i+1], 64)
		if err != nil {
			return fail(MalformedNumber, "coordinate %d (%q) is not a number", i+2, coords[i+1])
		}
		if x < 0.0 || x > 1.0 {
			return fail(CoordinateOutOfRange, "coordinate %d (%g) outside [0.0, 1.0]", i+1, x)
		}
		if y < 0.0 || y > 1.0 {
			return fail(CoordinateOutOfRange, "coordinate %d (%g) outside [0.0, 1.0]", i+2, y)
		}
		polygon = append(polygon, Point{X: x, Y: y})
	}

	// 4. A closed polygon needs at least a triangle.
	if len(polygon) < 3 {
		return fail(TooFewPoints, "polygon has %d points, need at least 3", len(polygon))
	}

	return LabelRecord{Line: lineNo, ClassID: classID, Polygon: polygon}, nil
}

// ParseDirectory parses every file in dir whose name ends with ext,
// in directory-listing order (os.ReadDir sorts by filename, so the output
// is deterministic). Subdirectories are not descended into. A FileAccess
// failure on one file never stops the remaining files from being parsed.
// An unreadable directory yields a single result carrying a FileAccess
// error for the directory itself.
func (p *Parser) ParseDirectory(dir, ext string) []ParseResult {
	entries, err := os.ReadDir(dir)
	if err != nil {
		msg := fmt.Sprintf("cannot list directory %s: %v", dir, err)
		p.log.Error().Str("dir", dir).Msg(msg)
		return []ParseResult{{
			Path:   dir,
			Errors: []ParseError{{Kind: FileAccess, Message: msg}},
		}}
	}

	var results []ParseResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		results = append(results, p.ParseFile(filepath.Join(dir, entry.Name())))
	}
	return results
}
