package seed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
)

// idNamespace scopes point IDs; the same file and line always map to the same ID.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kailas-cloud/neuralsearch/points"))

// maxLineBytes bounds a single JSON-lines record.
const maxLineBytes = 4 << 20

// Record is one JSON-lines entry ready to embed.
type Record struct {
	ID      string
	Text    string
	Payload map[string]any
}

// PointID derives a deterministic UUIDv5 from the source name and 1-based line number.
func PointID(source string, line int) string {
	return uuid.NewSHA1(idNamespace, []byte(source+":"+strconv.Itoa(line))).String()
}

// recordReader yields records from a JSON-lines stream. Blank lines are
// ignored; malformed lines and lines without the text field are reported
// as skipped.
type recordReader struct {
	source    string
	textField string
	scanner   *bufio.Scanner
	line      int
}

func newRecordReader(source string, r io.Reader, textField string) *recordReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	return &recordReader{source: source, textField: textField, scanner: sc}
}

// next returns the next record. ok=false with a nil error means a skipped
// line, described by reason. io.EOF ends the stream.
func (rr *recordReader) next() (rec Record, ok bool, reason string, err error) {
	for rr.scanner.Scan() {
		rr.line++
		raw := bytes.TrimSpace(rr.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Record{}, false, fmt.Sprintf("line %d: invalid json: %v", rr.line, err), nil
		}

		text, _ := payload[rr.textField].(string)
		if text == "" {
			return Record{}, false, fmt.Sprintf("line %d: missing string field %q", rr.line, rr.textField), nil
		}

		return Record{
			ID:      PointID(rr.source, rr.line),
			Text:    text,
			Payload: payload,
		}, true, "", nil
	}
	if err := rr.scanner.Err(); err != nil {
		return Record{}, false, "", fmt.Errorf("read %s line %d: %w", rr.source, rr.line+1, err)
	}
	return Record{}, false, "", io.EOF
}
