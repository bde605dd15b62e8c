package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hellodex/otcboard/model"
)

// ParseError means the request line or its query could not be understood.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse request %q: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errEmptyRequest = errors.New("empty request")
	errNoTarget     = errors.New("request line has no target")
	errNotUTF8      = errors.New("request is not valid UTF-8")
)

// drainWait is how long readRequest keeps reading once the first line has arrived.
var drainWait = 50 * time.Millisecond

// readRequest reads until the request head ends with a blank line, the peer stops sending,
// or limit bytes arrived. Once the first line is in, only what arrives within drainWait is
// read, so a client that never sends the blank line is still answered. Leaving input unread
// would turn the close into a reset.
func readRequest(conn net.Conn, limit int) ([]byte, error) {
	buf := make([]byte, limit)
	n := 0
	draining := false
	for n < limit {
		m, err := conn.Read(buf[n:])
		n += m
		if headComplete(buf[:n]) {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) || (draining && errors.Is(err, os.ErrDeadlineExceeded)) {
				break
			}
			return buf[:n], err
		}
		if !draining && bytes.IndexByte(buf[:n], '\n') >= 0 {
			draining = true
			if err := conn.SetReadDeadline(time.Now().Add(drainWait)); err != nil {
				return buf[:n], err
			}
		}
	}
	if draining {
		_ = conn.SetReadDeadline(time.Time{})
	}
	return buf[:n], nil
}

func headComplete(b []byte) bool {
	return bytes.Contains(b, []byte("\r\n\r\n")) || bytes.Contains(b, []byte("\n\n"))
}

// firstLine returns the first line of the raw request, trimmed.
func firstLine(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errNotUTF8
	}
	text := string(raw)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyRequest
	}
	return text, nil
}

// ParseRequestLine takes the second whitespace-separated field of line as the request target
// and returns its query parameters. Parameters with only blank values are dropped.
func ParseRequestLine(line string) (model.Params, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, &ParseError{Line: line, Err: errNoTarget}
	}

	target, err := url.Parse(fields[1])
	if err != nil {
		return nil, &ParseError{Line: line, Err: err}
	}

	values, err := url.ParseQuery(target.RawQuery)
	if err != nil {
		return nil, &ParseError{Line: line, Err: err}
	}

	params := model.Params{}
	for key, list := range values {
		kept := make([]string, 0, len(list))
		for _, v := range list {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			params[key] = kept
		}
	}
	return params, nil
}
