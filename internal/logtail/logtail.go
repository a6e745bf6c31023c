package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one structured log line as written by the JSON logger.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
}

// zap's ISO8601 time encoder layout.
const isoLayout = "2006-01-02T15:04:05.000Z0700"

// Parse decodes a JSON log line. ok is false for lines that are not JSON
// objects, e.g. output of the console encoder.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}

	entry := Entry{Fields: map[string]string{}}
	for k, v := range raw {
		switch k {
		case "ts":
			entry.Time = parseTime(v)
		case "level":
			entry.Level, _ = v.(string)
		case "msg":
			entry.Message, _ = v.(string)
		case "caller", "stacktrace":
		default:
			entry.Fields[k] = stringify(v)
		}
	}
	return entry, true
}

// Format renders a log line for display:
//
//	2025-10-08 21:01:05 WARN – cache write failed
//	    - driver: fs
//
// Lines that are not JSON are returned unchanged.
func Format(line string) string {
	entry, ok := Parse(line)
	if !ok {
		return line
	}

	level := strings.ToUpper(strings.TrimSpace(entry.Level))
	if level == "" {
		level = "INFO"
	}
	parts := []string{}
	if !entry.Time.IsZero() {
		parts = append(parts, entry.Time.In(time.Local).Format("2006-01-02 15:04:05"))
	}
	parts = append(parts, level)
	header := strings.Join(parts, " ")
	if msg := strings.TrimSpace(entry.Message); msg != "" {
		header += " – " + msg
	}
	if len(entry.Fields) == 0 {
		return header
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(header)
	for _, k := range keys {
		value := strings.TrimSpace(entry.Fields[k])
		if value == "" {
			continue
		}
		builder.WriteString("\n    - ")
		builder.WriteString(k)
		builder.WriteString(": ")
		builder.WriteString(value)
	}
	return builder.String()
}

// FormatLines formats every line, splitting multi-line results.
func FormatLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Split(Format(line), "\n")...)
	}
	return out
}

func parseTime(v any) time.Time {
	switch ts := v.(type) {
	case string:
		for _, layout := range []string{isoLayout, time.RFC3339Nano} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t
			}
		}
	case float64:
		sec := int64(ts)
		return time.Unix(sec, int64((ts-float64(sec))*1e9))
	}
	return time.Time{}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
