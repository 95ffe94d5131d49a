package api

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"rttrainer/pkg/logging"
)

// Regex to capture key=value or key="value with spaces"
var logRegex = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

const maxLogParam = 20

// handleLatestLog returns the last captured log line, or the last n lines
// with ?n=.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	if n <= 1 {
		writeJSON(w, http.StatusOK, map[string]string{
			"log": formatLogLine(logging.GlobalLogCapture.GetLastLine()),
		})
		return
	}

	raw := logging.GlobalLogCapture.Tail(n)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = formatLogLine(l)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"logs": lines})
}

// formatLogLine turns a text handler line into "HH:MM:SS msg (k=v, ...)".
// Params are sorted and long values dropped.
func formatLogLine(raw string) string {
	matches := logRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var msg, timeStr string
	var params []string

	for _, m := range matches {
		key := m[1]
		val := m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch key {
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				timeStr = t.Format("15:04:05")
			}
			continue
		case "level", "source":
			continue
		case "msg":
			msg = val
			continue
		}

		if len(val) > maxLogParam {
			continue
		}
		params = append(params, fmt.Sprintf("%s=%s", key, val))
	}

	if msg == "" {
		return raw
	}

	sort.Strings(params)

	output := msg
	if timeStr != "" {
		output = fmt.Sprintf("%s %s", timeStr, msg)
	}
	if len(params) > 0 {
		return fmt.Sprintf("%s (%s)", output, strings.Join(params, ", "))
	}
	return output
}
