package address

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoAddresses is returned when the input text contains nothing worth probing.
var ErrNoAddresses = errors.New("no valid addresses found")

const (
	defaultScheme = "http"
	// Never probe the operator's own top-level domain.
	excludedFragment = ".ua"
	trailingPunct    = ".,;:!?)]}'\""
	maxHostLength    = 253
	maxLabelLength   = 63
)

// The host part is matched as one run of label characters so that an IPv4
// prefix of a longer hostname is never split off as an address of its own.
var tokenPattern = regexp.MustCompile(`(?i)(?:https?://)?` +
	`[a-z0-9](?:[a-z0-9.-]*[a-z0-9])?` +
	`(?::\d+)?` +
	`(?:/[^\s"'<>]*)?`)

var closingPairs = map[byte]byte{')': '(', ']': '[', '}': '{'}

// Extract scans free-form text for URLs, hostnames and IPv4 literals and
// returns them normalized to scheme-qualified addresses, deduplicated in
// order of first appearance.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		seen   = make(map[string]struct{})
		result []string
	)

	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isHostByte(text[loc[0]-1]) {
			continue
		}

		token := trimTrailing(text[loc[0]:loc[1]])

		if strings.Contains(strings.ToLower(token), excludedFragment) {
			continue
		}

		addr, ok := normalize(token)
		if !ok {
			continue
		}

		if _, dup := seen[addr]; dup {
			continue
		}

		seen[addr] = struct{}{}
		result = append(result, addr)
	}

	return result
}

func normalize(token string) (string, bool) {
	scheme, rest := defaultScheme, token
	if idx := strings.Index(token, "://"); idx != -1 {
		scheme, rest = strings.ToLower(token[:idx]), token[idx+3:]
	}

	hostport, path := rest, ""
	if idx := strings.IndexByte(rest, '/'); idx != -1 {
		hostport, path = rest[:idx], rest[idx:]
	}

	hostport = strings.ToLower(hostport)

	host, port := hostport, ""
	if idx := strings.LastIndexByte(hostport, ':'); idx != -1 {
		host, port = hostport[:idx], hostport[idx+1:]
	}

	if host == "" || !isValidPort(port) {
		return "", false
	}

	if isDottedNumeric(host) {
		if ip := net.ParseIP(host); ip == nil || ip.To4() == nil {
			return "", false
		}
	} else if !isHostname(host) || !hasKnownSuffix(host) {
		return "", false
	}

	return scheme + "://" + hostport + path, true
}

// trimTrailing drops sentence punctuation glued to a token. A closing
// bracket stays when it balances an opening one inside the token.
func trimTrailing(token string) string {
	for token != "" {
		last := token[len(token)-1]
		if !strings.ContainsRune(trailingPunct, rune(last)) {
			break
		}

		if open, ok := closingPairs[last]; ok &&
			strings.Count(token, string(open)) >= strings.Count(token, string(last)) {
			break
		}

		token = token[:len(token)-1]
	}

	return token
}

func isHostByte(b byte) bool {
	return b == '_' || b == '.' || b == '-' ||
		('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isHostname(host string) bool {
	if len(host) > maxHostLength {
		return false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if label == "" || len(label) > maxLabelLength ||
			label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}

	tld := labels[len(labels)-1]

	return len(tld) >= 2 && tld[0] >= 'a' && tld[0] <= 'z'
}

func isValidPort(port string) bool {
	if port == "" {
		return true
	}

	n, err := strconv.Atoi(port)

	return err == nil && n > 0 && n <= 65535
}

func isDottedNumeric(host string) bool {
	return strings.Trim(host, "0123456789.") == ""
}

// hasKnownSuffix rejects file names and other dotted words whose last label
// is not a registrable suffix.
func hasKnownSuffix(host string) bool {
	suffix, icann := publicsuffix.PublicSuffix(host)
	if icann {
		return true
	}

	return strings.Contains(suffix, ".")
}
