// Package updater checks a published version file for newer releases.
package updater

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTimeout bounds a single version request.
	DefaultTimeout = 5 * time.Second
	// DefaultTTL is how long a check result is reused.
	DefaultTTL = time.Hour

	maxVersionFile = 4 << 10
)

// UpdateStatus is the result of an update check.
type UpdateStatus struct {
	Current   string `json:"current"`
	Latest    string `json:"latest"`
	Available bool   `json:"available"`
	URL       string `json:"url,omitempty"`
	CheckedAt string `json:"checked_at"`
}

// Updater manages update checks with caching.
type Updater struct {
	mu         sync.Mutex
	cached     *UpdateStatus
	ttl        time.Duration
	versionURL string
	releaseURL string
	client     *http.Client
}

// New creates an Updater that reads versionURL and points users at
// releaseURL when an update exists.
func New(versionURL, releaseURL string) *Updater {
	return &Updater{
		ttl:        DefaultTTL,
		versionURL: versionURL,
		releaseURL: releaseURL,
		client:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Check compares the published version with current. Results are cached
// for the TTL.
func (u *Updater) Check(ctx context.Context, current string) (*UpdateStatus, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.cached != nil {
		checkedAt, err := time.Parse(time.RFC3339, u.cached.CheckedAt)
		if err == nil && time.Since(checkedAt) < u.ttl {
			result := *u.cached
			result.Current = current
			result.Available = IsNewer(result.Latest, current)
			result.URL = ""
			if result.Available {
				result.URL = u.releaseURL
			}
			return &result, nil
		}
	}

	latest, err := u.fetchVersion(ctx)
	if err != nil {
		return nil, err
	}
	status := &UpdateStatus{
		Current:   current,
		Latest:    latest,
		Available: IsNewer(latest, current),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if status.Available {
		status.URL = u.releaseURL
	}
	u.cached = status
	return status, nil
}

// InvalidateCache clears the cached update check.
func (u *Updater) InvalidateCache() {
	u.mu.Lock()
	u.cached = nil
	u.mu.Unlock()
}

func (u *Updater) fetchVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.versionURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "skinstudio-updater")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("version request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("version request returned HTTP %d", resp.StatusCode)
	}

	sc := bufio.NewScanner(io.LimitReader(resp.Body, maxVersionFile))
	for sc.Scan() {
		if line := cleanVersion(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading version file: %w", err)
	}
	return "", fmt.Errorf("version file is empty")
}

// cleanVersion trims whitespace and a leading "Version:" label.
func cleanVersion(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len("version:") && strings.EqualFold(s[:len("version:")], "version:") {
		s = strings.TrimSpace(s[len("version:"):])
	}
	return s
}

// Suffix priorities; lower is more stable.
const (
	priorityStable  = 0
	priorityRC      = 1
	priorityBeta    = 2
	priorityAlpha   = 3
	priorityUnknown = 2
	priorityInvalid = 999
)

// Version is a parsed major.minor.patch[.suffix] version.
type Version struct {
	Major, Minor, Patch int
	Suffix              string
	// Priority ranks the suffix: stable 0, rc 1, beta 2, alpha 3; unknown
	// suffixes rank as beta.
	Priority int
}

// ParseVersion parses versions such as "0.3.6.Beta", "v1.0.0" or
// "Version: 1.2.0.rc". Unparseable input yields 0.0.0 with the lowest
// stability.
func ParseVersion(s string) Version {
	s = strings.ToLower(cleanVersion(s))
	s = strings.TrimPrefix(s, "v")

	parts := strings.SplitN(s, ".", 4)
	if len(parts) < 3 {
		return Version{Priority: priorityInvalid}
	}
	var nums [3]int
	for i := 0; i < 3; i++ {
		digits := parts[i]
		if i == 2 {
			// "6-beta" style patch numbers keep their leading digits.
			end := 0
			for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
				end++
			}
			if end < len(digits) && len(parts) == 3 {
				parts = append(parts, strings.TrimLeft(digits[end:], "-."))
			}
			digits = digits[:end]
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Version{Priority: priorityInvalid}
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
	if len(parts) == 4 {
		v.Suffix = strings.TrimSpace(parts[3])
	}
	switch v.Suffix {
	case "", "stable":
		v.Priority = priorityStable
	case "rc":
		v.Priority = priorityRC
	case "beta":
		v.Priority = priorityBeta
	case "alpha":
		v.Priority = priorityAlpha
	default:
		v.Priority = priorityUnknown
	}
	return v
}

// IsNewer reports whether remote is newer than current: a greater numeric
// version, or the same numbers with a more stable suffix.
func IsNewer(remote, current string) bool {
	r, c := ParseVersion(remote), ParseVersion(current)
	if r.Major != c.Major {
		return r.Major > c.Major
	}
	if r.Minor != c.Minor {
		return r.Minor > c.Minor
	}
	if r.Patch != c.Patch {
		return r.Patch > c.Patch
	}
	return r.Priority < c.Priority
}
