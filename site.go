package jobtext

import (
	"net/url"
	"regexp"
	"strings"
)

// SiteKind identifies the family of job site a posting URL belongs to.
type SiteKind string

const (
	SiteGeneric            SiteKind = "generic"
	SiteDirectGreenhouse   SiteKind = "greenhouse"
	SiteEmbeddedGreenhouse SiteKind = "greenhouse-embedded"
	SiteWellfound          SiteKind = "wellfound"
	SiteRemoteRocketship   SiteKind = "remoterocketship"
	SiteLinkedIn           SiteKind = "linkedin"
)

// SiteKinds lists every known site kind.
var SiteKinds = []SiteKind{
	SiteDirectGreenhouse,
	SiteEmbeddedGreenhouse,
	SiteWellfound,
	SiteRemoteRocketship,
	SiteLinkedIn,
	SiteGeneric,
}

// SiteIdentity is the classification of one posting URL. It is computed once
// per extraction request and never modified.
type SiteIdentity struct {
	Kind SiteKind

	// BoardToken identifies the employer's board on Greenhouse.
	// Empty for an embedded posting whose board could not be resolved.
	BoardToken string

	// JobID is the numeric Greenhouse job identifier.
	JobID string
}

// IsGreenhouse reports whether the identity points at a Greenhouse posting.
func (s SiteIdentity) IsGreenhouse() bool {
	return s.Kind == SiteDirectGreenhouse || s.Kind == SiteEmbeddedGreenhouse
}

// Resolved reports whether a Greenhouse identity carries everything the
// board API needs.
func (s SiteIdentity) Resolved() bool {
	return s.IsGreenhouse() && s.BoardToken != "" && s.JobID != ""
}

func (s SiteIdentity) String() string {
	if !s.IsGreenhouse() {
		return string(s.Kind)
	}
	token := s.BoardToken
	if token == "" {
		token = "?"
	}
	return string(s.Kind) + "(" + token + "/" + s.JobID + ")"
}

// EmbeddedPolicy decides what happens when an embedded Greenhouse posting's
// board token cannot be found in any sibling frame.
type EmbeddedPolicy string

const (
	// EmbeddedFail reports a not-found error for the request.
	EmbeddedFail EmbeddedPolicy = "fail"

	// EmbeddedFallback scrapes the page with the generic plan instead.
	EmbeddedFallback EmbeddedPolicy = "fallback"
)

var (
	// /jobs/{token}/{id} on any host.
	jobsTokenIDPath = regexp.MustCompile(`^/jobs/([A-Za-z0-9_-]+)/(\d+)/?$`)

	// /{token}/jobs/{id} and /v1/boards/{token}/jobs/{id}; only trusted on
	// Greenhouse hosts because the shape is common elsewhere.
	tokenJobsIDPath = regexp.MustCompile(`^/(?:v1/boards/)?([A-Za-z0-9_-]+)/jobs/(\d+)/?$`)

	jobIDValue = regexp.MustCompile(`^\d+$`)

	boardTokenInFrame = regexp.MustCompile(`greenhouse\.io.*[?&]for=([^&#]+)`)
)

// knownHosts maps host suffixes to the site kind they identify.
var knownHosts = []struct {
	host string
	kind SiteKind
}{
	{"wellfound.com", SiteWellfound},
	{"angel.co", SiteWellfound},
	{"remoterocketship.com", SiteRemoteRocketship},
	{"linkedin.com", SiteLinkedIn},
}

// Classify maps a posting URL to its site identity. siblingFrameURLs are the
// URLs of the other documents loaded in the same page; they are only consulted
// to resolve the board token of an embedded Greenhouse posting.
//
// Classify is pure. Malformed URLs classify as SiteGeneric.
func Classify(rawURL string, siblingFrameURLs ...string) SiteIdentity {
	u, ok := parseURL(rawURL)
	if !ok {
		return SiteIdentity{Kind: SiteGeneric}
	}
	host := strings.ToLower(u.Hostname())
	known := knownSite(host)

	if known == "" {
		if m := jobsTokenIDPath.FindStringSubmatch(u.Path); m != nil {
			return SiteIdentity{Kind: SiteDirectGreenhouse, BoardToken: m[1], JobID: m[2]}
		}
	}
	if hostMatches(host, "greenhouse.io") {
		if m := tokenJobsIDPath.FindStringSubmatch(u.Path); m != nil {
			return SiteIdentity{Kind: SiteDirectGreenhouse, BoardToken: m[1], JobID: m[2]}
		}
	}

	if jobID := u.Query().Get("gh_jid"); jobIDValue.MatchString(jobID) {
		return SiteIdentity{
			Kind:       SiteEmbeddedGreenhouse,
			BoardToken: BoardTokenFromFrames(siblingFrameURLs),
			JobID:      jobID,
		}
	}

	if known != "" {
		return SiteIdentity{Kind: known}
	}
	return SiteIdentity{Kind: SiteGeneric}
}

// BoardTokenFromFrames returns the board token carried by the first
// Greenhouse frame URL in frameURLs, or "" when none carries one.
func BoardTokenFromFrames(frameURLs []string) string {
	for _, f := range frameURLs {
		m := boardTokenInFrame.FindStringSubmatch(f)
		if m == nil {
			continue
		}
		token, err := url.QueryUnescape(m[1])
		if err != nil || token == "" {
			continue
		}
		return token
	}
	return ""
}

func parseURL(rawURL string) (*url.URL, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, false
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

func knownSite(host string) SiteKind {
	for _, k := range knownHosts {
		if hostMatches(host, k.host) {
			return k.kind
		}
	}
	return ""
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
