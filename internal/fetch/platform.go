// Package fetch - platform.go infers the ATS platform behind an endpoint URL.
package fetch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformSmartRecruiters is the SmartRecruiters ATS platform
	PlatformSmartRecruiters Platform = "smartrecruiters"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)

// DetectPlatform identifies the job board platform from an endpoint URL or
// endpoint template. Template placeholders such as {company} are tolerated.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(placeholderPattern.ReplaceAllString(urlStr, "x"))
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "myworkdayjobs.com"), strings.Contains(host, "workday.com"):
		return PlatformWorkday
	case strings.Contains(host, "ashbyhq.com"):
		return PlatformAshby
	case strings.Contains(host, "smartrecruiters.com"):
		return PlatformSmartRecruiters
	}

	return PlatformUnknown
}

// Strategy returns the fetch strategy a platform's public API needs.
func (p Platform) Strategy() types.FetchStrategy {
	switch p {
	case PlatformAshby:
		return types.StrategyGraphQL
	case PlatformWorkday:
		return types.StrategyWorkday
	default:
		return types.StrategyREST
	}
}
