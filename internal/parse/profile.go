package parse

import (
	"regexp"
	"strconv"
	"strings"

	"toxicheck/internal/model"
)

// profileField maps one recognized profile label to its extraction pattern.
// Keeping the table data-driven keeps upstream format drift contained here.
type profileField struct {
	name    string
	pattern *regexp.Regexp
	numeric bool
}

// profileFields is the extraction table for profile metadata blobs. Labels
// like favourites_count appear in upstream blobs and bound the bio, but only
// the fields below are carried onto the assembled profile.
var profileFields = []profileField{
	{name: "profile_url", pattern: regexp.MustCompile(`\| profile_url:\s*([^\s|]+)`)},
	{name: "name", pattern: regexp.MustCompile(`\| name:\s*([^|]+)`)},
	{name: "created_at", pattern: regexp.MustCompile(`\| created_at:\s*([^|]+)`)},
	{name: "followers_count", pattern: regexp.MustCompile(`\| followers_count:\s*([^|]+)`), numeric: true},
	{name: "statuses_count", pattern: regexp.MustCompile(`\| statuses_count:\s*([^|]+)`), numeric: true},
	{name: "location", pattern: regexp.MustCompile(`\| location:\s*([^|]+)`)},
}

// bioPattern captures everything before the first recognized field label.
var bioPattern = regexp.MustCompile(`(?s)^(.*?)\| (?:profile_url:|name:|created_at:|followers_count:|favourites_count:|friends_count:|media_count:|statuses_count:|location:)`)

// profileEndPattern bounds the profile-metadata section of a combined crawl
// blob: everything through the statuses_count value, plus a trailing
// location segment when one immediately follows.
var (
	profileEndPattern  = regexp.MustCompile(`(?s)^.*?statuses_count:\s*\d+`)
	trailingLocPattern = regexp.MustCompile(`^[ \t]*\| location:[^|\n]*`)
)

// ProfileFields extracts profile metadata from a single labeled blob.
// Unmatched fields stay absent; numeric fields that fail to parse are
// omitted rather than defaulted, since an absent profile counter is not a
// confirmed zero. The result never carries posts.
func ProfileFields(blob string) model.Profile {
	var p model.Profile
	if m := bioPattern.FindStringSubmatch(blob); m != nil {
		p.Bio = strings.TrimSpace(m[1])
	}
	for _, f := range profileFields {
		m := f.pattern.FindStringSubmatch(blob)
		if m == nil {
			continue
		}
		v := strings.TrimSpace(m[1])
		if f.numeric {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				continue
			}
			switch f.name {
			case "followers_count":
				p.FollowersCount = &n
			case "statuses_count":
				p.StatusesCount = &n
			}
			continue
		}
		switch f.name {
		case "profile_url":
			p.ProfileURL = v
		case "name":
			p.Name = v
		case "created_at":
			p.CreatedAt = v
		case "location":
			p.Location = v
		}
	}
	return p
}

// SplitProfile divides one combined crawl blob into the profile-metadata
// section and the posts section. The metadata section runs through the
// statuses_count value; upstream usually emits location right after it, so a
// trailing location segment is kept with the metadata. When no profile
// marker is present the whole blob is treated as posts.
func SplitProfile(raw string) (meta, posts string) {
	loc := profileEndPattern.FindStringIndex(raw)
	if loc == nil {
		return "", strings.TrimSpace(raw)
	}
	end := loc[1]
	if m := trailingLocPattern.FindStringIndex(raw[end:]); m != nil {
		end += m[1]
	}
	return raw[:end], strings.TrimSpace(raw[end:])
}
