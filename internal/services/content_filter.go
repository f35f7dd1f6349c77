package services

import (
	"regexp"
	"strings"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

const (
	ReasonLanguage = "inappropriate_language"
	ReasonSpam     = "spam_detected"
	ReasonCaps     = "excessive_caps"
)

// ContentFilter screens free text written by users before it is stored.
// It is safe for concurrent use once constructed.
type ContentFilter struct {
	banned   []*regexp.Regexp
	repeated *regexp.Regexp
	caps     *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		banned: make([]*regexp.Regexp, 0, len(BannedWords)),
		caps:   regexp.MustCompile(`[A-Z]{5,}`),
	}
	for _, word := range BannedWords {
		f.banned = append(f.banned, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}

	// RE2 has no backreferences, so runs of one character are spelled out.
	runs := make([]string, 0, 29)
	for ch := 'a'; ch <= 'z'; ch++ {
		runs = append(runs, string(ch)+"{4,}")
	}
	runs = append(runs, `!{4,}`, `\?{4,}`, `\.{4,}`)
	f.repeated = regexp.MustCompile(`(?i)(` + strings.Join(runs, "|") + `)`)
	return f
}

// Check returns false and a reason code when text should be rejected.
func (f *ContentFilter) Check(text string) (bool, string) {
	if text == "" {
		return true, ""
	}
	for _, re := range f.banned {
		if re.MatchString(text) {
			return false, ReasonLanguage
		}
	}
	if f.repeated.MatchString(text) {
		return false, ReasonSpam
	}
	if len(f.caps.FindAllString(text, -1)) > 2 {
		return false, ReasonCaps
	}
	return true, ""
}

func RejectionMessage(reason string) string {
	switch reason {
	case ReasonLanguage:
		return "contains inappropriate language"
	case ReasonSpam:
		return "appears to be spam"
	case ReasonCaps:
		return "uses excessive capital letters"
	}
	return "does not meet our content guidelines"
}

type field struct {
	name string
	text string
}

// screen checks fields in order and wraps the first rejection in
// ErrInappropriateContent.
func (f *ContentFilter) screen(fields ...field) error {
	if f == nil {
		return nil
	}
	for _, fl := range fields {
		if ok, reason := f.Check(fl.text); !ok {
			return &contentError{field: fl.name, reason: reason}
		}
	}
	return nil
}

type contentError struct {
	field  string
	reason string
}

func (e *contentError) Error() string {
	return e.field + " " + RejectionMessage(e.reason)
}

func (e *contentError) Unwrap() error { return ErrInappropriateContent }
