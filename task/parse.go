package task

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	internalstrings "github.com/amonks/focus/internal/strings"
)

// durationPattern matches "<integer><minute unit>". The trailing group keeps
// "5 minutes" from matching inside words like "5 mangoes".
var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(minutes|minute|mins|min|m|分)([^\p{L}]|$)`)

// Keyword sets are checked in order; the first set with a hit wins. Latin
// keywords must match a whole word, optionally followed by "s"; the others
// match anywhere in the text.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryWork, []string{
		"work", "report", "meeting", "mtg", "email", "mail", "slide", "presentation",
		"client", "project", "invoice", "review", "deploy",
		"仕事", "会議", "資料", "報告", "メール", "打ち合わせ",
	}},
	{CategoryStudy, []string{
		"study", "studying", "learn", "learning", "read", "reading", "book",
		"homework", "exam", "lecture", "course", "practice", "research",
		"勉強", "学習", "読書", "宿題", "試験", "復習",
	}},
	{CategoryHealth, []string{
		"gym", "run", "running", "jog", "jogging", "walk", "walking", "workout",
		"exercise", "yoga", "stretch", "stretching", "meditate", "meditation",
		"swim", "swimming", "sleep",
		"運動", "筋トレ", "散歩", "ジム", "ストレッチ", "瞑想",
	}},
}

// ParseOptions configures Parse.
type ParseOptions struct {
	// DefaultMinutes is used when the input names no duration. Values
	// outside 1..MaxDurationMinutes mean DefaultMinutes (25).
	DefaultMinutes int
}

// Parse turns free text into a Draft. It never fails; a blank title is
// left for the caller to reject.
func Parse(input string, opts ParseOptions) Draft {
	minutes := opts.DefaultMinutes
	if ValidateMinutes(minutes) != nil {
		minutes = DefaultMinutes
	}

	title := internalstrings.NormalizeWhitespace(input)
	if loc := durationPattern.FindStringSubmatchIndex(input); loc != nil {
		if value, err := strconv.Atoi(input[loc[2]:loc[3]]); err == nil && ValidateMinutes(value) == nil {
			minutes = value
		}
		// Cut through the unit only, leaving whatever followed it.
		title = internalstrings.RemoveSpan(input, loc[0], loc[5])
	}

	difficulty := DifficultyForMinutes(minutes)
	return Draft{
		Title:           title,
		DurationMinutes: minutes,
		Category:        Categorize(input),
		Difficulty:      difficulty,
		RewardPoints:    minutes * int(difficulty),
	}
}

// Categorize returns the first category whose keywords appear in text.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	words := map[string]bool{}
	for _, word := range strings.FieldsFunc(lower, isWordSeparator) {
		words[word] = true
	}
	for _, set := range categoryKeywords {
		for _, keyword := range set.keywords {
			if isLatinWord(keyword) {
				if words[keyword] || words[keyword+"s"] || words[keyword+"es"] {
					return set.category
				}
				continue
			}
			if strings.Contains(lower, keyword) {
				return set.category
			}
		}
	}
	return CategoryOther
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isLatinWord(keyword string) bool {
	for _, r := range keyword {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
