package importer

import (
	"strings"
	"unicode"

	"github.com/salem/coop-finder/internal/catalog"
)

// classifyRules map keyword hits to category names. Order matters: the
// niche professional fields come first so that, say, "health informatics"
// lands on Healthcare before the broad IT keywords get a look. Keywords are
// matched as lowercase substrings, except short tokens ("ai", "it", "hr"),
// which must appear as whole words or "trainee" would read as "AI". Arabic
// terms cover listings written in Arabic.
type classifyRule struct {
	category string
	keywords []string
}

var classifyRules = []classifyRule{
	{"Shariah & Islamic Studies", []string{"شريعة", "فقه", "islamic", "sharia"}},
	{"Law", []string{"قانون", "law", "legal"}},
	{"Agriculture & Environmental", []string{"زراعة", "agric", "environment", "sustainab"}},
	{"Pharmacy", []string{"صيدلة", "pharmacy"}},
	{"Healthcare", []string{"health", "medical", "medicine", "nursing"}},
	{"Cybersecurity", []string{"cyber", "siem", "soc", "security operations", "infosec"}},
	{"Data & AI", []string{"data", "analytics", "machine learning", "ai", "ml"}},
	{"Software Engineering", []string{"software", "backend", "frontend", "programming", "developer"}},
	{"Information Systems", []string{"information systems", "mis"}},
	{"Computer Science & IT", []string{"it", "computer science", "network", "cloud"}},
	{"Accounting", []string{"accounting", "محاس"}},
	{"Finance", []string{"finance", "مالية"}},
	{"Marketing", []string{"marketing", "تسويق"}},
	{"Business & Management", []string{"business", "management", "hr", "إدارة", "موارد"}},
	{"Architecture & Planning", []string{"architecture", "urban", "planning", "تصميم معماري"}},
	{"Design (UI/UX & Graphic)", []string{"design", "ui", "ux", "graphic", "motion"}},
	{"Engineering", []string{"engineering", "mechanical", "electrical", "civil", "industrial"}},
}

// Classifier assigns catalog categories to free text.
type Classifier struct {
	cat *catalog.Catalog
}

func NewClassifier(cat *catalog.Catalog) *Classifier {
	return &Classifier{cat: cat}
}

// Classify returns the first rule whose keywords appear in the text, or the
// catalog's fallback category when nothing matches.
func (c *Classifier) Classify(text string) string {
	t := strings.ToLower(text)
	words := wordSet(t)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if matchKeyword(t, words, kw) {
				if c.cat.HasCategory(rule.category) {
					return rule.category
				}
				break
			}
		}
	}
	return c.cat.FallbackCategory
}

func matchKeyword(t string, words map[string]struct{}, kw string) bool {
	if len(kw) <= 3 && isASCIIWord(kw) {
		_, ok := words[kw]
		return ok
	}
	return strings.Contains(t, kw)
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return s != ""
}

func wordSet(t string) map[string]struct{} {
	fields := strings.FieldsFunc(t, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Coerce resolves a record's category: an explicit name that exists in the
// catalog wins, otherwise the majors and description text are classified.
func (c *Classifier) Coerce(explicit, majorsText, descText string) string {
	name := strings.TrimSpace(explicit)
	if name != "" {
		for _, n := range c.cat.Categories {
			if n == name {
				return n
			}
		}
	}
	return c.Classify(majorsText + "\n" + descText)
}
