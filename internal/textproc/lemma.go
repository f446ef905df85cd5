package textproc

import (
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/banshee-data/disaster-response/internal/monitoring"
)

// irregularNouns maps plural forms the suffix rules get wrong.
var irregularNouns = map[string]string{
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"feet":      "foot",
	"teeth":     "tooth",
	"geese":     "goose",
	"mice":      "mouse",
	"lice":      "louse",
	"oxen":      "ox",
	"wives":     "wife",
	"lives":     "life",
	"knives":    "knife",
	"leaves":    "leaf",
	"shelves":   "shelf",
	"thieves":   "thief",
	"halves":    "half",
	"crises":    "crisis",
	"analyses":  "analysis",
	"diagnoses": "diagnosis",
	"news":      "news",
	"series":    "series",
	"species":   "species",
	"clothes":   "clothes",
	"means":     "means",
}

// invariantSuffixes end words that are already singular.
var invariantSuffixes = []string{"ss", "us", "is"}

// nounRules are the plural detachments tried in order; a candidate only
// counts when the dictionary knows it.
var nounRules = []struct{ suffix, repl string }{
	{"s", ""},
	{"ses", "s"},
	{"xes", "x"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
}

// wordDict is the part of golem the lemmatizer needs.
type wordDict interface {
	InDict(word string) bool
	Lemmas(word string) []string
}

var (
	dictOnce sync.Once
	dict     wordDict
)

// englishDict loads the English dictionary on first use. A nil result means
// it could not be loaded and only the irregular table applies.
func englishDict() wordDict {
	dictOnce.Do(func() {
		lem, err := golem.New(en.New())
		if err != nil {
			monitoring.Logf("lemmatizer: english dictionary unavailable: %v", err)
			return
		}
		dict = lem
	})
	return dict
}

// Lemmatize reduces a lower-case English noun to its singular form. Words of
// three letters or fewer, and words no rule maps onto a dictionary entry, are
// returned unchanged.
func Lemmatize(word string) string {
	return lemmatizeWith(englishDict(), word)
}

func lemmatizeWith(d wordDict, word string) string {
	if len(word) <= 3 {
		return word
	}
	if lemma, ok := irregularNouns[word]; ok {
		return lemma
	}
	for _, s := range invariantSuffixes {
		if strings.HasSuffix(word, s) {
			return word
		}
	}
	if d == nil {
		return word
	}

	best := ""
	for _, r := range nounRules {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		base := strings.TrimSuffix(word, r.suffix) + r.repl
		if base == "" || !knownLemma(d, word, base) {
			continue
		}
		if best == "" || len(base) < len(best) {
			best = base
		}
	}
	if best == "" {
		return word
	}
	return best
}

func knownLemma(d wordDict, word, base string) bool {
	if d.InDict(base) {
		return true
	}
	for _, l := range d.Lemmas(word) {
		if l == base {
			return true
		}
	}
	return false
}
