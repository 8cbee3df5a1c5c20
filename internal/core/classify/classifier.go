package classify

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agenthands/estima/internal/core/model"
	"github.com/agenthands/estima/internal/store"
)

// CatchAllTypeName is the type products fall into when no synonym matches.
const CatchAllTypeName = "Kita"

// Classifier assigns a product type by matching name+description text
// against the synonym table. Synonyms are loaded once and ordered longest
// phrase first so "corner shelf" beats "shelf".
type Classifier struct {
	store store.Store

	synonyms []synonym
	catchAll model.Classification
	loaded   bool
}

type synonym struct {
	model.TypeSynonym
	re *regexp.Regexp
}

func NewClassifier(s store.Store) *Classifier {
	return &Classifier{store: s}
}

// boundary matches a position not inside a word, covering non-ASCII letters
// that regexp's \b does not handle.
func phrasePattern(phrase string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(strings.ToLower(phrase))
	return regexp.Compile(`(?i)(^|[^\p{L}\p{N}])` + quoted + `($|[^\p{L}\p{N}])`)
}

func (c *Classifier) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	synonyms, err := c.store.TypeSynonyms(ctx)
	if err != nil {
		return fmt.Errorf("failed to load type synonyms: %w", err)
	}

	// Longest phrase first; the first match wins, so a longer phrase must be
	// tested before any shorter phrase that is its substring.
	sort.SliceStable(synonyms, func(i, j int) bool {
		return len(synonyms[i].Phrase) > len(synonyms[j].Phrase)
	})

	for _, syn := range synonyms {
		if strings.TrimSpace(syn.Phrase) == "" {
			continue
		}
		re, err := phrasePattern(syn.Phrase)
		if err != nil {
			continue
		}
		c.synonyms = append(c.synonyms, synonym{TypeSynonym: syn, re: re})
	}

	c.catchAll = model.Classification{TypeName: CatchAllTypeName}
	if t, err := c.store.ProductTypeByName(ctx, CatchAllTypeName); err == nil && t != nil {
		c.catchAll.TypeID = t.ID
		c.catchAll.TypeName = t.Name
	}

	c.loaded = true
	return nil
}

// Classify returns the matching type for the product text, or the catch-all
// classification (MatchedPhrase empty) when nothing matches.
func (c *Classifier) Classify(ctx context.Context, name, description string) (model.Classification, error) {
	if err := c.load(ctx); err != nil {
		return model.Classification{}, err
	}

	text := strings.ToLower(name + " " + description)
	for _, syn := range c.synonyms {
		if syn.re.MatchString(text) {
			return model.Classification{
				TypeID:        syn.TypeID,
				TypeName:      syn.TypeName,
				MatchedPhrase: syn.Phrase,
			}, nil
		}
	}

	return c.catchAll, nil
}
