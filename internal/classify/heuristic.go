// Package classify assigns a category to a report, either locally from keyword rules and an image
// model or remotely through the AI moderation/classification function.
package classify

import (
	"strings"

	"github.com/jejak-app/jejak/api/internal/report/domain"
)

type rule struct {
	keyword  string
	category domain.Category
}

// order matters: the first matching rule wins
var textRules = []rule{
	{"jalan", domain.CategoryInfrastructure},
	{"sampah", domain.CategoryCleanliness},
	{"lampu", domain.CategoryLighting},
}

var labelRules = []rule{
	{"street", domain.CategoryInfrastructure},
	{"trash", domain.CategoryCleanliness},
	{"lamp", domain.CategoryLighting},
}

// TextCategory applies the keyword rules to the lower-cased title and description.
func TextCategory(title, description string) domain.Category {
	return match(textRules, title+" "+description)
}

// LabelCategory maps an image model label to a category.
func LabelCategory(label string) domain.Category {
	return match(labelRules, label)
}

func match(rules []rule, text string) domain.Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.category
		}
	}
	return domain.CategoryOther
}
