// Package catalog maps free text onto the massage service menu.
package catalog

import "strings"

// DefaultService is offered when a booking request names no recognizable service.
const DefaultService = "Swedish Massage"

// entry pairs trigger terms with the canonical service name. Entries are
// ordered most-specific-first so that multi-word terms win over their
// components ("hot stone" before "stone", "neck and shoulder" before "neck").
type entry struct {
	terms   []string
	service string
}

var entries = []entry{
	{[]string{"hot stone"}, "Hot Stone Massage"},
	{[]string{"deep tissue"}, "Deep Tissue Massage"},
	{[]string{"neck and shoulder"}, "Neck and Shoulder Massage"},
	{[]string{"full body"}, "Full Body Relaxation"},
	{[]string{"aromatherapy"}, "Aromatherapy Massage"},
	{[]string{"sports"}, "Sports Massage"},
	{[]string{"prenatal"}, "Prenatal Massage"},
	{[]string{"postnatal"}, "Postnatal Massage"},
	{[]string{"thai"}, "Thai Massage"},
	{[]string{"swedish"}, "Swedish Massage"},
	{[]string{"reflexology"}, "Reflexology"},
	{[]string{"shiatsu"}, "Shiatsu Massage"},
	{[]string{"trigger point"}, "Trigger Point Massage"},
	{[]string{"lymphatic"}, "Lymphatic Drainage Massage"},
	{[]string{"craniosacral"}, "Craniosacral Therapy"},
	{[]string{"myofascial"}, "Myofascial Release"},
	{[]string{"cupping"}, "Cupping Therapy"},
	{[]string{"reiki"}, "Reiki Massage"},
	{[]string{"couples"}, "Couples Massage"},
	{[]string{"chair"}, "Chair Massage"},
	{[]string{"foot"}, "Foot Massage"},
	{[]string{"back"}, "Back Massage"},
	{[]string{"scalp"}, "Head and Scalp Massage"},
	{[]string{"watsu"}, "Watsu Massage"},
	{[]string{"lomi"}, "Lomi Lomi Massage"},
	{[]string{"balinese"}, "Balinese Massage"},
	{[]string{"ayurvedic"}, "Ayurvedic Massage"},
	{[]string{"indian head"}, "Indian Head Massage"},
	{[]string{"stone"}, "Stone Massage"},
	{[]string{"bamboo"}, "Warm Bamboo Massage"},
	{[]string{"four hands"}, "Four Hands Massage"},
	{[]string{"geriatric"}, "Geriatric Massage"},
	{[]string{"oncology"}, "Oncology Massage"},
	{[]string{"therapeutic"}, "Therapeutic Massage"},
	{[]string{"relaxation"}, "Relaxation Massage"},
	{[]string{"stress"}, "Stress Relief Massage"},
	{[]string{"energy healing"}, "Energy Healing Massage"},
	{[]string{"meditation"}, "Meditation Massage"},
	{[]string{"neck"}, "Neck and Shoulder Massage"},
	{[]string{"shoulder"}, "Neck and Shoulder Massage"},
}

// serviceTerms is the vocabulary used to decide whether a message mentions
// any service at all, independent of which catalog entry it resolves to.
var serviceTerms = []string{
	"massage", "thai", "swedish", "deep tissue", "hot stone", "neck",
	"shoulder", "aromatherapy", "sports", "prenatal", "reflexology",
	"full body", "relaxation", "shiatsu", "trigger point", "lymphatic",
	"craniosacral", "myofascial", "cupping", "reiki", "couples", "chair",
	"foot", "back", "head", "scalp", "watsu", "lomi", "balinese",
	"ayurvedic", "indian head", "stone", "bamboo", "four hands",
	"postnatal", "geriatric", "oncology", "therapeutic", "stress relief",
	"energy healing", "meditation",
}

// Match resolves text to a catalog service. The first entry whose term
// appears in the text wins; unmatched text falls back to DefaultService.
func Match(text string) string {
	lower := strings.ToLower(text)
	for _, e := range entries {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				return e.service
			}
		}
	}
	return DefaultService
}

// MentionsService reports whether the text names any massage service term.
func MentionsService(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range serviceTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Services returns the canonical service names in catalog priority order,
// without duplicates.
func Services() []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e.service] {
			continue
		}
		seen[e.service] = true
		out = append(out, e.service)
	}
	return out
}
