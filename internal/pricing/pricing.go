// Package pricing answers price questions from a static rate card.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/serenetouch/booking-assistant/internal/catalog"
)

// rateCard holds the per-service 60-minute rates. Services without an
// explicit entry fall back to the standard rate.
var rateCard = map[string]string{
	"Swedish Massage":            "$80",
	"Deep Tissue Massage":        "$95",
	"Hot Stone Massage":          "$110",
	"Thai Massage":               "$100",
	"Aromatherapy Massage":       "$90",
	"Sports Massage":             "$95",
	"Prenatal Massage":           "$90",
	"Neck and Shoulder Massage":  "$60",
	"Full Body Relaxation":       "$105",
	"Reflexology":                "$70",
	"Couples Massage":            "$170",
	"Lymphatic Drainage Massage": "$100",
}

const standardRate = "$85"

// Service resolves pricing questions against the rate card.
type Service struct{}

// NewService returns a rate-card pricing service.
func NewService() *Service {
	return &Service{}
}

// Answer builds the reply for a pricing question. Naming a service gets its
// rate; otherwise the reply summarizes the menu.
func (s *Service) Answer(text string) string {
	if catalog.MentionsService(text) {
		service := catalog.Match(text)
		rate, ok := rateCard[service]
		if !ok {
			rate = standardRate
		}
		return fmt.Sprintf("A 60-minute %s is %s. Would you like to book one?", service, rate)
	}

	names := make([]string, 0, len(rateCard))
	for name := range rateCard {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Our 60-minute sessions start at " + rateCard["Neck and Shoulder Massage"] + ". Popular options: ")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name + " " + rateCard[name])
	}
	sb.WriteString(". Which one would you like?")
	return sb.String()
}
