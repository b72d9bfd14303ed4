package service

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/leadscope/opportunity-finder/api/internal/entity"
	"github.com/leadscope/opportunity-finder/api/internal/places"
	"github.com/leadscope/opportunity-finder/api/internal/service/scoring"
)

const defaultPhoneRegion = "US"

// mapProviderDomains are hosts owned by the map provider. A "website" pointing
// at one of these is the listing itself, not the business's own site, and is
// treated as no website at all.
var mapProviderDomains = []string{
	"google.com",
	"goo.gl",
	"g.page",
	"business.site",
}

// candidate is one deduplicated place together with its annotated distance.
type candidate struct {
	place         places.Place
	distanceMiles float64
}

// buildBusiness assembles the result entity for one candidate. A nil detail
// means the per-item fetch failed: the record is built from the raw candidate
// with sentinel contact values so the candidate still yields exactly one
// output row.
func (s *SearchService) buildBusiness(cand candidate, detail *places.Detail) entity.Business {
	biz := entity.Business{
		PlaceID:        cand.place.PlaceID,
		Name:           cand.place.Name,
		Category:       categoryFromTypes(cand.place.Types),
		Address:        addressOf(cand.place),
		Phone:          entity.PhoneUnavailable,
		Rating:         cand.place.Rating,
		Reviews:        cand.place.UserRatingsTotal,
		BusinessStatus: statusOrOperational(cand.place.BusinessStatus),
		DistanceMiles:  roundTenth(cand.distanceMiles),
		MapURL:         "https://www.google.com/maps/place/?q=place_id:" + cand.place.PlaceID,
	}

	if detail != nil {
		if detail.Name != "" {
			biz.Name = detail.Name
		}
		biz.Phone = normalizePhone(detail.FormattedPhoneNumber, detail.InternationalPhoneNumber)
		biz.Website = normalizeWebsite(detail.Website)
		biz.Hours = normalizeHours(detail.OpeningHours)
		biz.PhotosCount = len(detail.Photos)
		biz.PriceLevel = detail.PriceLevel
		if detail.Rating > 0 {
			biz.Rating = detail.Rating
		}
		if detail.UserRatingsTotal > 0 {
			biz.Reviews = detail.UserRatingsTotal
		}
		if detail.BusinessStatus != "" {
			biz.BusinessStatus = detail.BusinessStatus
		}
		if detail.URL != "" {
			biz.MapURL = detail.URL
		}
	}

	biz.Score = s.scorer.Score(scoring.Signals{
		HasWebsite:     biz.Website != nil,
		HasPhone:       biz.Phone != entity.PhoneUnavailable,
		Rating:         biz.Rating,
		Reviews:        biz.Reviews,
		PhotosCount:    biz.PhotosCount,
		HasHours:       len(biz.Hours) > 0,
		BusinessStatus: biz.BusinessStatus,
	})
	biz.Opportunity = scoring.Tier(biz.Score)

	return biz
}

// normalizePhone falls through formatted → international → sentinel. Numbers
// that parse are rendered in national format for display.
func normalizePhone(formatted, international string) string {
	raw := strings.TrimSpace(formatted)
	if raw == "" {
		raw = strings.TrimSpace(international)
	}
	if raw == "" {
		return entity.PhoneUnavailable
	}

	number, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.NATIONAL)
}

// normalizeWebsite returns nil for an absent website or one hosted on a map
// provider domain.
func normalizeWebsite(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	withScheme := raw
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}
	parsed, err := url.Parse(withScheme)
	if err != nil || parsed.Host == "" {
		return nil
	}

	host := strings.ToLower(parsed.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	host = strings.TrimPrefix(host, "www.")

	for _, domain := range mapProviderDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}

	return &raw
}

func normalizeHours(hours *places.OpeningHours) []string {
	if hours == nil || len(hours.WeekdayText) == 0 {
		return nil
	}
	return hours.WeekdayText
}

// statusOrOperational treats an absent status as operational so unknowns are
// not scored as closed businesses.
func statusOrOperational(status string) string {
	if strings.TrimSpace(status) == "" {
		return scoring.StatusOperational
	}
	return status
}

func categoryFromTypes(types []string) string {
	for _, t := range types {
		if t == "establishment" || t == "point_of_interest" {
			continue
		}
		return strings.ReplaceAll(t, "_", " ")
	}
	return "business"
}

func addressOf(place places.Place) string {
	if place.Vicinity != "" {
		return place.Vicinity
	}
	if place.FormattedAddress != "" {
		return place.FormattedAddress
	}
	return "Address not available"
}

func roundTenth(miles float64) float64 {
	return float64(int(miles*10+0.5)) / 10
}
