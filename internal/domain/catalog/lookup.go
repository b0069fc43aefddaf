package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// alias groups the search words that all point at one location name.
type alias struct {
	name  string
	words []string
}

// aliases are checked in order.
var aliases = []alias{
	{name: "화장실", words: []string{"화장실", "restroom", "toilet", "wc", "화장실 위치"}},
	{name: "흡연장", words: []string{"흡연장", "smoking", "담배", "흡연구역"}},
	{name: "쓰레기통", words: []string{"쓰레기통", "trash", "쓰레기", "garbage"}},
	{name: "행사장", words: []string{"행사장", "메인 무대", "무대", "stage", "main stage"}},
	{name: "부스", words: []string{"부스", "booth", "푸드트럭", "food"}},
}

// FindByKeyword returns the first location matching keyword by exact name,
// then by alias, then by name substring. Matching ignores case and
// surrounding space.
func FindByKeyword(locations []*Location, keyword string) *Location {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}

	for _, l := range locations {
		if strings.ToLower(l.name) == kw {
			return l
		}
	}

	for _, a := range aliases {
		if !matchesAny(kw, a.words) {
			continue
		}
		for _, l := range locations {
			if l.name == a.name {
				return l
			}
		}
	}

	for _, l := range locations {
		if strings.Contains(strings.ToLower(l.name), kw) {
			return l
		}
	}
	return nil
}

func matchesAny(keyword string, words []string) bool {
	for _, w := range words {
		if strings.Contains(keyword, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// FindNearest returns the location closest to from. A keyword that matches a
// location directly wins regardless of distance; otherwise the keyword narrows
// the candidates by name substring.
func FindNearest(locations []*Location, from geomap.LatLng, keyword string) *Location {
	candidates := locations
	if keyword != "" {
		if match := FindByKeyword(locations, keyword); match != nil {
			return match
		}
		kw := strings.ToLower(keyword)
		candidates = nil
		for _, l := range locations {
			if strings.Contains(strings.ToLower(l.name), kw) {
				candidates = append(candidates, l)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	nearest := candidates[0]
	best := geomap.HaversineKm(from, nearest.position)
	for _, l := range candidates[1:] {
		if d := geomap.HaversineKm(from, l.position); d < best {
			best = d
			nearest = l
		}
	}
	return nearest
}

const naverMapBase = "https://map.naver.com"

// NaverMapURL builds a Naver Map deep link to dest, starting from from when
// it is set.
func NaverMapURL(dest geomap.LatLng, name string, from *geomap.LatLng) string {
	var b strings.Builder
	b.WriteString(naverMapBase)
	b.WriteString("?lng=")
	b.WriteString(formatCoord(dest.Lng))
	b.WriteString("&lat=")
	b.WriteString(formatCoord(dest.Lat))
	b.WriteString("&title=")
	b.WriteString(encodeComponent(name))
	if from != nil && from.Lat != 0 && from.Lng != 0 {
		b.WriteString("&start=")
		b.WriteString(formatCoord(from.Lng))
		b.WriteString(",")
		b.WriteString(formatCoord(from.Lat))
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeComponent percent-encodes s for use as a single query value, spaces
// included.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
