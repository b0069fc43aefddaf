package catalog

import "github.com/daedongje/service-wayfinding/internal/domain/geomap"

// DefaultEventID is the event the seeded locations belong to.
const DefaultEventID = "yonsei-festival"

// SeedEvents returns the bundled event listings.
func SeedEvents() []*Event {
	events := []*Event{
		mustEvent(NewEvent(
			DefaultEventID,
			"연세대학교 대동제",
			"5월 27일 - 5월 30일, 10:00 AM - 10:00 PM",
			"연세대학교 신촌캠퍼스",
			"서울특별시 서대문구 연세로 50",
			"연세대학교의 전통 있는 대동제! 다양한 공연, 부스, 체험 프로그램이 준비되어 있습니다.",
			"/img/2025_대동제_책자_내지-01.png",
			342,
			[]string{"# 대동제", "# 공연", "# 부스", "# 체험"},
			"연세대학교 학생회",
			geomap.LatLng{Lat: 37.5640, Lng: 126.9369},
		)),
		mustEvent(NewEvent(
			"rock-festival",
			"2025 락페스티벌",
			"7월 4일 - 7월 26일, 2:00 PM - 11:00 PM",
			"국립극장 달오름, 하늘",
			"서울특별시 중구 장충단로 59",
			"국내 최고의 락 페스티벌! 최고의 밴드들과 함께하는 뜨거운 여름밤을 경험하세요.",
			"/img/2025_락페스티벌.jpg",
			1250,
			[]string{"# 락페스티벌", "# 음악", "# 공연", "# 야외"},
			"락페스티벌 조직위원회",
			geomap.LatLng{Lat: 37.5219, Lng: 127.1264},
		)),
		mustEvent(NewEvent(
			"hackathon",
			"2025 HACKY TALKY",
			"11월 07일 - 11월 08일, 9:00 AM - 6:00 PM",
			"GS타워",
			"서울특별시 강남구 논현로 508 GS타워 8층 (채널톡 오피스)",
			"개발자들의 축제! 24시간 동안 아이디어를 현실로 만들어보세요. 다양한 시상과 네트워킹 기회가 기다립니다.",
			"/img/2025_hacky_talky.jpeg",
			156,
			[]string{"# 해커톤", "# 개발", "# 창업", "# 네트워킹"},
			"해커톤 조직위원회",
			geomap.LatLng{Lat: 37.5083, Lng: 127.0378},
		)),
	}
	events[0].SetFloorPlanImage("/img/2025_대동제_책자_내지-01.png")
	return events
}

type seedLocation struct {
	category Category
	name     string
	kind     string
	lat, lng float64
}

var seedLocations = []seedLocation{
	{CategoryFacility, "화장실", "restroom", 37.5665, 126.9780},
	{CategoryFacility, "흡연장", "smoking", 37.5666, 126.9781},
	{CategoryFacility, "쓰레기통", "trash", 37.5667, 126.9782},
	{CategoryBooth, "맛있는 푸드트럭", "", 37.5665, 126.9780},
	{CategoryBooth, "체험 부스", "", 37.5666, 126.9781},
	{CategoryBooth, "홍보 부스", "", 37.5667, 126.9782},
	{CategoryStage, "메인 무대", "", 37.5665, 126.9780},
	{CategoryStage, "서브 무대", "", 37.5666, 126.9781},
}

// SeedLocations returns the bundled locations of the default event in guide
// order: facilities, booths, then stages.
func SeedLocations() []*Location {
	out := make([]*Location, 0, len(seedLocations))
	for _, s := range seedLocations {
		id := LocationID(DefaultEventID, s.category, s.name)
		l, err := NewLocation(id, DefaultEventID, s.category, s.name, s.kind, geomap.LatLng{Lat: s.lat, Lng: s.lng})
		if err != nil {
			panic(err)
		}
		out = append(out, l)
	}
	return out
}

func mustEvent(e *Event, err error) *Event {
	if err != nil {
		panic(err)
	}
	return e
}
