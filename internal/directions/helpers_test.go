package directions

import (
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

func anchorAt(l geomap.LatLng) routing.Anchor {
	return routing.Anchor{Point: l.Point()}
}
