// Package geolocation turns client-reported positioning failures into
// user-facing guidance and picks the map center to show regardless.
package geolocation

import (
	"fmt"
	"time"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// Failure is a category of positioning failure.
type Failure string

const (
	FailurePermissionDenied Failure = "permission_denied"
	FailureUnavailable      Failure = "position_unavailable"
	FailureTimeout          Failure = "timeout"
	FailureUnsupported      Failure = "unsupported"
	FailureUnknown          Failure = "unknown"
)

// Browser geolocation error codes.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// RequestTimeout bounds a client position request.
const RequestTimeout = 10 * time.Second

// DefaultCenter is used when neither a fix nor a caller default is available.
var DefaultCenter = geomap.LatLng{Lat: 37.5665, Lng: 126.9780}

// Guidance is the message and remediation hint shown for a failure.
type Guidance struct {
	Failure Failure `json:"failure"`
	Message string  `json:"message"`
	Hint    string  `json:"hint,omitempty"`
}

var guidance = map[Failure]Guidance{
	FailurePermissionDenied: {
		Failure: FailurePermissionDenied,
		Message: "위치 권한이 거부되었습니다.",
		Hint:    "브라우저 주소창의 자물쇠 아이콘을 클릭하여 위치 권한을 허용해주세요.",
	},
	FailureUnavailable: {
		Failure: FailureUnavailable,
		Message: "위치 정보를 사용할 수 없습니다.",
		Hint:    "시스템 위치 서비스를 확인해주세요.\n• macOS: 시스템 설정 > 개인정보 보호 및 보안 > 위치 서비스\n• Windows: 설정 > 개인정보 > 위치",
	},
	FailureTimeout: {
		Failure: FailureTimeout,
		Message: "위치 정보 요청 시간이 초과되었습니다.",
		Hint:    "네트워크 연결을 확인하고 다시 시도해주세요.",
	},
	FailureUnsupported: {
		Failure: FailureUnsupported,
		Message: "이 브라우저는 위치 정보를 지원하지 않습니다.",
	},
	FailureUnknown: {
		Failure: FailureUnknown,
		Message: "위치 정보를 가져올 수 없습니다.",
	},
}

// Categorize maps a browser geolocation error code to a Failure.
func Categorize(code int) Failure {
	switch code {
	case CodePermissionDenied:
		return FailurePermissionDenied
	case CodePositionUnavailable:
		return FailureUnavailable
	case CodeTimeout:
		return FailureTimeout
	default:
		return FailureUnknown
	}
}

// ParseFailure reads a failure name, accepting unknown names as FailureUnknown.
func ParseFailure(s string) Failure {
	f := Failure(s)
	if _, ok := guidance[f]; ok {
		return f
	}
	return FailureUnknown
}

// GuidanceFor returns the user-facing guidance for f.
func GuidanceFor(f Failure) Guidance {
	if g, ok := guidance[f]; ok {
		return g
	}
	return guidance[FailureUnknown]
}

// Report is what a client sends after trying to get a position: either a fix
// or a failure.
type Report struct {
	Fix     *geomap.LatLng `json:"fix,omitempty"`
	Code    int            `json:"code,omitempty"`
	Failure Failure        `json:"failure,omitempty"`
}

// Resolution is the map center to render and any guidance to show.
type Resolution struct {
	Center   geomap.LatLng `json:"center"`
	Located  bool          `json:"located"`
	Guidance *Guidance     `json:"guidance,omitempty"`
}

// Resolve picks the map center for a report. A valid fix wins; otherwise the
// caller default (or DefaultCenter) is used and guidance explains why.
func Resolve(r Report, fallback *geomap.LatLng) (Resolution, error) {
	if r.Fix != nil {
		if !r.Fix.Valid() {
			return Resolution{}, fmt.Errorf("invalid position fix: %v,%v", r.Fix.Lat, r.Fix.Lng)
		}
		return Resolution{Center: *r.Fix, Located: true}, nil
	}

	center := DefaultCenter
	if fallback != nil && fallback.Valid() {
		center = *fallback
	}

	f := r.Failure
	if f == "" {
		f = Categorize(r.Code)
	} else {
		f = ParseFailure(string(f))
	}
	g := GuidanceFor(f)
	return Resolution{Center: center, Guidance: &g}, nil
}
