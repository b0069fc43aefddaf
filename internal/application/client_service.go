package application

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daedongje/service-wayfinding/internal/directions"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/geolocation"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// ChatPluginScript is the support chat plugin script clients load.
const ChatPluginScript = "https://cdn.channel.io/plugin/ch-plugin-web.js"

// ClientSettings is the configuration the client service exposes.
type ClientSettings struct {
	SDKKey        string
	SDKURL        string
	HasDirections bool
	ChatPluginKey string
	QRBaseURL     string
	QRSize        int
}

// MapClientConfig tells a client whether and how to load the map SDK.
type MapClientConfig struct {
	Enabled           bool          `json:"enabled"`
	ScriptURL         string        `json:"script_url,omitempty"`
	DirectionsEnabled bool          `json:"directions_enabled"`
	DefaultCenter     geomap.LatLng `json:"default_center"`
	LoadTimeoutMs     int64         `json:"load_timeout_ms"`
	PositionTimeoutMs int64         `json:"position_timeout_ms"`
}

// ChatAppearance positions the chat launcher.
type ChatAppearance struct {
	Position string `json:"position"`
	XMargin  int    `json:"xMargin"`
	YMargin  int    `json:"yMargin"`
}

// ChatBootOptions is passed verbatim to the chat plugin's boot call.
type ChatBootOptions struct {
	PluginKey  string         `json:"pluginKey"`
	Appearance ChatAppearance `json:"appearance"`
}

// ChatClientConfig tells a client whether to boot the support chat.
type ChatClientConfig struct {
	Enabled   bool             `json:"enabled"`
	ScriptURL string           `json:"script_url,omitempty"`
	Boot      *ChatBootOptions `json:"boot,omitempty"`
}

// ClientConfigDTO lists the optional client integrations and their settings.
type ClientConfigDTO struct {
	Map  MapClientConfig  `json:"map"`
	Chat ChatClientConfig `json:"chat"`
}

// RegistrationDTO is a completed registration with its check-in QR code.
type RegistrationDTO struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id,omitempty"`
	QRData         string `json:"qr_data"`
	QRImageURL     string `json:"qr_image_url"`
}

// ClientService serves client-side integration settings and registration
// check-in codes.
type ClientService struct {
	settings ClientSettings
	now      func() time.Time
}

// NewClientService creates a new ClientService.
func NewClientService(settings ClientSettings) *ClientService {
	if settings.QRSize <= 0 {
		settings.QRSize = 300
	}
	return &ClientService{settings: settings, now: time.Now}
}

// ClientConfig reports which integrations are enabled. A missing key disables
// its integration without error.
func (s *ClientService) ClientConfig(loadTimeout time.Duration) ClientConfigDTO {
	cfg := ClientConfigDTO{
		Map: MapClientConfig{
			Enabled:           s.settings.SDKKey != "",
			DirectionsEnabled: s.settings.HasDirections,
			DefaultCenter:     geolocation.DefaultCenter,
			LoadTimeoutMs:     loadTimeout.Milliseconds(),
			PositionTimeoutMs: geolocation.RequestTimeout.Milliseconds(),
		},
	}
	if cfg.Map.Enabled {
		cfg.Map.ScriptURL = directions.SDKScriptURL(s.settings.SDKURL, s.settings.SDKKey)
	}
	if s.settings.ChatPluginKey != "" {
		cfg.Chat = ChatClientConfig{
			Enabled:   true,
			ScriptURL: ChatPluginScript,
			Boot: &ChatBootOptions{
				PluginKey:  s.settings.ChatPluginKey,
				Appearance: ChatAppearance{Position: "right", XMargin: 20, YMargin: 20},
			},
		}
	}
	return cfg
}

// Register issues a registration ID and the QR code that encodes it.
func (s *ClientService) Register(eventID string) RegistrationDTO {
	id := fmt.Sprintf("REG-%d-%s", s.now().UnixMilli(), randomToken(9))
	data := id + "-" + randomToken(16)
	if eventID != "" {
		data = eventID + "-" + data
	}
	return RegistrationDTO{
		RegistrationID: id,
		EventID:        eventID,
		QRData:         data,
		QRImageURL:     s.QRImageURL(data),
	}
}

// QRCode returns the QR image URL for an arbitrary payload.
func (s *ClientService) QRCode(data string) (string, error) {
	if strings.TrimSpace(data) == "" {
		return "", errs.NewValidationError("data is required")
	}
	return s.QRImageURL(data), nil
}

// QRImageURL builds the image URL for data.
func (s *ClientService) QRImageURL(data string) string {
	size := strconv.Itoa(s.settings.QRSize)
	return s.settings.QRBaseURL + "?size=" + size + "x" + size +
		"&data=" + strings.ReplaceAll(url.QueryEscape(data), "+", "%20")
}

// randomToken returns n uppercase alphanumerics.
func randomToken(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")))
	}
	return b.String()[:n]
}
