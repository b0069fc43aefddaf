package directions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultSDKURL is the Kakao Maps JavaScript SDK location.
const DefaultSDKURL = "https://dapi.kakao.com/v2/maps/sdk.js"

// DefaultSDKTimeout bounds the probe when no client is supplied.
const DefaultSDKTimeout = 10 * time.Second

// SDKScriptURL returns the script URL a client loads for the given app key.
// The SDK is loaded with autoload off so that it boots once on demand.
func SDKScriptURL(base, appKey string) string {
	if base == "" {
		base = DefaultSDKURL
	}
	return base + "?appkey=" + url.QueryEscape(appKey) + "&autoload=false"
}

// SDKProbe returns an initialiser that checks the SDK script is served for
// appKey. It is meant to run once behind an sdkload.Loader. A host that does
// not answer within the client timeout counts as a failure, not an
// interruption, so the loader settles instead of staying pending.
func SDKProbe(httpClient *http.Client, base, appKey string) func(ctx context.Context) error {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultSDKTimeout}
	}
	return func(ctx context.Context) error {
		if appKey == "" {
			return ErrNoCredential
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, SDKScriptURL(base, appKey), nil)
		if err != nil {
			return err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("map sdk unreachable: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("map sdk status %d", resp.StatusCode)
		}
		return nil
	}
}
