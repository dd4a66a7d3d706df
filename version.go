package tpos

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the SDK version written into every header this package builds.
const Version = "1.4.0"

// HostNamespace prefixes the protocol-version token carried as URL host.
const HostNamespace = "TillhubPointOfSaleSDK"

// ProtocolToken derives the URL host for an SDK version. Only major and minor
// take part, so patch releases stay wire compatible.
//
//	ProtocolToken("1.4.2") // "TillhubPointOfSaleSDK_1_4"
func ProtocolToken(sdkVersion string) (string, error) {
	v, err := semver.NewVersion(strings.TrimSpace(sdkVersion))
	if err != nil {
		return "", fmt.Errorf("tpos: parse sdk version %q: %w", sdkVersion, err)
	}
	return fmt.Sprintf("%s_%d_%d", HostNamespace, v.Major(), v.Minor()), nil
}
