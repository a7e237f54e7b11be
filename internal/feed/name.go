package feed

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"pinsync/internal/models"
)

const feedNamePrefix = "magento2_pbcb"

// FeedName derives the deterministic feed name for a (locale, source URL)
// pair. The name is the join key between desired and remote state: two runs
// over unchanged configuration must produce the same name, which is what
// makes re-registration idempotent.
func FeedName(locale, sourceURL string) string {
	sum := md5.Sum([]byte(sourceURL))
	return fmt.Sprintf("%s_%s_%s", feedNamePrefix, locale, hex.EncodeToString(sum[:])[:6])
}

// FileName is the on-disk name of the exported feed for one locale.
func FileName(locale string) string {
	return fmt.Sprintf("catalog_%s.xml", strings.ToLower(locale))
}

// FilePath is where the exported feed for the storefront lives on disk.
func FilePath(exportDir string, sf models.Storefront) string {
	return filepath.Join(exportDir, FileName(sf.Locale))
}

// SourceURL is the HTTP location the platform polls for the storefront's feed.
func SourceURL(sf models.Storefront) string {
	return strings.TrimSuffix(sf.BaseURL, "/") + "/feeds/" + FileName(sf.Locale)
}

// Countries the ads platform accepts catalog feeds for.
var supportedCountries = map[string]bool{
	"AR": true, "AT": true, "AU": true, "BE": true, "BR": true,
	"CA": true, "CH": true, "CL": true, "CO": true, "CY": true,
	"CZ": true, "DE": true, "DK": true, "ES": true, "FI": true,
	"FR": true, "GB": true, "GR": true, "HU": true, "IE": true,
	"IT": true, "JP": true, "LU": true, "MT": true, "MX": true,
	"NL": true, "NO": true, "NZ": true, "PL": true, "PT": true,
	"RO": true, "SE": true, "SK": true, "US": true, "UY": true,
}

// SupportedCountry reports whether feeds can be registered for the country.
func SupportedCountry(country string) bool {
	return supportedCountries[strings.ToUpper(country)]
}
