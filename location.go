package vertexai

// Environment variables consulted when no explicit location is given.
// GOOGLE_CLOUD_REGION is checked first; CLOUD_ML_REGION is a legacy alias.
const (
	envGoogleCloudRegion = "GOOGLE_CLOUD_REGION"
	envCloudMLRegion     = "CLOUD_ML_REGION"
)

// defaultLocation is used when neither an explicit location nor an
// environment region is available.
const defaultLocation = "us-central1"

// resolveLocation picks the location for a client: an explicit value wins,
// then the region environment variables in priority order, then the
// default. The lookup function is injected so the resolver stays pure;
// callers pass os.Getenv in production. No format validation is performed.
func resolveLocation(explicit string, lookup func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if region := lookup(envGoogleCloudRegion); region != "" {
		return region
	}
	if region := lookup(envCloudMLRegion); region != "" {
		return region
	}
	return defaultLocation
}
