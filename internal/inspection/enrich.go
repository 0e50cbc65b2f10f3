package inspection

import (
	"context"
	"log"
	"time"
)

// LocationResolver turns a coordinate pair into a human-readable place
// name. Implementations must be safe for concurrent use.
type LocationResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

var locationResolver LocationResolver

// SetLocationResolver installs the resolver used to fill in
// ObservationImage.LocationName on writes. Nil disables enrichment.
func SetLocationResolver(r LocationResolver) {
	locationResolver = r
}

const enrichTimeout = 5 * time.Second

// enrichLocation fills LocationName from the image coordinates.
// It does nothing when no resolver is installed, either coordinate is
// missing, or a name is already set. A resolver failure is logged and
// swallowed so the enclosing save always proceeds.
func enrichLocation(ctx context.Context, img *ObservationImage) {
	if locationResolver == nil || img.LocationName != "" || img.Latitude == nil || img.Longitude == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	name, err := locationResolver.Resolve(ctx, *img.Latitude, *img.Longitude)
	if err != nil {
		log.Printf("Location fetch error for image %s: %v", img.ID, err)
		return
	}
	img.LocationName = name
}
