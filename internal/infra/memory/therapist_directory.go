package memory

import (
	"context"

	"screening-service/internal/domain"
)

// TherapistDirectory serves a fixed list of resources in the order given.
type TherapistDirectory struct {
	resources []domain.TherapistResource
}

func NewTherapistDirectory(resources []domain.TherapistResource) *TherapistDirectory {
	return &TherapistDirectory{resources: append([]domain.TherapistResource(nil), resources...)}
}

func (d *TherapistDirectory) ListTherapists(_ context.Context, filter domain.TherapistFilter) ([]domain.TherapistResource, error) {
	out := make([]domain.TherapistResource, 0)
	for _, t := range d.resources {
		if !filter.Matches(t) {
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}
