package coordinator

import (
	"log/slog"

	"dashsearch/internal/domain/models"
)

func (c *Coordinator) normalize(kind models.Kind, records []models.Record) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(records))

	for _, r := range records {
		switch kind {
		case models.KindState:
			results = append(results, models.MatchResult{
				Kind:     models.KindState,
				Label:    r.Get(models.FieldName),
				RouteKey: r.Get(models.FieldCode),
			})

		case models.KindDistrict:
			region := r.Get(models.FieldState)
			code, ok := c.regions.Code(region)
			if !ok {
				// no route to navigate to; the match is dropped
				c.log.Debug("district in unknown region dropped",
					slog.String("district", r.Get(models.FieldDistrict)),
					slog.String("region", region),
				)
				continue
			}
			results = append(results, models.MatchResult{
				Kind:     models.KindDistrict,
				Label:    r.Get(models.FieldDistrict),
				RouteKey: code,
				Region:   region,
			})

		case models.KindResource:
			category := r.Get(models.FieldCategory)
			results = append(results, models.MatchResult{
				Kind:          models.KindResource,
				Label:         r.Get(models.FieldOrganisation),
				Category:      category,
				CategoryLabel: models.CategoryLabel(category),
				Website:       r.Get(models.FieldContact),
				Description:   r.Get(models.FieldDescription),
				City:          r.Get(models.FieldCity),
				State:         r.Get(models.FieldState),
				Phone:         r.Get(models.FieldPhone),
			})
		}
	}

	return results
}
