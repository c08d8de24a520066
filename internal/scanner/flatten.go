package scanner

import "github.com/alanyoungcy/polyscan/internal/domain"

// Flatten expands qualified listings into one row per qualifying outcome.
// Binary listings yield a single YES or NO row. Multi-outcome listings yield a
// row for every outcome priced at or above threshold, ties included.
func Flatten(qualified []Classified, threshold float64, obs Observer) []domain.Row {
	rows := make([]domain.Row, 0, len(qualified))
	for _, c := range qualified {
		if c.Result.Binary {
			row, ok := binaryRow(c, threshold)
			if ok {
				rows = append(rows, row)
			}
			continue
		}
		for i, name := range c.Result.Outcomes {
			p := c.Result.Prices[i]
			if p < threshold {
				continue
			}
			rows = append(rows, domain.Row{
				Listing:       c.Listing,
				Outcome:       name,
				YesPrice:      p,
				CertaintySide: name,
			})
		}
	}
	obs.StageDone(StageFlatten, len(rows), 0)
	return rows
}

func binaryRow(c Classified, threshold float64) (domain.Row, bool) {
	var side string
	switch yes := c.Result.YesPrice; {
	case yes >= threshold:
		side = domain.SideYes
	case yes <= 1-threshold:
		side = domain.SideNo
	default:
		return domain.Row{}, false
	}
	no := c.Result.NoPrice
	return domain.Row{
		Listing:       c.Listing,
		Outcome:       side,
		YesPrice:      c.Result.YesPrice,
		NoPrice:       &no,
		CertaintySide: side,
		Binary:        true,
	}, true
}
