package service

import (
	"sort"

	"alumniconnect/internal/models"
)

// ComputeStats folds placements into summary figures. Companies are grouped
// by exact name and ordered by count descending, ties in first-seen order.
func ComputeStats(placements []models.Placement, studentCount int) models.PlacementStats {
	stats := models.PlacementStats{
		TotalPlacements: len(placements),
		CompanyStats:    make([]models.CompanyStat, 0),
	}
	if studentCount > 0 {
		stats.PlacementRate = float64(len(placements)) / float64(studentCount) * 100
	}
	if len(placements) == 0 {
		return stats
	}

	index := make(map[string]int)
	sum := 0
	for i, p := range placements {
		sum += p.Package
		if i == 0 || p.Package > stats.HighestPackage {
			stats.HighestPackage = p.Package
		}

		pos, seen := index[p.Company]
		if !seen {
			index[p.Company] = len(stats.CompanyStats)
			stats.CompanyStats = append(stats.CompanyStats, models.CompanyStat{
				Company:    p.Company,
				Count:      1,
				MinPackage: p.Package,
				MaxPackage: p.Package,
			})
			continue
		}
		cs := &stats.CompanyStats[pos]
		cs.Count++
		cs.MinPackage = min(cs.MinPackage, p.Package)
		cs.MaxPackage = max(cs.MaxPackage, p.Package)
	}
	stats.AveragePackage = float64(sum) / float64(len(placements))

	sort.SliceStable(stats.CompanyStats, func(i, j int) bool {
		return stats.CompanyStats[i].Count > stats.CompanyStats[j].Count
	})
	return stats
}
