package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alumniconnect/internal/models"
)

func TestComputeStatsScenario(t *testing.T) {
	placements := []models.Placement{
		{Company: "Acme", Package: 10},
		{Company: "Globex", Package: 8},
		{Company: "Acme", Package: 14},
	}

	stats := ComputeStats(placements, 10)

	assert.Equal(t, 3, stats.TotalPlacements)
	assert.InDelta(t, 30.0, stats.PlacementRate, 1e-9)
	assert.InDelta(t, 32.0/3.0, stats.AveragePackage, 1e-9)
	assert.Equal(t, 14, stats.HighestPackage)
	assert.Equal(t, []models.CompanyStat{
		{Company: "Acme", Count: 2, MinPackage: 10, MaxPackage: 14},
		{Company: "Globex", Count: 1, MinPackage: 8, MaxPackage: 8},
	}, stats.CompanyStats)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, 0)

	assert.Equal(t, 0, stats.TotalPlacements)
	assert.Zero(t, stats.PlacementRate)
	assert.Zero(t, stats.AveragePackage)
	assert.Equal(t, 0, stats.HighestPackage)
	assert.NotNil(t, stats.CompanyStats)
	assert.Empty(t, stats.CompanyStats)
}

func TestComputeStatsWithoutStudents(t *testing.T) {
	stats := ComputeStats([]models.Placement{{Company: "Acme", Package: 5}}, 0)
	assert.Zero(t, stats.PlacementRate)
	assert.Equal(t, 5, stats.HighestPackage)
}

func TestComputeStatsTiesKeepFirstSeenOrder(t *testing.T) {
	stats := ComputeStats([]models.Placement{
		{Company: "Initech", Package: 6},
		{Company: "acme", Package: 4},
		{Company: "Acme", Package: 9},
	}, 3)

	companies := make([]string, 0, len(stats.CompanyStats))
	for _, cs := range stats.CompanyStats {
		companies = append(companies, cs.Company)
	}
	assert.Equal(t, []string{"Initech", "acme", "Acme"}, companies)
	assert.InDelta(t, 100.0, stats.PlacementRate, 1e-9)
}
