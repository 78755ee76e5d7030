package models

import "time"

type PlacementType string

const (
	PlacementFullTime   PlacementType = "full_time"
	PlacementInternship PlacementType = "internship"
)

type Placement struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"studentId"`
	Company       string        `json:"company"`
	Role          string        `json:"role"`
	Package       int           `json:"package"`
	PlacementType PlacementType `json:"placementType"`
	Year          int           `json:"year"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type PlacementView struct {
	Placement
	Student UserSummary `json:"student"`
}

type CompanyStat struct {
	Company    string `json:"company"`
	Count      int    `json:"count"`
	MinPackage int    `json:"minPackage"`
	MaxPackage int    `json:"maxPackage"`
}

type PlacementStats struct {
	TotalPlacements int           `json:"totalPlacements"`
	PlacementRate   float64       `json:"placementRate"`
	AveragePackage  float64       `json:"averagePackage"`
	HighestPackage  int           `json:"highestPackage"`
	CompanyStats    []CompanyStat `json:"companyStats"`
}
