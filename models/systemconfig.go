package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SLARules holds response-time targets in hours per priority.
type SLARules struct {
	CriticalResponseTime int `bson:"criticalResponseTime" json:"criticalResponseTime"`
	HighResponseTime     int `bson:"highResponseTime" json:"highResponseTime"`
	MediumResponseTime   int `bson:"mediumResponseTime" json:"mediumResponseTime"`
}

// SystemConfig is a single-document collection controlling portal behavior.
type SystemConfig struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Categories        []string           `bson:"categories" json:"categories"`
	Priorities        []string           `bson:"priorities" json:"priorities"`
	MaintenanceMode   bool               `bson:"maintenanceMode" json:"maintenanceMode"`
	AllowRegistration bool               `bson:"allowRegistration" json:"allowRegistration"`
	SLARules          SLARules           `bson:"slaRules" json:"slaRules"`
}

// DefaultSystemConfig returns the configuration created on first read.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Categories:        []string{"Academic", "Infrastructure", "Canteen", "Library", "Transport", "Other"},
		Priorities:        []string{"low", "medium", "high", "critical"},
		MaintenanceMode:   false,
		AllowRegistration: true,
		SLARules: SLARules{
			CriticalResponseTime: 2,
			HighResponseTime:     24,
			MediumResponseTime:   48,
		},
	}
}
