package model

// Reference tables used by the classifier's three-field match. Read-only
// from the engine's point of view; rows are maintained by the master-data
// subsystem.

type Client struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}

// GeoState is named to avoid colliding with the ownership state enum.
type GeoState struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (GeoState) TableName() string { return "states" }

type City struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"index;not null"`
	StateID *int64
}
