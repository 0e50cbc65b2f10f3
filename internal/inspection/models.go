package inspection

import (
	"time"

	"github.com/google/uuid"
)

// Bridge condition ratings.
const (
	RatingCritical = "critical"
	RatingModerate = "moderate"
	RatingGood     = "good"
)

// Observation severities.
const (
	SeverityCritical = "critical"
	SeverityModerate = "moderate"
	SeverityCleaning = "cleaning"
)

// Carriageway sides.
const (
	SideLHS  = "lhs"
	SideRHS  = "rhs"
	SideBoth = "both"
)

// Image capture stages.
const (
	ImageTypeBefore = "before"
	ImageTypeAfter  = "after"
)

// Project is the root of the hierarchy; it owns bridges.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Location    string    `gorm:"not null" json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Bridges []Bridge `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"bridges,omitempty"`
}

func (Project) TableName() string {
	return "inspection.projects"
}

// Bridge is a single inspected structure, located by chainage along
// the route.
type Bridge struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Name           string    `gorm:"not null" json:"name"`
	ChainageKM     string    `json:"chainage_km"`
	Direction      string    `json:"direction"`
	InspectionDate time.Time `json:"inspection_date"`
	StructureType  string    `json:"structure_type"`
	StructureNo    string    `json:"structure_no"`
	Rating         string    `gorm:"not null" json:"rating"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	ChainageFrom   string    `json:"chainage_from,omitempty"`
	ChainageTo     string    `json:"chainage_to,omitempty"`
	Level          string    `json:"level,omitempty"`
	StructureID    string    `json:"structure_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Observations []Observation `gorm:"foreignKey:BridgeID;constraint:OnDelete:CASCADE" json:"observations,omitempty"`
	SummaryStat  *SummaryStat  `gorm:"foreignKey:BridgeID;constraint:OnDelete:CASCADE" json:"summary_stat,omitempty"`
}

func (Bridge) TableName() string {
	return "inspection.bridges"
}

// Observation records one defect found on a bridge.
type Observation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	BridgeID       uuid.UUID `gorm:"type:uuid;not null;index" json:"bridge_id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	Severity       string    `gorm:"not null;index" json:"severity"`
	Side           string    `gorm:"not null" json:"side"`
	MapCoordinates string    `json:"map_coordinates,omitempty"`
	MapImagePath   string    `json:"map_image_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Images []ObservationImage `gorm:"foreignKey:ObservationID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Observation) TableName() string {
	return "inspection.observations"
}

// ObservationImage is photographic evidence for an observation. The
// image bytes live in the external file store; ImagePath is the
// reference. LocationName is filled by reverse geocoding when the
// coordinates are present, and is never overwritten once set.
type ObservationImage struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ObservationID uuid.UUID `gorm:"type:uuid;not null;index" json:"observation_id"`
	ImagePath     string    `gorm:"not null" json:"image_path"`
	Caption       string    `json:"caption,omitempty"`
	ImageType     string    `gorm:"not null;default:'before'" json:"image_type"`
	Side          string    `gorm:"not null;default:'lhs'" json:"side"`
	Timestamp     time.Time `json:"timestamp"`
	Latitude      *float64  `gorm:"type:numeric(9,6)" json:"latitude,omitempty"`
	Longitude     *float64  `gorm:"type:numeric(9,6)" json:"longitude,omitempty"`
	LocationName  string    `json:"location_name,omitempty"`
}

func (ObservationImage) TableName() string {
	return "inspection.observation_images"
}

// SummaryStat is a denormalized per-bridge snapshot of the aggregated
// observation counts. It is a recomputable cache, never a source of
// truth: RefreshSummaryStat rebuilds it from live observations.
type SummaryStat struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	BridgeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"bridge_id"`

	CriticalTotal int `gorm:"default:0" json:"critical_total"`
	CriticalLHS   int `gorm:"default:0" json:"critical_lhs"`
	CriticalRHS   int `gorm:"default:0" json:"critical_rhs"`

	ModerateTotal int `gorm:"default:0" json:"moderate_total"`
	ModerateLHS   int `gorm:"default:0" json:"moderate_lhs"`
	ModerateRHS   int `gorm:"default:0" json:"moderate_rhs"`

	CleaningTotal int `gorm:"default:0" json:"cleaning_total"`
	CleaningLHS   int `gorm:"default:0" json:"cleaning_lhs"`
	CleaningRHS   int `gorm:"default:0" json:"cleaning_rhs"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (SummaryStat) TableName() string {
	return "inspection.summary_stats"
}
