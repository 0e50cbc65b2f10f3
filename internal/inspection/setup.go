package inspection

import (
	"context"
	"errors"
	"log"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Init() {
	// Ensure the inspection schema exists first
	if err := db.EnsureSchema(db.DB, "inspection"); err != nil {
		log.Fatal("Failed to create inspection schema: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension: ", err)
	}

	if err := db.DB.AutoMigrate(
		&Project{},
		&Bridge{},
		&Observation{},
		&ObservationImage{},
		&SummaryStat{},
	); err != nil {
		log.Fatal("Failed to auto-migrate inspection tables: ", err)
	}

	log.Println("Inspection module initialized")
}

// EnsureDefaultProject creates the default project when the store has
// none, and returns the oldest project either way. Idempotent; called
// from composition roots only, never from a read path.
func EnsureDefaultProject(ctx context.Context) (*Project, error) {
	var project Project
	err := db.DB.WithContext(ctx).Order("created_at asc").First(&project).Error
	if err == nil {
		return &project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	project = Project{
		ID:          uuid.New(),
		Name:        "NH-9 Bridge Inspection Project",
		Location:    "Solapur - Karnataka Border",
		Description: "Comprehensive bridge inspection and maintenance reporting system for National Highway 9",
	}
	if err := db.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
