package inspection

import (
	"context"
	"errors"
	"time"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Write path for all inspection entities. Enum and required-field
// violations come back as *ValidationError, dangling parent references
// as *NotFoundError. Referential integrity on delete is handled by the
// ON DELETE CASCADE constraints in the schema.

func ensureProject(ctx context.Context, id uuid.UUID) error {
	var p Project
	if err := db.DB.WithContext(ctx).Select("id").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "project", ID: id.String()}
		}
		return err
	}
	return nil
}

func ensureBridge(ctx context.Context, id uuid.UUID) error {
	var b Bridge
	if err := db.DB.WithContext(ctx).Select("id").First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "bridge", ID: id.String()}
		}
		return err
	}
	return nil
}

func ensureObservation(ctx context.Context, id uuid.UUID) error {
	var o Observation
	if err := db.DB.WithContext(ctx).Select("id").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "observation", ID: id.String()}
		}
		return err
	}
	return nil
}

func CreateProject(ctx context.Context, p *Project) error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return db.DB.WithContext(ctx).Create(p).Error
}

func GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	if err := db.DB.WithContext(ctx).Preload("Bridges").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "project", ID: id.String()}
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project and, through the cascade
// constraints, all of its bridges, observations, images and summary
// rows.
func DeleteProject(ctx context.Context, id uuid.UUID) error {
	res := db.DB.WithContext(ctx).Delete(&Project{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "project", ID: id.String()}
	}
	return nil
}

func CreateBridge(ctx context.Context, b *Bridge) error {
	if err := b.validate(); err != nil {
		return err
	}
	if err := ensureProject(ctx, b.ProjectID); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return db.DB.WithContext(ctx).Create(b).Error
}

func UpdateBridge(ctx context.Context, b *Bridge) error {
	if err := b.validate(); err != nil {
		return err
	}
	return db.DB.WithContext(ctx).Save(b).Error
}

func DeleteBridge(ctx context.Context, id uuid.UUID) error {
	res := db.DB.WithContext(ctx).Delete(&Bridge{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "bridge", ID: id.String()}
	}
	return nil
}

func CreateObservation(ctx context.Context, o *Observation) error {
	if err := o.validate(); err != nil {
		return err
	}
	if err := ensureBridge(ctx, o.BridgeID); err != nil {
		return err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return db.DB.WithContext(ctx).Create(o).Error
}

func UpdateObservation(ctx context.Context, o *Observation) error {
	if err := o.validate(); err != nil {
		return err
	}
	return db.DB.WithContext(ctx).Save(o).Error
}

func DeleteObservation(ctx context.Context, id uuid.UUID) error {
	res := db.DB.WithContext(ctx).Delete(&Observation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "observation", ID: id.String()}
	}
	return nil
}

// CreateObservationImage persists an image record, resolving its
// location name first when coordinates are present. Enrichment is
// best-effort: a geocoding failure never blocks the save.
func CreateObservationImage(ctx context.Context, img *ObservationImage) error {
	if img.ImageType == "" {
		img.ImageType = ImageTypeBefore
	}
	if img.Side == "" {
		img.Side = SideLHS
	}
	if err := img.validate(); err != nil {
		return err
	}
	if err := ensureObservation(ctx, img.ObservationID); err != nil {
		return err
	}
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if img.Timestamp.IsZero() {
		img.Timestamp = time.Now()
	}
	enrichLocation(ctx, img)
	return db.DB.WithContext(ctx).Create(img).Error
}

// UpdateObservationImage saves an edited image record. A location name
// already stored for the record is kept regardless of what the caller
// sends; enrichment only fills the field when it is still empty.
func UpdateObservationImage(ctx context.Context, img *ObservationImage) error {
	if err := img.validate(); err != nil {
		return err
	}
	var stored ObservationImage
	if err := db.DB.WithContext(ctx).Select("id", "location_name").First(&stored, "id = ?", img.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "image", ID: img.ID.String()}
		}
		return err
	}
	if stored.LocationName != "" {
		img.LocationName = stored.LocationName
	}
	enrichLocation(ctx, img)
	return db.DB.WithContext(ctx).Save(img).Error
}

func DeleteObservationImage(ctx context.Context, id uuid.UUID) error {
	res := db.DB.WithContext(ctx).Delete(&ObservationImage{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "image", ID: id.String()}
	}
	return nil
}
